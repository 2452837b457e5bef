package constprop

import (
	"fmt"

	"github.com/regvm/go-regvm/core/rir"
)

// ApproxKind enumerates the complete approximation lattice. Any kind outside
// this set matches nothing, which keeps unknown constructors conservative.
type ApproxKind byte

const (
	// ApproxNovalue is the bottom point: no runtime value satisfies it. It
	// marks facts the analysis can justify only for unreachable code.
	ApproxNovalue ApproxKind = iota
	// ApproxUnknown carries no information and matches every value.
	ApproxUnknown
	// ApproxInt asserts the register holds exactly one machine integer.
	ApproxInt
	// ApproxFloat asserts the register holds exactly one float constant.
	ApproxFloat
	// ApproxSymbol asserts the register holds the address of a symbol
	// displaced by a byte offset.
	ApproxSymbol
)

// Approx is a compile-time fact about the runtime values a register may hold
// at one program point. Values of this type are immutable; the dataflow
// driver installs fresh entries rather than updating old ones.
type Approx struct {
	kind ApproxKind
	i    rir.Word
	f    float64
	sym  rir.Symbol
	off  rir.Word
}

func Novalue() Approx            { return Approx{kind: ApproxNovalue} }
func Unknown() Approx            { return Approx{kind: ApproxUnknown} }
func IntApprox(n rir.Word) Approx { return Approx{kind: ApproxInt, i: n} }
func FloatApprox(f float64) Approx { return Approx{kind: ApproxFloat, f: f} }
func SymbolApprox(sym rir.Symbol, off rir.Word) Approx {
	return Approx{kind: ApproxSymbol, sym: sym, off: off}
}

func (a Approx) Kind() ApproxKind { return a.kind }
func (a Approx) Int() rir.Word    { return a.i }
func (a Approx) Float() float64   { return a.f }
func (a Approx) Symbol() (rir.Symbol, rir.Word) { return a.sym, a.off }

// IsKnownInt reports whether the approximation pins an exact integer.
func (a Approx) IsKnownInt() bool { return a.kind == ApproxInt }

func (a Approx) String() string {
	switch a.kind {
	case ApproxNovalue:
		return "novalue"
	case ApproxUnknown:
		return "unknown"
	case ApproxInt:
		return fmt.Sprintf("int(%d)", a.i)
	case ApproxFloat:
		return fmt.Sprintf("float(%g)", a.f)
	case ApproxSymbol:
		return fmt.Sprintf("sym(%s+%d)", a.sym, a.off)
	default:
		return fmt.Sprintf("approx(%d)", byte(a.kind))
	}
}

// Matches is the soundness predicate: whether a concrete value is described
// by an approximation. A SymbolApprox whose symbol does not resolve matches
// nothing, which is conservative, not an error.
func Matches(res rir.SymbolResolver, a Approx, v rir.Value) bool {
	switch a.kind {
	case ApproxUnknown:
		return true
	case ApproxInt:
		return v.Kind() == rir.ValInt && v.Int() == a.i
	case ApproxFloat:
		return v.Kind() == rir.ValFloat && v.Float() == a.f
	case ApproxSymbol:
		if v.Kind() != rir.ValPointer {
			return false
		}
		blk, off := v.Pointer()
		want, ok := res.Resolve(a.sym)
		return ok && blk == want && off == a.off
	default:
		// Novalue and any constructor this core does not know about.
		return false
	}
}

// MatchesList lifts Matches pointwise over argument tuples. A length
// mismatch is a programming error in the caller.
func MatchesList(res rir.SymbolResolver, al []Approx, vl []rir.Value) bool {
	if len(al) != len(vl) {
		panic(fmt.Sprintf("constprop: approximation list length %d vs value list length %d", len(al), len(vl)))
	}
	for i, a := range al {
		if !Matches(res, a, vl[i]) {
			return false
		}
	}
	return true
}

// ApproxMap is the per-program-point register fact table handed in by the
// dataflow driver. This core only reads it.
type ApproxMap map[rir.Reg]Approx

// At returns the fact for r, defaulting to Unknown for registers the driver
// has no entry for.
func (m ApproxMap) At(r rir.Reg) Approx {
	if a, ok := m[r]; ok {
		return a
	}
	return Unknown()
}

func (m ApproxMap) argApproxs(args []rir.Reg) []Approx {
	al := make([]Approx, len(args))
	for i, r := range args {
		al[i] = m.At(r)
	}
	return al
}

// Clone copies the map so a block pass can install successor facts without
// touching the caller's snapshot.
func (m ApproxMap) Clone() ApproxMap {
	out := make(ApproxMap, len(m))
	for r, a := range m {
		out[r] = a
	}
	return out
}
