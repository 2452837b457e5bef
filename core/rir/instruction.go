package rir

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// InstrKind tags the instruction families carried by a basic block.
type InstrKind byte

const (
	InstrOp     InstrKind = iota // dest = op(args)
	InstrLoad                    // dest = load [addr(args)]
	InstrStore                   // store [addr(args[:n])], args[n]
	InstrBranch                  // branch-if cond(args)
)

// Instr is one register instruction. Exactly one of Op, Addr, Cond is
// meaningful depending on Kind; loads and stores carry only the addressing
// computation, the accessed memory is outside this core.
type Instr struct {
	Kind InstrKind
	Op   Operation
	Addr AddrMode
	Cond Condition
	Args []Reg
	Dest Reg
}

func NewOp(dest Reg, op Operation, args ...Reg) Instr {
	op.CheckArity(len(args))
	return Instr{Kind: InstrOp, Op: op, Args: args, Dest: dest}
}

func NewLoad(dest Reg, mode AddrMode, args ...Reg) Instr {
	mode.CheckArity(len(args))
	return Instr{Kind: InstrLoad, Addr: mode, Args: args, Dest: dest}
}

// NewStore builds a store; the stored register follows the address registers
// in the argument list.
func NewStore(mode AddrMode, src Reg, args ...Reg) Instr {
	mode.CheckArity(len(args))
	return Instr{Kind: InstrStore, Addr: mode, Args: append(args, src)}
}

func NewBranch(cond Condition, args ...Reg) Instr {
	cond.CheckArity(len(args))
	return Instr{Kind: InstrBranch, Cond: cond, Args: args}
}

// AddrArgs returns the address-computation registers of a load or store.
func (in *Instr) AddrArgs() []Reg {
	if in.Kind == InstrStore {
		return in.Args[:len(in.Args)-1]
	}
	return in.Args
}

func regList(args []Reg) string {
	s := ""
	for i, r := range args {
		if i > 0 {
			s += ", "
		}
		s += "r" + strconv.FormatUint(uint64(r), 10)
	}
	return s
}

func (in Instr) String() string {
	switch in.Kind {
	case InstrOp:
		return "r" + strconv.FormatUint(uint64(in.Dest), 10) + " = " + in.Op.String() + " " + regList(in.Args)
	case InstrLoad:
		return "r" + strconv.FormatUint(uint64(in.Dest), 10) + " = load " + in.Addr.String() + " " + regList(in.Args)
	case InstrStore:
		return "store " + in.Addr.String() + " " + regList(in.Args)
	case InstrBranch:
		return "branch-if " + in.Cond.String() + " " + regList(in.Args)
	default:
		return "instr(?)"
	}
}

// BasicBlock is a straight-line instruction sequence. Distinct blocks share
// no mutable state, which is what makes block-level reduction parallelizable.
type BasicBlock struct {
	Instrs []Instr
}

// Fingerprint hashes the block's instruction stream. Used as the reduction
// cache key.
func (b *BasicBlock) Fingerprint() common.Hash {
	h := sha3.NewLegacyKeccak256()
	var buf [8]byte
	put32 := func(v uint32) {
		binary.BigEndian.PutUint32(buf[:4], v)
		h.Write(buf[:4])
	}
	for _, in := range b.Instrs {
		h.Write([]byte{byte(in.Kind), byte(in.Op.Op), byte(in.Addr.Kind),
			byte(in.Cond.Kind), byte(in.Cond.Rel)})
		put32(uint32(in.Op.Imm))
		put32(uint32(in.Op.Mask))
		put32(uint32(in.Op.Off))
		put32(uint32(in.Op.Cond.Imm))
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(in.Op.FImm))
		h.Write(buf[:])
		h.Write([]byte(in.Op.Sym))
		put32(uint32(in.Addr.Imm))
		put32(uint32(in.Addr.Off))
		h.Write([]byte(in.Addr.Sym))
		put32(uint32(in.Cond.Imm))
		put32(uint32(in.Dest))
		put32(uint32(len(in.Args)))
		for _, r := range in.Args {
			put32(uint32(r))
		}
	}
	return common.BytesToHash(h.Sum(nil))
}

// Validate checks that every symbol the block references resolves. Arity
// violations are caller bugs caught at construction; dangling symbols are
// plain data errors a front end can report.
func (b *BasicBlock) Validate(res SymbolResolver) error {
	for i, in := range b.Instrs {
		var sym Symbol
		switch {
		case in.Kind == InstrOp && in.Op.Op == OpAddrSymbol:
			sym = in.Op.Sym
		case (in.Kind == InstrLoad || in.Kind == InstrStore) &&
			(in.Addr.Kind == AddrGlobal || in.Addr.Kind == AddrBased):
			sym = in.Addr.Sym
		default:
			continue
		}
		if _, ok := res.Resolve(sym); !ok {
			return errors.Errorf("instr %d: unbound symbol %q", i, sym)
		}
	}
	return nil
}
