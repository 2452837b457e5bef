package rir

import "fmt"

// CondKind distinguishes the comparison families and their encodings.
type CondKind byte

const (
	CondCmpS    CondKind = iota // signed compare of two registers
	CondCmpU                    // unsigned compare of two registers
	CondCmpSImm                 // signed compare of a register against an immediate
	CondCmpUImm                 // unsigned compare of a register against an immediate
)

// Relation is the comparison relation applied by a condition.
type Relation byte

const (
	RelEq Relation = iota
	RelNe
	RelLt
	RelLe
	RelGt
	RelGe
)

// Condition is a branch/compare predicate over one or two registers.
type Condition struct {
	Kind CondKind
	Rel  Relation
	Imm  Word // second operand for the immediate kinds
}

func CmpS(r Relation) Condition { return Condition{Kind: CondCmpS, Rel: r} }
func CmpU(r Relation) Condition { return Condition{Kind: CondCmpU, Rel: r} }
func CmpSImm(r Relation, n Word) Condition {
	return Condition{Kind: CondCmpSImm, Rel: r, Imm: n}
}
func CmpUImm(r Relation, n Word) Condition {
	return Condition{Kind: CondCmpUImm, Rel: r, Imm: n}
}

// Arity returns the number of register arguments the condition reads.
func (c Condition) Arity() int {
	switch c.Kind {
	case CondCmpS, CondCmpU:
		return 2
	case CondCmpSImm, CondCmpUImm:
		return 1
	default:
		panic(fmt.Sprintf("rir: unknown condition kind %d", c.Kind))
	}
}

// CheckArity aborts on an argument-count mismatch.
func (c Condition) CheckArity(nargs int) {
	if c.Arity() != nargs {
		panic(fmt.Sprintf("rir: %s applied to %d args, want %d", c, nargs, c.Arity()))
	}
}

// Mirror returns the relation that holds for (b, a) exactly when the
// receiver holds for (a, b).
func (r Relation) Mirror() Relation {
	switch r {
	case RelLt:
		return RelGt
	case RelLe:
		return RelGe
	case RelGt:
		return RelLt
	case RelGe:
		return RelLe
	default: // Eq and Ne are symmetric
		return r
	}
}

// HoldsSigned evaluates the relation on two signed words.
func (r Relation) HoldsSigned(a, b Word) bool {
	switch r {
	case RelEq:
		return a == b
	case RelNe:
		return a != b
	case RelLt:
		return a < b
	case RelLe:
		return a <= b
	case RelGt:
		return a > b
	case RelGe:
		return a >= b
	default:
		panic(fmt.Sprintf("rir: unknown relation %d", r))
	}
}

// HoldsUnsigned evaluates the relation on two unsigned words.
func (r Relation) HoldsUnsigned(a, b uint32) bool {
	switch r {
	case RelEq:
		return a == b
	case RelNe:
		return a != b
	case RelLt:
		return a < b
	case RelLe:
		return a <= b
	case RelGt:
		return a > b
	case RelGe:
		return a >= b
	default:
		panic(fmt.Sprintf("rir: unknown relation %d", r))
	}
}

func (r Relation) String() string {
	switch r {
	case RelEq:
		return "EQ"
	case RelNe:
		return "NE"
	case RelLt:
		return "LT"
	case RelLe:
		return "LE"
	case RelGt:
		return "GT"
	case RelGe:
		return "GE"
	default:
		return fmt.Sprintf("Rel(%d)", byte(r))
	}
}

func (c Condition) String() string {
	switch c.Kind {
	case CondCmpS:
		return fmt.Sprintf("S.%s", c.Rel)
	case CondCmpU:
		return fmt.Sprintf("U.%s", c.Rel)
	case CondCmpSImm:
		return fmt.Sprintf("S.%s #%d", c.Rel, c.Imm)
	case CondCmpUImm:
		return fmt.Sprintf("U.%s #%d", c.Rel, c.Imm)
	default:
		return fmt.Sprintf("Cond(%d)", byte(c.Kind))
	}
}
