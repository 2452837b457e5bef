package rir

import "fmt"

// Op is the operator tag of a register instruction.
type Op byte

const (
	OpMove Op = iota // MOVE      reg
	OpIntConst       // INTCONST  #imm
	OpFloatConst     // FLOATCONST #fimm
	OpAddrSymbol     // ADDRSYM   sym+off

	OpAdd    // ADD     reg, reg
	OpAddImm // ADDIMM  reg, #imm
	OpSub    // SUB     reg, reg
	OpMul    // MUL     reg, reg
	OpMulImm // MULIMM  reg, #imm
	OpDivS   // DIVS    reg, reg
	OpDivU   // DIVU    reg, reg
	OpModS   // MODS    reg, reg
	OpModU   // MODU    reg, reg

	OpAnd    // AND     reg, reg
	OpAndImm // ANDIMM  reg, #imm
	OpOr     // OR      reg, reg
	OpOrImm  // ORIMM   reg, #imm
	OpXor    // XOR     reg, reg
	OpXorImm // XORIMM  reg, #imm

	OpShl     // SHL     reg, reg
	OpShlImm  // SHLIMM  reg, #imm
	OpShrS    // SHRS    reg, reg
	OpShrSImm // SHRSIMM reg, #imm
	OpShrU    // SHRU    reg, reg
	OpShrUImm // SHRUIMM reg, #imm
	OpShrXImm // SHRXIMM reg, #imm  (round-toward-zero arithmetic shift)
	OpRolm    // ROLM    reg, #amount, #mask

	OpCmp // CMP<cond> reg[, reg]  (produces 1/0)

	OpFAdd // FADD reg, reg
	OpFSub // FSUB reg, reg
	OpFMul // FMUL reg, reg
	OpFDiv // FDIV reg, reg
	OpFNeg // FNEG reg
)

// Operation is an operator tag plus its immediate payload. Register
// arguments travel separately as the instruction argument list.
type Operation struct {
	Op   Op
	Imm  Word      // integer immediate; rotate amount for OpRolm
	Mask Word      // mask for OpRolm
	FImm float64   // OpFloatConst payload
	Sym  Symbol    // OpAddrSymbol target
	Off  Word      // OpAddrSymbol displacement
	Cond Condition // OpCmp condition
}

func Move() Operation                  { return Operation{Op: OpMove} }
func IntConst(n Word) Operation        { return Operation{Op: OpIntConst, Imm: n} }
func FloatConst(f float64) Operation   { return Operation{Op: OpFloatConst, FImm: f} }
func AddrSymbol(s Symbol, off Word) Operation {
	return Operation{Op: OpAddrSymbol, Sym: s, Off: off}
}
func Simple(op Op) Operation        { return Operation{Op: op} }
func WithImm(op Op, n Word) Operation { return Operation{Op: op, Imm: n} }
func Rolm(amount, mask Word) Operation {
	return Operation{Op: OpRolm, Imm: amount, Mask: mask}
}
func Cmp(c Condition) Operation { return Operation{Op: OpCmp, Cond: c} }

// Arity returns the number of register arguments the operation consumes.
func (o Operation) Arity() int {
	switch o.Op {
	case OpIntConst, OpFloatConst, OpAddrSymbol:
		return 0
	case OpMove, OpAddImm, OpMulImm, OpAndImm, OpOrImm, OpXorImm,
		OpShlImm, OpShrSImm, OpShrUImm, OpShrXImm, OpRolm, OpFNeg:
		return 1
	case OpAdd, OpSub, OpMul, OpDivS, OpDivU, OpModS, OpModU,
		OpAnd, OpOr, OpXor, OpShl, OpShrS, OpShrU,
		OpFAdd, OpFSub, OpFMul, OpFDiv:
		return 2
	case OpCmp:
		return o.Cond.Arity()
	default:
		panic(fmt.Sprintf("rir: unknown operation 0x%02x", byte(o.Op)))
	}
}

// CheckArity aborts on an argument-count mismatch. Wrong arity is a caller
// bug, never a recoverable runtime condition.
func (o Operation) CheckArity(nargs int) {
	if o.Arity() != nargs {
		panic(fmt.Sprintf("rir: %s applied to %d args, want %d", o, nargs, o.Arity()))
	}
}

// Commutative reports whether swapping the two register arguments preserves
// the operation result.
func (op Op) Commutative() bool {
	switch op {
	case OpAdd, OpMul, OpAnd, OpOr, OpXor:
		return true
	}
	return false
}

func (op Op) String() string {
	switch op {
	case OpMove:
		return "MOVE"
	case OpIntConst:
		return "INTCONST"
	case OpFloatConst:
		return "FLOATCONST"
	case OpAddrSymbol:
		return "ADDRSYM"
	case OpAdd:
		return "ADD"
	case OpAddImm:
		return "ADDIMM"
	case OpSub:
		return "SUB"
	case OpMul:
		return "MUL"
	case OpMulImm:
		return "MULIMM"
	case OpDivS:
		return "DIVS"
	case OpDivU:
		return "DIVU"
	case OpModS:
		return "MODS"
	case OpModU:
		return "MODU"
	case OpAnd:
		return "AND"
	case OpAndImm:
		return "ANDIMM"
	case OpOr:
		return "OR"
	case OpOrImm:
		return "ORIMM"
	case OpXor:
		return "XOR"
	case OpXorImm:
		return "XORIMM"
	case OpShl:
		return "SHL"
	case OpShlImm:
		return "SHLIMM"
	case OpShrS:
		return "SHRS"
	case OpShrSImm:
		return "SHRSIMM"
	case OpShrU:
		return "SHRU"
	case OpShrUImm:
		return "SHRUIMM"
	case OpShrXImm:
		return "SHRXIMM"
	case OpRolm:
		return "ROLM"
	case OpCmp:
		return "CMP"
	case OpFAdd:
		return "FADD"
	case OpFSub:
		return "FSUB"
	case OpFMul:
		return "FMUL"
	case OpFDiv:
		return "FDIV"
	case OpFNeg:
		return "FNEG"
	default:
		return fmt.Sprintf("Op(0x%02x)", byte(op))
	}
}

func (o Operation) String() string {
	switch o.Op {
	case OpIntConst:
		return fmt.Sprintf("INTCONST #%d", o.Imm)
	case OpFloatConst:
		return fmt.Sprintf("FLOATCONST #%g", o.FImm)
	case OpAddrSymbol:
		return fmt.Sprintf("ADDRSYM %s+%d", o.Sym, o.Off)
	case OpRolm:
		return fmt.Sprintf("ROLM #%d, #0x%08x", o.Imm, uint32(o.Mask))
	case OpCmp:
		return fmt.Sprintf("CMP %s", o.Cond)
	case OpAddImm, OpMulImm, OpAndImm, OpOrImm, OpXorImm,
		OpShlImm, OpShrSImm, OpShrUImm, OpShrXImm:
		return fmt.Sprintf("%s #%d", o.Op, o.Imm)
	default:
		return o.Op.String()
	}
}
