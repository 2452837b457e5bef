package rir

import "math/bits"

// This file is the reference concrete evaluator. It fixes the semantics the
// static analysis and the strength-reduction rewrites must preserve: a
// rewrite is valid only if original and replacement evaluate identically
// (including failing identically) on every register file.
//
// The boolean result is false when the operation has no defined result for
// the given arguments: ill-typed operands, shift amounts outside [0,32),
// division by zero, MinWord/-1 signed division, unresolvable symbols.

func shiftInRange(n Word) bool { return uint32(n) < WordBits }

// Shrx is the round-toward-zero arithmetic right shift: signed division by
// 2^k for any sign of v, defined for 0 <= k < 31.
func Shrx(v Word, k Word) Word {
	if v < 0 {
		v += (1 << uint(k)) - 1
	}
	return v >> uint(k)
}

// RotateMask rotates v left by amount bits and masks the result. It is the
// target's cheap encoding of in-range immediate shifts.
func RotateMask(v Word, amount Word, mask Word) Word {
	return Word(bits.RotateLeft32(uint32(v), int(amount)) & uint32(mask))
}

// EvalOperation evaluates op on concrete argument values.
func EvalOperation(res SymbolResolver, op Operation, args []Value) (Value, bool) {
	op.CheckArity(len(args))
	switch op.Op {
	case OpMove:
		return args[0], true
	case OpIntConst:
		return IntVal(op.Imm), true
	case OpFloatConst:
		return FloatVal(op.FImm), true
	case OpAddrSymbol:
		if b, ok := res.Resolve(op.Sym); ok {
			return PtrVal(b, op.Off), true
		}
		return UndefVal(), false

	case OpAdd:
		a, b := args[0], args[1]
		switch {
		case a.Kind() == ValInt && b.Kind() == ValInt:
			return IntVal(a.Int() + b.Int()), true
		case a.Kind() == ValPointer && b.Kind() == ValInt:
			blk, off := a.Pointer()
			return PtrVal(blk, off+b.Int()), true
		case a.Kind() == ValInt && b.Kind() == ValPointer:
			blk, off := b.Pointer()
			return PtrVal(blk, off+a.Int()), true
		}
		return UndefVal(), false
	case OpAddImm:
		switch args[0].Kind() {
		case ValInt:
			return IntVal(args[0].Int() + op.Imm), true
		case ValPointer:
			blk, off := args[0].Pointer()
			return PtrVal(blk, off+op.Imm), true
		}
		return UndefVal(), false
	case OpSub:
		a, b := args[0], args[1]
		switch {
		case a.Kind() == ValInt && b.Kind() == ValInt:
			return IntVal(a.Int() - b.Int()), true
		case a.Kind() == ValPointer && b.Kind() == ValInt:
			blk, off := a.Pointer()
			return PtrVal(blk, off-b.Int()), true
		case a.Kind() == ValPointer && b.Kind() == ValPointer:
			b1, o1 := a.Pointer()
			b2, o2 := b.Pointer()
			if b1 == b2 {
				return IntVal(o1 - o2), true
			}
		}
		return UndefVal(), false

	case OpMul:
		if v, ok := intPair(args); ok {
			return IntVal(v[0] * v[1]), true
		}
		return UndefVal(), false
	case OpMulImm:
		if args[0].Kind() == ValInt {
			return IntVal(args[0].Int() * op.Imm), true
		}
		return UndefVal(), false

	case OpDivS:
		if v, ok := intPair(args); ok && DivsDefined(v[0], v[1]) {
			return IntVal(v[0] / v[1]), true
		}
		return UndefVal(), false
	case OpDivU:
		if v, ok := intPair(args); ok && v[1] != 0 {
			return IntVal(Word(uint32(v[0]) / uint32(v[1]))), true
		}
		return UndefVal(), false
	case OpModS:
		if v, ok := intPair(args); ok && DivsDefined(v[0], v[1]) {
			return IntVal(v[0] % v[1]), true
		}
		return UndefVal(), false
	case OpModU:
		if v, ok := intPair(args); ok && v[1] != 0 {
			return IntVal(Word(uint32(v[0]) % uint32(v[1]))), true
		}
		return UndefVal(), false

	case OpAnd:
		if v, ok := intPair(args); ok {
			return IntVal(v[0] & v[1]), true
		}
		return UndefVal(), false
	case OpAndImm:
		if args[0].Kind() == ValInt {
			return IntVal(args[0].Int() & op.Imm), true
		}
		return UndefVal(), false
	case OpOr:
		if v, ok := intPair(args); ok {
			return IntVal(v[0] | v[1]), true
		}
		return UndefVal(), false
	case OpOrImm:
		if args[0].Kind() == ValInt {
			return IntVal(args[0].Int() | op.Imm), true
		}
		return UndefVal(), false
	case OpXor:
		if v, ok := intPair(args); ok {
			return IntVal(v[0] ^ v[1]), true
		}
		return UndefVal(), false
	case OpXorImm:
		if args[0].Kind() == ValInt {
			return IntVal(args[0].Int() ^ op.Imm), true
		}
		return UndefVal(), false

	case OpShl:
		if v, ok := intPair(args); ok && shiftInRange(v[1]) {
			return IntVal(v[0] << uint(v[1])), true
		}
		return UndefVal(), false
	case OpShlImm:
		if args[0].Kind() == ValInt && shiftInRange(op.Imm) {
			return IntVal(args[0].Int() << uint(op.Imm)), true
		}
		return UndefVal(), false
	case OpShrS:
		if v, ok := intPair(args); ok && shiftInRange(v[1]) {
			return IntVal(v[0] >> uint(v[1])), true
		}
		return UndefVal(), false
	case OpShrSImm:
		if args[0].Kind() == ValInt && shiftInRange(op.Imm) {
			return IntVal(args[0].Int() >> uint(op.Imm)), true
		}
		return UndefVal(), false
	case OpShrU:
		if v, ok := intPair(args); ok && shiftInRange(v[1]) {
			return IntVal(Word(uint32(v[0]) >> uint(v[1]))), true
		}
		return UndefVal(), false
	case OpShrUImm:
		if args[0].Kind() == ValInt && shiftInRange(op.Imm) {
			return IntVal(Word(uint32(args[0].Int()) >> uint(op.Imm))), true
		}
		return UndefVal(), false
	case OpShrXImm:
		if args[0].Kind() == ValInt && uint32(op.Imm) < WordBits-1 {
			return IntVal(Shrx(args[0].Int(), op.Imm)), true
		}
		return UndefVal(), false
	case OpRolm:
		if args[0].Kind() == ValInt {
			return IntVal(RotateMask(args[0].Int(), op.Imm, op.Mask)), true
		}
		return UndefVal(), false

	case OpCmp:
		if b, ok := EvalCondition(op.Cond, args); ok {
			if b {
				return IntVal(1), true
			}
			return IntVal(0), true
		}
		return UndefVal(), false

	case OpFAdd:
		if v, ok := floatPair(args); ok {
			return FloatVal(v[0] + v[1]), true
		}
		return UndefVal(), false
	case OpFSub:
		if v, ok := floatPair(args); ok {
			return FloatVal(v[0] - v[1]), true
		}
		return UndefVal(), false
	case OpFMul:
		if v, ok := floatPair(args); ok {
			return FloatVal(v[0] * v[1]), true
		}
		return UndefVal(), false
	case OpFDiv:
		if v, ok := floatPair(args); ok {
			return FloatVal(v[0] / v[1]), true
		}
		return UndefVal(), false
	case OpFNeg:
		if args[0].Kind() == ValFloat {
			return FloatVal(-args[0].Float()), true
		}
		return UndefVal(), false
	}
	return UndefVal(), false
}

// EvalCondition decides a condition on concrete argument values. The second
// result is false when the condition has no defined outcome (ill-typed
// operands, pointers into different blocks).
func EvalCondition(cond Condition, args []Value) (bool, bool) {
	cond.CheckArity(len(args))
	switch cond.Kind {
	case CondCmpS:
		if v, ok := intPair(args); ok {
			return cond.Rel.HoldsSigned(v[0], v[1]), true
		}
		return false, false
	case CondCmpU:
		if v, ok := intPair(args); ok {
			return cond.Rel.HoldsUnsigned(uint32(v[0]), uint32(v[1])), true
		}
		if args[0].Kind() == ValPointer && args[1].Kind() == ValPointer {
			b1, o1 := args[0].Pointer()
			b2, o2 := args[1].Pointer()
			if b1 == b2 {
				return cond.Rel.HoldsUnsigned(uint32(o1), uint32(o2)), true
			}
		}
		return false, false
	case CondCmpSImm:
		if args[0].Kind() == ValInt {
			return cond.Rel.HoldsSigned(args[0].Int(), cond.Imm), true
		}
		return false, false
	case CondCmpUImm:
		if args[0].Kind() == ValInt {
			return cond.Rel.HoldsUnsigned(uint32(args[0].Int()), uint32(cond.Imm)), true
		}
		return false, false
	}
	return false, false
}

// EvalAddr computes the effective address of an addressing mode.
func EvalAddr(res SymbolResolver, mode AddrMode, args []Value) (Value, bool) {
	mode.CheckArity(len(args))
	switch mode.Kind {
	case AddrIndexed2:
		return EvalOperation(res, Simple(OpAdd), args)
	case AddrIndexed:
		return EvalOperation(res, WithImm(OpAddImm, mode.Imm), args)
	case AddrGlobal:
		if b, ok := res.Resolve(mode.Sym); ok {
			return PtrVal(b, mode.Off), true
		}
		return UndefVal(), false
	case AddrBased:
		if args[0].Kind() != ValInt {
			return UndefVal(), false
		}
		if b, ok := res.Resolve(mode.Sym); ok {
			return PtrVal(b, mode.Off+args[0].Int()), true
		}
		return UndefVal(), false
	}
	return UndefVal(), false
}

// DivsDefined reports whether signed division/remainder has a defined
// result for the given operands.
func DivsDefined(a, b Word) bool {
	return b != 0 && !(a == MinWord && b == -1)
}

func intPair(args []Value) ([2]Word, bool) {
	if args[0].Kind() == ValInt && args[1].Kind() == ValInt {
		return [2]Word{args[0].Int(), args[1].Int()}, true
	}
	return [2]Word{}, false
}

func floatPair(args []Value) ([2]float64, bool) {
	if args[0].Kind() == ValFloat && args[1].Kind() == ValFloat {
		return [2]float64{args[0].Float(), args[1].Float()}, true
	}
	return [2]float64{}, false
}
