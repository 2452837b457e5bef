package constprop

import "github.com/regvm/go-regvm/core/rir"

// The abstract evaluator mirrors the case structure of the concrete one in
// core/rir/eval.go. For each operator it inspects the shapes of the incoming
// approximations and either folds an exact result, propagates a symbol
// offset through pointer arithmetic, or gives up with Unknown. Giving up is
// always sound; claiming a constant is only done when the concrete evaluator
// would compute exactly that constant on every matching input.

// EvalStaticOperation computes the approximation of op's result from the
// approximations of its arguments.
func EvalStaticOperation(op rir.Operation, al []Approx) Approx {
	op.CheckArity(len(al))
	switch op.Op {
	case rir.OpMove:
		return al[0]
	case rir.OpIntConst:
		return IntApprox(op.Imm)
	case rir.OpFloatConst:
		return FloatApprox(op.FImm)
	case rir.OpAddrSymbol:
		return SymbolApprox(op.Sym, op.Off)

	case rir.OpAdd:
		a, b := al[0], al[1]
		switch {
		case a.IsKnownInt() && b.IsKnownInt():
			return IntApprox(a.Int() + b.Int())
		case a.Kind() == ApproxSymbol && b.IsKnownInt():
			sym, off := a.Symbol()
			return SymbolApprox(sym, off+b.Int())
		case a.IsKnownInt() && b.Kind() == ApproxSymbol:
			sym, off := b.Symbol()
			return SymbolApprox(sym, off+a.Int())
		}
		return Unknown()
	case rir.OpAddImm:
		switch al[0].Kind() {
		case ApproxInt:
			return IntApprox(al[0].Int() + op.Imm)
		case ApproxSymbol:
			sym, off := al[0].Symbol()
			return SymbolApprox(sym, off+op.Imm)
		}
		return Unknown()
	case rir.OpSub:
		a, b := al[0], al[1]
		switch {
		case a.IsKnownInt() && b.IsKnownInt():
			return IntApprox(a.Int() - b.Int())
		case a.Kind() == ApproxSymbol && b.IsKnownInt():
			sym, off := a.Symbol()
			return SymbolApprox(sym, off-b.Int())
		case a.Kind() == ApproxSymbol && b.Kind() == ApproxSymbol:
			s1, o1 := a.Symbol()
			s2, o2 := b.Symbol()
			if s1 == s2 {
				return IntApprox(o1 - o2)
			}
		}
		return Unknown()

	case rir.OpMul:
		if a, b, ok := intArgs2(al); ok {
			return IntApprox(a * b)
		}
		return Unknown()
	case rir.OpMulImm:
		if al[0].IsKnownInt() {
			return IntApprox(al[0].Int() * op.Imm)
		}
		return Unknown()

	// Division and remainder fold only for a known nonzero divisor (and
	// outside the MinWord/-1 overflow pair). A known zero divisor must NOT
	// be special-cased into any result: the concrete operation fails there.
	case rir.OpDivS:
		if a, b, ok := intArgs2(al); ok && rir.DivsDefined(a, b) {
			return IntApprox(a / b)
		}
		return Unknown()
	case rir.OpDivU:
		if a, b, ok := intArgs2(al); ok && b != 0 {
			return IntApprox(rir.Word(uint32(a) / uint32(b)))
		}
		return Unknown()
	case rir.OpModS:
		if a, b, ok := intArgs2(al); ok && rir.DivsDefined(a, b) {
			return IntApprox(a % b)
		}
		return Unknown()
	case rir.OpModU:
		if a, b, ok := intArgs2(al); ok && b != 0 {
			return IntApprox(rir.Word(uint32(a) % uint32(b)))
		}
		return Unknown()

	case rir.OpAnd:
		if a, b, ok := intArgs2(al); ok {
			return IntApprox(a & b)
		}
		return Unknown()
	case rir.OpAndImm:
		if al[0].IsKnownInt() {
			return IntApprox(al[0].Int() & op.Imm)
		}
		return Unknown()
	case rir.OpOr:
		if a, b, ok := intArgs2(al); ok {
			return IntApprox(a | b)
		}
		return Unknown()
	case rir.OpOrImm:
		if al[0].IsKnownInt() {
			return IntApprox(al[0].Int() | op.Imm)
		}
		return Unknown()
	case rir.OpXor:
		if a, b, ok := intArgs2(al); ok {
			return IntApprox(a ^ b)
		}
		return Unknown()
	case rir.OpXorImm:
		if al[0].IsKnownInt() {
			return IntApprox(al[0].Int() ^ op.Imm)
		}
		return Unknown()

	case rir.OpShl:
		if a, b, ok := intArgs2(al); ok && uint32(b) < rir.WordBits {
			return IntApprox(a << uint(b))
		}
		return Unknown()
	case rir.OpShlImm:
		if al[0].IsKnownInt() && uint32(op.Imm) < rir.WordBits {
			return IntApprox(al[0].Int() << uint(op.Imm))
		}
		return Unknown()
	case rir.OpShrS:
		if a, b, ok := intArgs2(al); ok && uint32(b) < rir.WordBits {
			return IntApprox(a >> uint(b))
		}
		return Unknown()
	case rir.OpShrSImm:
		if al[0].IsKnownInt() && uint32(op.Imm) < rir.WordBits {
			return IntApprox(al[0].Int() >> uint(op.Imm))
		}
		return Unknown()
	case rir.OpShrU:
		if a, b, ok := intArgs2(al); ok && uint32(b) < rir.WordBits {
			return IntApprox(rir.Word(uint32(a) >> uint(b)))
		}
		return Unknown()
	case rir.OpShrUImm:
		if al[0].IsKnownInt() && uint32(op.Imm) < rir.WordBits {
			return IntApprox(rir.Word(uint32(al[0].Int()) >> uint(op.Imm)))
		}
		return Unknown()
	case rir.OpShrXImm:
		if al[0].IsKnownInt() && uint32(op.Imm) < rir.WordBits-1 {
			return IntApprox(rir.Shrx(al[0].Int(), op.Imm))
		}
		return Unknown()
	case rir.OpRolm:
		if al[0].IsKnownInt() {
			return IntApprox(rir.RotateMask(al[0].Int(), op.Imm, op.Mask))
		}
		return Unknown()

	case rir.OpCmp:
		if b, ok := EvalStaticCondition(op.Cond, al); ok {
			if b {
				return IntApprox(1)
			}
			return IntApprox(0)
		}
		return Unknown()

	case rir.OpFAdd:
		if a, b, ok := floatArgs2(al); ok {
			return FloatApprox(a + b)
		}
		return Unknown()
	case rir.OpFSub:
		if a, b, ok := floatArgs2(al); ok {
			return FloatApprox(a - b)
		}
		return Unknown()
	case rir.OpFMul:
		if a, b, ok := floatArgs2(al); ok {
			return FloatApprox(a * b)
		}
		return Unknown()
	case rir.OpFDiv:
		if a, b, ok := floatArgs2(al); ok {
			return FloatApprox(a / b)
		}
		return Unknown()
	case rir.OpFNeg:
		if al[0].Kind() == ApproxFloat {
			return FloatApprox(-al[0].Float())
		}
		return Unknown()
	}
	return Unknown()
}

// EvalStaticCondition decides a condition from argument approximations. The
// second result is false when the outcome cannot be pinned down statically;
// that is the expected default, not a failure, and is distinct from the
// concrete evaluator having no defined outcome.
func EvalStaticCondition(cond rir.Condition, al []Approx) (bool, bool) {
	cond.CheckArity(len(al))
	switch cond.Kind {
	case rir.CondCmpS:
		if a, b, ok := intArgs2(al); ok {
			return cond.Rel.HoldsSigned(a, b), true
		}
	case rir.CondCmpU:
		if a, b, ok := intArgs2(al); ok {
			return cond.Rel.HoldsUnsigned(uint32(a), uint32(b)), true
		}
	case rir.CondCmpSImm:
		if al[0].IsKnownInt() {
			return cond.Rel.HoldsSigned(al[0].Int(), cond.Imm), true
		}
	case rir.CondCmpUImm:
		if al[0].IsKnownInt() {
			return cond.Rel.HoldsUnsigned(uint32(al[0].Int()), uint32(cond.Imm)), true
		}
	}
	return false, false
}

func intArgs2(al []Approx) (rir.Word, rir.Word, bool) {
	if al[0].IsKnownInt() && al[1].IsKnownInt() {
		return al[0].Int(), al[1].Int(), true
	}
	return 0, 0, false
}

func floatArgs2(al []Approx) (float64, float64, bool) {
	if al[0].Kind() == ApproxFloat && al[1].Kind() == ApproxFloat {
		return al[0].Float(), al[1].Float(), true
	}
	return 0, 0, false
}
