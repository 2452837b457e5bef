package constprop

import "github.com/regvm/go-regvm/core/rir"

// Operator strength reduction. For every concrete register file consistent
// with the approximation map, the returned operator/argument pair evaluates
// to the result of the original whenever the original has one.
//
// Commutative operators are normalized so the known operand sits second and
// exactly one shape reaches each builder. Non-commutative operators rewrite
// only when the operand that must be an immediate (shift amount, divisor,
// subtrahend) is the known one; subtraction of a known subtrahend becomes
// addition of its negation so the add builder's zero case applies too.

// ReduceOperation rewrites op/args using statically known operands, or
// returns them unchanged when no rule applies.
func ReduceOperation(am ApproxMap, op rir.Operation, args []rir.Reg) (rir.Operation, []rir.Reg) {
	op.CheckArity(len(args))
	known := func(i int) (rir.Word, bool) {
		a := am.At(args[i])
		return a.Int(), a.IsKnownInt()
	}

	switch op.Op {
	case rir.OpAdd:
		if n, ok := known(0); ok {
			return makeAddImm(n, args[1])
		}
		if n, ok := known(1); ok {
			return makeAddImm(n, args[0])
		}
	case rir.OpSub:
		if n, ok := known(1); ok {
			return makeAddImm(-n, args[0])
		}
	case rir.OpMul:
		if n, ok := known(0); ok {
			return makeMulImm(n, args[1], args[0])
		}
		if n, ok := known(1); ok {
			return makeMulImm(n, args[0], args[1])
		}
	case rir.OpDivS:
		if n, ok := known(1); ok {
			return makeDivSImm(n, args[0], args[1])
		}
	case rir.OpDivU:
		if n, ok := known(1); ok {
			return makeDivUImm(n, args[0], args[1])
		}
	case rir.OpModU:
		if n, ok := known(1); ok {
			return makeModUImm(n, args[0], args[1])
		}
	case rir.OpAnd:
		if n, ok := known(0); ok {
			return makeAndImm(n, args[1])
		}
		if n, ok := known(1); ok {
			return makeAndImm(n, args[0])
		}
	case rir.OpOr:
		if n, ok := known(0); ok {
			return makeOrImm(n, args[1])
		}
		if n, ok := known(1); ok {
			return makeOrImm(n, args[0])
		}
	case rir.OpXor:
		if n, ok := known(0); ok {
			return makeXorImm(n, args[1])
		}
		if n, ok := known(1); ok {
			return makeXorImm(n, args[0])
		}
	case rir.OpShl:
		if n, ok := known(1); ok {
			return makeShlImm(n, args[0], args[1])
		}
	case rir.OpShrS:
		if n, ok := known(1); ok {
			return makeShrSImm(n, args[0], args[1])
		}
	case rir.OpShrU:
		if n, ok := known(1); ok {
			return makeShrUImm(n, args[0], args[1])
		}
	case rir.OpCmp:
		cond, condArgs := ReduceCondition(am, op.Cond, args)
		return rir.Cmp(cond), condArgs
	}
	return op, args
}

// ReduceCondition rewrites a comparison so a statically known operand moves
// into the immediate slot. A known first operand swaps behind the mirrored
// relation; with both or neither operand known the condition is unchanged.
func ReduceCondition(am ApproxMap, cond rir.Condition, args []rir.Reg) (rir.Condition, []rir.Reg) {
	cond.CheckArity(len(args))
	if cond.Kind != rir.CondCmpS && cond.Kind != rir.CondCmpU {
		return cond, args
	}
	a1, a2 := am.At(args[0]), am.At(args[1])
	imm := func(rel rir.Relation, n rir.Word) rir.Condition {
		if cond.Kind == rir.CondCmpS {
			return rir.CmpSImm(rel, n)
		}
		return rir.CmpUImm(rel, n)
	}
	switch {
	case a1.IsKnownInt() && !a2.IsKnownInt():
		return imm(cond.Rel.Mirror(), a1.Int()), []rir.Reg{args[1]}
	case !a1.IsKnownInt() && a2.IsKnownInt():
		return imm(cond.Rel, a2.Int()), []rir.Reg{args[0]}
	}
	return cond, args
}
