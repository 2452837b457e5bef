package constprop

import "github.com/regvm/go-regvm/core/rir"

// ReduceAddressing specializes a two-register indexed addressing mode using
// statically known operands, preserving the computed effective address for
// every consistent register file. The rules are tried with either register
// in the known role; the driver does not guarantee which slot carries the
// known operand.
func ReduceAddressing(am ApproxMap, mode rir.AddrMode, args []rir.Reg) (rir.AddrMode, []rir.Reg) {
	mode.CheckArity(len(args))
	if mode.Kind != rir.AddrIndexed2 {
		return mode, args
	}
	a1, a2 := am.At(args[0]), am.At(args[1])

	// Symbol plus known constant folds to a register-free global access.
	if a1.Kind() == ApproxSymbol && a2.IsKnownInt() {
		sym, off := a1.Symbol()
		return rir.Global(sym, off+a2.Int()), nil
	}
	if a2.Kind() == ApproxSymbol && a1.IsKnownInt() {
		sym, off := a2.Symbol()
		return rir.Global(sym, off+a1.Int()), nil
	}

	// Symbol plus unknown register becomes symbol-based addressing off the
	// other register.
	if a1.Kind() == ApproxSymbol {
		sym, off := a1.Symbol()
		return rir.Based(sym, off), []rir.Reg{args[1]}
	}
	if a2.Kind() == ApproxSymbol {
		sym, off := a2.Symbol()
		return rir.Based(sym, off), []rir.Reg{args[0]}
	}

	// Known integer folds into the displacement of a one-register form.
	if a1.IsKnownInt() {
		return rir.Indexed(a1.Int()), []rir.Reg{args[1]}
	}
	if a2.IsKnownInt() {
		return rir.Indexed(a2.Int()), []rir.Reg{args[0]}
	}

	return mode, args
}
