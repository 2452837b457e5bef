package constprop

import (
	"math/bits"

	"github.com/regvm/go-regvm/core/rir"
)

// Immediate-form builders. Each takes the constant that stood in one operand
// slot of a binary operator (operand order already normalized by the
// rewriter) plus the remaining register, and returns a cheaper operator and
// argument list computing the same function of that register. When no
// special case applies the builder degrades to the plain immediate form, or
// to the original two-register operator where the immediate encoding itself
// would change behavior (out-of-range shift amounts). Builders never fail.

// powerOfTwo returns k such that the unsigned view of n equals 2^k.
func powerOfTwo(n rir.Word) (rir.Word, bool) {
	u := uint32(n)
	if u == 0 || u&(u-1) != 0 {
		return 0, false
	}
	return rir.Word(bits.TrailingZeros32(u)), true
}

func allOnesMask() rir.Word { return -1 }

func makeAddImm(n rir.Word, r rir.Reg) (rir.Operation, []rir.Reg) {
	if n == 0 {
		return rir.Move(), []rir.Reg{r}
	}
	return rir.WithImm(rir.OpAddImm, n), []rir.Reg{r}
}

// makeShlImm lowers an in-range left shift to rotate+mask. amtReg is the
// register that held the amount; it is reinstated when the amount is out of
// range, where an immediate encoding would narrow the failure behavior.
func makeShlImm(n rir.Word, r, amtReg rir.Reg) (rir.Operation, []rir.Reg) {
	if n == 0 {
		return rir.Move(), []rir.Reg{r}
	}
	if uint32(n) < rir.WordBits {
		return rir.Rolm(n, allOnesMask()<<uint(n)), []rir.Reg{r}
	}
	return rir.Simple(rir.OpShl), []rir.Reg{r, amtReg}
}

func makeShrUImm(n rir.Word, r, amtReg rir.Reg) (rir.Operation, []rir.Reg) {
	if n == 0 {
		return rir.Move(), []rir.Reg{r}
	}
	if uint32(n) < rir.WordBits {
		mask := rir.Word(^uint32(0) >> uint(n))
		return rir.Rolm(rir.WordBits-n, mask), []rir.Reg{r}
	}
	return rir.Simple(rir.OpShrU), []rir.Reg{r, amtReg}
}

// makeShrSImm keeps the dedicated arithmetic form: sign extension has no
// rotate+mask encoding.
func makeShrSImm(n rir.Word, r, amtReg rir.Reg) (rir.Operation, []rir.Reg) {
	if n == 0 {
		return rir.Move(), []rir.Reg{r}
	}
	if uint32(n) < rir.WordBits {
		return rir.WithImm(rir.OpShrSImm, n), []rir.Reg{r}
	}
	return rir.Simple(rir.OpShrS), []rir.Reg{r, amtReg}
}

func makeMulImm(n rir.Word, r, cReg rir.Reg) (rir.Operation, []rir.Reg) {
	switch n {
	case 0:
		return rir.IntConst(0), nil
	case 1:
		return rir.Move(), []rir.Reg{r}
	}
	if k, ok := powerOfTwo(n); ok {
		return makeShlImm(k, r, cReg)
	}
	return rir.WithImm(rir.OpMulImm, n), []rir.Reg{r}
}

// makeDivSImm replaces a signed division by 2^k with the round-toward-zero
// arithmetic shift operator. A plain arithmetic shift would round toward
// negative infinity and be wrong for negative dividends; OpShrXImm carries
// the sign-correction bias. Divisor 2^31 is negative as a word and keeps
// the general form.
func makeDivSImm(n rir.Word, r, divReg rir.Reg) (rir.Operation, []rir.Reg) {
	if k, ok := powerOfTwo(n); ok && uint32(k) < rir.WordBits-1 {
		return rir.WithImm(rir.OpShrXImm, k), []rir.Reg{r}
	}
	return rir.Simple(rir.OpDivS), []rir.Reg{r, divReg}
}

// makeDivUImm replaces an unsigned division by 2^k with an unsigned right
// shift unconditionally; no sign bias exists.
func makeDivUImm(n rir.Word, r, divReg rir.Reg) (rir.Operation, []rir.Reg) {
	if k, ok := powerOfTwo(n); ok {
		return makeShrUImm(k, r, divReg)
	}
	return rir.Simple(rir.OpDivU), []rir.Reg{r, divReg}
}

func makeModUImm(n rir.Word, r, modReg rir.Reg) (rir.Operation, []rir.Reg) {
	if _, ok := powerOfTwo(n); ok {
		return makeAndImm(n-1, r)
	}
	return rir.Simple(rir.OpModU), []rir.Reg{r, modReg}
}

func makeAndImm(n rir.Word, r rir.Reg) (rir.Operation, []rir.Reg) {
	switch n {
	case allOnesMask():
		return rir.Move(), []rir.Reg{r}
	case 0:
		return rir.IntConst(0), nil
	}
	return rir.WithImm(rir.OpAndImm, n), []rir.Reg{r}
}

func makeOrImm(n rir.Word, r rir.Reg) (rir.Operation, []rir.Reg) {
	switch n {
	case 0:
		return rir.Move(), []rir.Reg{r}
	case allOnesMask():
		return rir.IntConst(allOnesMask()), nil
	}
	return rir.WithImm(rir.OpOrImm, n), []rir.Reg{r}
}

func makeXorImm(n rir.Word, r rir.Reg) (rir.Operation, []rir.Reg) {
	if n == 0 {
		return rir.Move(), []rir.Reg{r}
	}
	return rir.WithImm(rir.OpXorImm, n), []rir.Reg{r}
}
