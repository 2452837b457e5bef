package constprop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/regvm/go-regvm/core/rir"
)

func testBlock() *rir.BasicBlock {
	return &rir.BasicBlock{Instrs: []rir.Instr{
		rir.NewOp(2, rir.IntConst(8)),
		rir.NewOp(10, rir.Simple(rir.OpMul), 1, 2),
		rir.NewOp(11, rir.Simple(rir.OpAdd), 10, 3),
		rir.NewLoad(12, rir.Indexed2(), 4, 3),
		rir.NewStore(rir.Indexed2(), 11, 4, 3),
		rir.NewBranch(rir.CmpS(rir.RelLt), 11, 3),
	}}
}

func testEntry() ApproxMap {
	return ApproxMap{
		3: IntApprox(4),
		4: SymbolApprox("globA", 16),
	}
}

func TestTransferInstr(t *testing.T) {
	am := ApproxMap{1: IntApprox(3)}

	r, a, ok := TransferInstr(am, rir.NewOp(5, rir.WithImm(rir.OpAddImm, 4), 1))
	require.True(t, ok)
	require.Equal(t, rir.Reg(5), r)
	require.Equal(t, IntApprox(7), a)

	// Loads clobber their destination to unknown; memory is not modeled.
	r, a, ok = TransferInstr(am, rir.NewLoad(6, rir.Indexed(0), 1))
	require.True(t, ok)
	require.Equal(t, rir.Reg(6), r)
	require.Equal(t, Unknown(), a)

	_, _, ok = TransferInstr(am, rir.NewStore(rir.Indexed(0), 2, 1))
	require.False(t, ok)
	_, _, ok = TransferInstr(am, rir.NewBranch(rir.CmpS(rir.RelLt), 1, 2))
	require.False(t, ok)
}

func TestTransferBlockThreadsFacts(t *testing.T) {
	b := &rir.BasicBlock{Instrs: []rir.Instr{
		rir.NewOp(1, rir.IntConst(6)),
		rir.NewOp(2, rir.WithImm(rir.OpMulImm, 7), 1),
		rir.NewOp(3, rir.Simple(rir.OpAdd), 2, 9),
		rir.NewLoad(2, rir.Indexed(0), 9),
	}}
	entry := ApproxMap{}
	exit := TransferBlock(entry, b)
	require.Equal(t, IntApprox(6), exit.At(1))
	require.Equal(t, Unknown(), exit.At(2), "load must clobber the earlier fold")
	require.Equal(t, Unknown(), exit.At(3))
	require.Empty(t, entry, "entry snapshot must not be mutated")
}

func TestReduceInstrRewritesEachKind(t *testing.T) {
	am := testEntry()
	am[2] = IntApprox(8)

	in := ReduceInstr(am, rir.NewOp(10, rir.Simple(rir.OpMul), 1, 2))
	require.Equal(t, rir.Rolm(3, -8), in.Op)
	require.Equal(t, []rir.Reg{1}, in.Args)
	require.Equal(t, rir.Reg(10), in.Dest)

	in = ReduceInstr(am, rir.NewLoad(12, rir.Indexed2(), 4, 3))
	require.Equal(t, rir.Global("globA", 20), in.Addr)
	require.Empty(t, in.Args)

	in = ReduceInstr(am, rir.NewStore(rir.Indexed2(), 11, 4, 1))
	require.Equal(t, rir.Based("globA", 16), in.Addr)
	require.Equal(t, []rir.Reg{1, 11}, in.Args, "stored register must stay last")

	in = ReduceInstr(am, rir.NewBranch(rir.CmpS(rir.RelLt), 1, 3))
	require.Equal(t, rir.CmpSImm(rir.RelLt, 4), in.Cond)
	require.Equal(t, []rir.Reg{1}, in.Args)
}

func TestReduceBlock(t *testing.T) {
	reduced, exit := ReduceBlock(testEntry(), testBlock())

	// r2 := 8 feeds the multiply two instructions later.
	require.Equal(t, rir.Rolm(3, -8), reduced.Instrs[1].Op)
	require.Equal(t, []rir.Reg{1}, reduced.Instrs[1].Args)
	// r3 = 4 folds into the add.
	require.Equal(t, rir.WithImm(rir.OpAddImm, 4), reduced.Instrs[2].Op)
	// Symbol r4 plus constant r3 folds the load address entirely.
	require.Equal(t, rir.Global("globA", 20), reduced.Instrs[3].Addr)
	require.Equal(t, rir.Global("globA", 20), reduced.Instrs[4].Addr)
	require.Equal(t, []rir.Reg{11}, reduced.Instrs[4].Args)
	require.Equal(t, rir.CmpSImm(rir.RelLt, 4), reduced.Instrs[5].Cond)

	require.Equal(t, IntApprox(8), exit.At(2))
	require.Equal(t, Unknown(), exit.At(10))
	require.Equal(t, Unknown(), exit.At(12))
}

func TestReduceBlockIdempotent(t *testing.T) {
	entry := testEntry()
	once, _ := ReduceBlock(entry, testBlock())
	twice, _ := ReduceBlock(entry, once)
	require.Equal(t, once, twice)
}

func TestReduceBlockDoesNotMutateInputs(t *testing.T) {
	entry := testEntry()
	b := testBlock()
	orig := testBlock()
	ReduceBlock(entry, b)
	require.Equal(t, orig, b)
	require.Equal(t, testEntry(), entry)
}

func TestReduceBlocksMatchesSerial(t *testing.T) {
	PurgeReductionCache()
	const n = 64
	entries := make([]ApproxMap, n)
	blocks := make([]*rir.BasicBlock, n)
	for i := range blocks {
		entries[i] = ApproxMap{
			3: IntApprox(rir.Word(i)),
			4: SymbolApprox("globA", rir.Word(4*i)),
		}
		blocks[i] = testBlock()
	}
	got := ReduceBlocks(entries, blocks)
	for i := range blocks {
		want, _ := ReduceBlock(entries[i], blocks[i])
		require.Equal(t, want, got[i], "block %d", i)
	}
}

func TestReduceBlocksCountMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		ReduceBlocks([]ApproxMap{{}}, nil)
	})
}

func TestDisableSkipsRewriting(t *testing.T) {
	Disable()
	defer Enable()
	require.False(t, IsEnabled())

	am := ApproxMap{2: IntApprox(8)}
	in := rir.NewOp(10, rir.Simple(rir.OpMul), 1, 2)
	require.Equal(t, in, ReduceInstr(am, in))

	// Analysis stays live while rewriting is off.
	_, a, ok := TransferInstr(am, rir.NewOp(5, rir.Simple(rir.OpMul), 2, 2))
	require.True(t, ok)
	require.Equal(t, IntApprox(64), a)
}
