package constprop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/regvm/go-regvm/core/rir"
)

func TestReduceBlockCachedHitsOnRepeat(t *testing.T) {
	PurgeReductionCache()
	entry := testEntry()
	b := testBlock()

	first, exit1 := ReduceBlockCached(entry, b)
	require.Equal(t, 1, reductionCache.Len())

	second, exit2 := ReduceBlockCached(entry, b)
	require.Equal(t, 1, reductionCache.Len())
	require.Equal(t, first, second)
	require.Equal(t, exit1, exit2, "exit snapshot is recomputed on hits")

	direct, _ := ReduceBlock(entry, b)
	require.Equal(t, direct, first)
}

func TestReduceBlockCachedKeyCoversEntrySnapshot(t *testing.T) {
	PurgeReductionCache()
	b := testBlock()

	e1 := ApproxMap{3: IntApprox(4)}
	e2 := ApproxMap{3: IntApprox(5)}
	r1, _ := ReduceBlockCached(e1, b)
	r2, _ := ReduceBlockCached(e2, b)
	require.Equal(t, 2, reductionCache.Len(), "different snapshots must not collide")
	require.NotEqual(t, r1.Instrs[2].Op, r2.Instrs[2].Op)

	// Same facts under a fresh map value still hit.
	r3, _ := ReduceBlockCached(ApproxMap{3: IntApprox(4)}, b)
	require.Equal(t, 2, reductionCache.Len())
	require.Equal(t, r1, r3)
}

func TestReduceBlockCachedKeyCoversInstrs(t *testing.T) {
	PurgeReductionCache()
	entry := ApproxMap{2: IntApprox(8)}
	b1 := &rir.BasicBlock{Instrs: []rir.Instr{rir.NewOp(10, rir.Simple(rir.OpMul), 1, 2)}}
	b2 := &rir.BasicBlock{Instrs: []rir.Instr{rir.NewOp(10, rir.Simple(rir.OpDivU), 1, 2)}}
	ReduceBlockCached(entry, b1)
	ReduceBlockCached(entry, b2)
	require.Equal(t, 2, reductionCache.Len())
}

func TestReduceBlockCachedDisabledBypassesCache(t *testing.T) {
	PurgeReductionCache()
	Disable()
	defer Enable()

	entry := testEntry()
	b := testBlock()
	out, exit := ReduceBlockCached(entry, b)
	require.Equal(t, b, out)
	require.Equal(t, 0, reductionCache.Len())
	require.Equal(t, TransferBlock(entry, b), exit)
}

func TestPurgeReductionCache(t *testing.T) {
	PurgeReductionCache()
	ReduceBlockCached(testEntry(), testBlock())
	require.Equal(t, 1, reductionCache.Len())
	PurgeReductionCache()
	require.Equal(t, 0, reductionCache.Len())
}
