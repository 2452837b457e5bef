package constprop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/regvm/go-regvm/core/rir"
)

func testResolver(t *testing.T) *rir.SymbolTable {
	t.Helper()
	tab := rir.NewSymbolTable()
	tab.MustDefine("globA")
	tab.MustDefine("globB")
	return tab
}

func TestMatches(t *testing.T) {
	res := testResolver(t)
	blkA, _ := res.Resolve("globA")
	blkB, _ := res.Resolve("globB")

	values := []rir.Value{
		rir.IntVal(7), rir.IntVal(-7), rir.FloatVal(2.5),
		rir.PtrVal(blkA, 16), rir.UndefVal(),
	}
	for _, v := range values {
		require.True(t, Matches(res, Unknown(), v), "unknown must match %s", v)
		require.False(t, Matches(res, Novalue(), v), "novalue must match nothing, got %s", v)
	}

	require.True(t, Matches(res, IntApprox(7), rir.IntVal(7)))
	require.False(t, Matches(res, IntApprox(7), rir.IntVal(8)))
	require.False(t, Matches(res, IntApprox(7), rir.FloatVal(7)))
	require.False(t, Matches(res, IntApprox(7), rir.UndefVal()))

	require.True(t, Matches(res, FloatApprox(2.5), rir.FloatVal(2.5)))
	require.False(t, Matches(res, FloatApprox(2.5), rir.IntVal(2)))

	require.True(t, Matches(res, SymbolApprox("globA", 16), rir.PtrVal(blkA, 16)))
	require.False(t, Matches(res, SymbolApprox("globA", 16), rir.PtrVal(blkA, 20)))
	require.False(t, Matches(res, SymbolApprox("globA", 16), rir.PtrVal(blkB, 16)))
	require.False(t, Matches(res, SymbolApprox("nosuch", 16), rir.PtrVal(blkA, 16)))
	require.False(t, Matches(res, SymbolApprox("globA", 16), rir.IntVal(16)))
}

func TestMatchesUnknownConstructorKind(t *testing.T) {
	res := testResolver(t)
	bogus := Approx{kind: ApproxKind(200)}
	require.False(t, Matches(res, bogus, rir.IntVal(0)))
	require.False(t, Matches(res, bogus, rir.UndefVal()))
}

func TestMatchesList(t *testing.T) {
	res := testResolver(t)
	al := []Approx{IntApprox(1), Unknown()}
	vl := []rir.Value{rir.IntVal(1), rir.FloatVal(9)}
	require.True(t, MatchesList(res, al, vl))

	vl[0] = rir.IntVal(2)
	require.False(t, MatchesList(res, al, vl))

	require.Panics(t, func() {
		MatchesList(res, al, vl[:1])
	})
}

func TestApproxMapDefaultsToUnknown(t *testing.T) {
	am := ApproxMap{1: IntApprox(4)}
	require.Equal(t, IntApprox(4), am.At(1))
	require.Equal(t, Unknown(), am.At(99))
}

func TestApproxMapCloneIsIndependent(t *testing.T) {
	am := ApproxMap{1: IntApprox(4)}
	cl := am.Clone()
	cl[1] = IntApprox(5)
	cl[2] = IntApprox(6)
	require.Equal(t, IntApprox(4), am.At(1))
	require.Equal(t, Unknown(), am.At(2))
}
