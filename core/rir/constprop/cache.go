package constprop

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/lru"
	"golang.org/x/crypto/sha3"

	"github.com/regvm/go-regvm/core/rir"
)

// ReductionCache memoizes reduced blocks. The key covers both the
// instruction stream and the entry snapshot: the same block reduces
// differently under different register facts.
type ReductionCache struct {
	blocks *lru.Cache[common.Hash, *rir.BasicBlock]
}

var reductionCache *ReductionCache

const reductionCacheCap = 4096

func init() {
	reductionCache = &ReductionCache{
		blocks: lru.NewCache[common.Hash, *rir.BasicBlock](reductionCacheCap),
	}
}

func (c *ReductionCache) get(key common.Hash) *rir.BasicBlock {
	b, _ := c.blocks.Get(key)
	return b
}

func (c *ReductionCache) add(key common.Hash, b *rir.BasicBlock) {
	c.blocks.Add(key, b)
}

// Len returns the number of cached reduced blocks.
func (c *ReductionCache) Len() int { return c.blocks.Len() }

// PurgeReductionCache drops all memoized reductions. Tests use this to get
// deterministic hit/miss counts.
func PurgeReductionCache() {
	reductionCache = &ReductionCache{
		blocks: lru.NewCache[common.Hash, *rir.BasicBlock](reductionCacheCap),
	}
}

// ReduceBlockCached is ReduceBlock behind the LRU. The exit snapshot is
// recomputed on hits; only the rewritten instructions are memoized.
func ReduceBlockCached(entry ApproxMap, b *rir.BasicBlock) (*rir.BasicBlock, ApproxMap) {
	if !enabled {
		return b, TransferBlock(entry, b)
	}
	key := reductionKey(entry, b)
	if cached := reductionCache.get(key); cached != nil {
		cacheHitCounter.Inc(1)
		return cached, TransferBlock(entry, b)
	}
	cacheMissCounter.Inc(1)
	reduced, exit := ReduceBlock(entry, b)
	reductionCache.add(key, reduced)
	return reduced, exit
}

func reductionKey(entry ApproxMap, b *rir.BasicBlock) common.Hash {
	h := sha3.NewLegacyKeccak256()
	fp := b.Fingerprint()
	h.Write(fp[:])

	regs := make([]rir.Reg, 0, len(entry))
	for r := range entry {
		regs = append(regs, r)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i] < regs[j] })
	var buf [8]byte
	for _, r := range regs {
		a := entry[r]
		binary.BigEndian.PutUint32(buf[:4], uint32(r))
		h.Write(buf[:4])
		h.Write([]byte{byte(a.Kind())})
		binary.BigEndian.PutUint32(buf[:4], uint32(a.Int()))
		h.Write(buf[:4])
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(a.Float()))
		h.Write(buf[:])
		sym, off := a.Symbol()
		h.Write([]byte(sym))
		binary.BigEndian.PutUint32(buf[:4], uint32(off))
		h.Write(buf[:4])
	}
	return common.BytesToHash(h.Sum(nil))
}
