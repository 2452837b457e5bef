package constprop

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/regvm/go-regvm/common/gopool"
	"github.com/regvm/go-regvm/core/rir"
)

var enabled = true

// Enable turns strength reduction on. Analysis (TransferInstr) is always
// available; only rewriting is gated.
func Enable()  { enabled = true }
func Disable() { enabled = false }
func IsEnabled() bool { return enabled }

// ReduceInstr rewrites one instruction against the approximation snapshot
// valid at its program point. Instructions with no applicable rule come back
// unchanged.
func ReduceInstr(am ApproxMap, in rir.Instr) rir.Instr {
	if !enabled {
		return in
	}
	switch in.Kind {
	case rir.InstrOp:
		op, args := ReduceOperation(am, in.Op, in.Args)
		if op != in.Op || !sameRegs(args, in.Args) {
			operatorReducedCounter.Inc(1)
		}
		return rir.Instr{Kind: rir.InstrOp, Op: op, Args: args, Dest: in.Dest}
	case rir.InstrLoad:
		mode, args := ReduceAddressing(am, in.Addr, in.Args)
		if mode != in.Addr || !sameRegs(args, in.Args) {
			addressingReducedCounter.Inc(1)
		}
		return rir.Instr{Kind: rir.InstrLoad, Addr: mode, Args: args, Dest: in.Dest}
	case rir.InstrStore:
		addrArgs := in.AddrArgs()
		src := in.Args[len(in.Args)-1]
		mode, args := ReduceAddressing(am, in.Addr, addrArgs)
		if mode != in.Addr || !sameRegs(args, addrArgs) {
			addressingReducedCounter.Inc(1)
		}
		return rir.Instr{Kind: rir.InstrStore, Addr: mode, Args: append(args, src)}
	case rir.InstrBranch:
		cond, args := ReduceCondition(am, in.Cond, in.Args)
		if cond != in.Cond || !sameRegs(args, in.Args) {
			conditionReducedCounter.Inc(1)
		}
		return rir.Instr{Kind: rir.InstrBranch, Cond: cond, Args: args}
	}
	return in
}

// TransferInstr computes the output approximation an instruction installs
// for its destination register. The boolean is false for instructions with
// no destination. Loaded values are never tracked: memory is not modeled.
func TransferInstr(am ApproxMap, in rir.Instr) (rir.Reg, Approx, bool) {
	switch in.Kind {
	case rir.InstrOp:
		return in.Dest, EvalStaticOperation(in.Op, am.argApproxs(in.Args)), true
	case rir.InstrLoad:
		return in.Dest, Unknown(), true
	}
	return 0, Approx{}, false
}

// TransferBlock threads the approximation map through straight-line code and
// returns the exit snapshot. The entry map is never mutated.
func TransferBlock(entry ApproxMap, b *rir.BasicBlock) ApproxMap {
	am := entry.Clone()
	for _, in := range b.Instrs {
		if r, a, ok := TransferInstr(am, in); ok {
			am[r] = a
		}
	}
	return am
}

// ReduceBlock rewrites a whole basic block. Each instruction is reduced
// against the snapshot valid just before it; join points are the dataflow
// driver's problem, so this helper is only correct for straight-line blocks
// whose entry snapshot the driver has already fixed.
func ReduceBlock(entry ApproxMap, b *rir.BasicBlock) (*rir.BasicBlock, ApproxMap) {
	am := entry.Clone()
	out := make([]rir.Instr, len(b.Instrs))
	pinned := mapset.NewThreadUnsafeSet[rir.Reg]()
	for i, in := range b.Instrs {
		out[i] = ReduceInstr(am, in)
		if r, a, ok := TransferInstr(am, in); ok {
			am[r] = a
			if a.Kind() != ApproxUnknown {
				pinned.Add(r)
			}
		}
	}
	if pinned.Cardinality() > 0 {
		debugLog("block reduced", "instrs", len(b.Instrs), "pinnedRegs", pinned.Cardinality())
	}
	return &rir.BasicBlock{Instrs: out}, am
}

// ReduceBlocks reduces independent blocks concurrently. Entry snapshots must
// already be at a fixpoint; blocks share nothing but the read-only inputs.
func ReduceBlocks(entries []ApproxMap, blocks []*rir.BasicBlock) []*rir.BasicBlock {
	if len(entries) != len(blocks) {
		panic("constprop: entry snapshot count does not match block count")
	}
	out := make([]*rir.BasicBlock, len(blocks))
	var wg sync.WaitGroup
	for i := range blocks {
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			out[i], _ = ReduceBlockCached(entries[i], blocks[i])
		}
		if err := gopool.Submit(task); err != nil {
			// Pool exhausted or released; fall back to inline execution.
			task()
		}
	}
	wg.Wait()
	return out
}

func sameRegs(a, b []rir.Reg) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
