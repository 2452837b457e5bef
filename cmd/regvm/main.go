// regvm runs the constant-propagation strength-reduction pass over a set of
// built-in demo blocks and reports what it rewrote. Mostly useful for
// eyeballing the pass output and for quick performance experiments.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/regvm/go-regvm/common/gopool"
	"github.com/regvm/go-regvm/core/rir"
	"github.com/regvm/go-regvm/core/rir/constprop"
)

func main() {
	app := &cli.App{
		Name:  "regvm",
		Usage: "strength-reduce demo blocks and print the rewrites",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "reduce blocks on the shared worker pool",
			},
			&cli.IntFlag{
				Name:  "repeat",
				Usage: "number of copies of the demo block set to reduce",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable verbose pass logging",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	level := log.LevelInfo
	if ctx.Bool("debug") {
		level = log.LevelDebug
		constprop.EnableDebugLogs(true)
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, false)))

	symtab := rir.NewSymbolTable()
	symtab.MustDefine("table")
	symtab.MustDefine("counter")

	entries, blocks := demoBlocks(ctx.Int("repeat"))
	for _, b := range blocks {
		if err := b.Validate(symtab); err != nil {
			return err
		}
	}

	var reduced []*rir.BasicBlock
	if ctx.Bool("parallel") {
		log.Info("reducing on worker pool", "blocks", len(blocks), "threads", gopool.Threads(len(blocks)))
		reduced = constprop.ReduceBlocks(entries, blocks)
	} else {
		reduced = make([]*rir.BasicBlock, len(blocks))
		for i := range blocks {
			reduced[i], _ = constprop.ReduceBlockCached(entries[i], blocks[i])
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Block", "Original", "Reduced"})
	table.SetAutoWrapText(false)
	for i, b := range blocks {
		for j := range b.Instrs {
			table.Append([]string{
				strconv.Itoa(i),
				b.Instrs[j].String(),
				reduced[i].Instrs[j].String(),
			})
		}
	}
	table.Render()

	ops, conds, addrs := constprop.ReductionCounts()
	log.Info("pass finished", "operators", ops, "conditions", conds, "addressing", addrs)
	return nil
}

// demoBlocks builds n copies of a block set exercising the main rewrite
// families: multiply/divide by powers of two, additive identities, symbol
// based addressing and comparison mirroring.
func demoBlocks(n int) ([]constprop.ApproxMap, []*rir.BasicBlock) {
	if n < 1 {
		n = 1
	}
	var (
		entries []constprop.ApproxMap
		blocks  []*rir.BasicBlock
	)
	for i := 0; i < n; i++ {
		entry := constprop.ApproxMap{
			2: constprop.IntApprox(8),
			3: constprop.IntApprox(4),
			4: constprop.IntApprox(0),
			5: constprop.SymbolApprox("table", 16),
			6: constprop.IntApprox(12),
			7: constprop.IntApprox(5),
		}
		block := &rir.BasicBlock{Instrs: []rir.Instr{
			rir.NewOp(10, rir.Simple(rir.OpMul), 1, 2),          // r10 = r1 * 8
			rir.NewOp(11, rir.Simple(rir.OpDivU), 1, 3),         // r11 = r1 /u 4
			rir.NewOp(12, rir.Simple(rir.OpAdd), 1, 4),          // r12 = r1 + 0
			rir.NewOp(13, rir.Simple(rir.OpSub), 1, 3),          // r13 = r1 - 4
			rir.NewOp(14, rir.Cmp(rir.CmpS(rir.RelLt)), 7, 1),   // r14 = 5 < r1
			rir.NewLoad(15, rir.Indexed2(), 5, 6),               // r15 = load [table+16+12]
			rir.NewLoad(16, rir.Indexed2(), 1, 6),               // r16 = load [r1+12]
			rir.NewBranch(rir.CmpU(rir.RelGe), 1, 3),            // branch-if r1 >=u 4
		}}
		entries = append(entries, entry)
		blocks = append(blocks, block)
	}
	return entries, blocks
}
