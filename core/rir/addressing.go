package rir

import "fmt"

// AddrKind tags the addressing-mode families of loads and stores.
type AddrKind byte

const (
	AddrIndexed2 AddrKind = iota // reg + reg
	AddrIndexed                  // reg + #imm
	AddrGlobal                   // sym + #off
	AddrBased                    // sym + #off + reg
)

// AddrMode describes how a load or store computes its effective address.
type AddrMode struct {
	Kind AddrKind
	Imm  Word   // displacement for AddrIndexed
	Sym  Symbol // AddrGlobal / AddrBased target
	Off  Word   // AddrGlobal / AddrBased displacement
}

func Indexed2() AddrMode       { return AddrMode{Kind: AddrIndexed2} }
func Indexed(n Word) AddrMode  { return AddrMode{Kind: AddrIndexed, Imm: n} }
func Global(s Symbol, off Word) AddrMode {
	return AddrMode{Kind: AddrGlobal, Sym: s, Off: off}
}
func Based(s Symbol, off Word) AddrMode {
	return AddrMode{Kind: AddrBased, Sym: s, Off: off}
}

// Arity returns the number of register arguments of the addressing mode.
func (m AddrMode) Arity() int {
	switch m.Kind {
	case AddrIndexed2:
		return 2
	case AddrIndexed, AddrBased:
		return 1
	case AddrGlobal:
		return 0
	default:
		panic(fmt.Sprintf("rir: unknown addressing kind %d", m.Kind))
	}
}

// CheckArity aborts on an argument-count mismatch.
func (m AddrMode) CheckArity(nargs int) {
	if m.Arity() != nargs {
		panic(fmt.Sprintf("rir: %s applied to %d args, want %d", m, nargs, m.Arity()))
	}
}

func (m AddrMode) String() string {
	switch m.Kind {
	case AddrIndexed2:
		return "[reg+reg]"
	case AddrIndexed:
		return fmt.Sprintf("[reg+%d]", m.Imm)
	case AddrGlobal:
		return fmt.Sprintf("[%s+%d]", m.Sym, m.Off)
	case AddrBased:
		return fmt.Sprintf("[%s+%d+reg]", m.Sym, m.Off)
	default:
		return fmt.Sprintf("Addr(%d)", byte(m.Kind))
	}
}
