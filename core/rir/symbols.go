package rir

import "github.com/pkg/errors"

// SymbolResolver maps linker symbols to storage locations. A miss is not an
// error: the caller treats an unresolvable symbol conservatively.
type SymbolResolver interface {
	Resolve(sym Symbol) (BlockID, bool)
}

// SymbolTable is the canonical SymbolResolver: an append-only mapping from
// symbol to storage block, populated while the surrounding program is built.
type SymbolTable struct {
	blocks map[Symbol]BlockID
	next   BlockID
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{blocks: make(map[Symbol]BlockID)}
}

// Define allocates a fresh storage block for sym. Defining the same symbol
// twice is rejected.
func (t *SymbolTable) Define(sym Symbol) (BlockID, error) {
	if sym == "" {
		return 0, errors.New("empty symbol name")
	}
	if _, ok := t.blocks[sym]; ok {
		return 0, errors.Errorf("symbol %q already defined", sym)
	}
	t.next++
	t.blocks[sym] = t.next
	return t.next, nil
}

// MustDefine is Define for test and fixture setup paths.
func (t *SymbolTable) MustDefine(sym Symbol) BlockID {
	b, err := t.Define(sym)
	if err != nil {
		panic(err)
	}
	return b
}

func (t *SymbolTable) Resolve(sym Symbol) (BlockID, bool) {
	b, ok := t.blocks[sym]
	return b, ok
}

func (t *SymbolTable) Len() int { return len(t.blocks) }
