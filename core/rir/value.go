package rir

import "fmt"

// Word is the machine integer word. All integer arithmetic wraps at 32 bits;
// unsigned operations go through uint32 views of the same bits.
type Word int32

const (
	// WordBits is the register width in bits.
	WordBits = 32
	// MinWord is the smallest signed word value.
	MinWord Word = -1 << 31
)

// Reg identifies a virtual register.
type Reg uint32

// BlockID identifies a storage location a symbol resolves to.
type BlockID uint32

// Symbol names a linker-visible location.
type Symbol string

type ValueKind byte

const (
	ValUndef ValueKind = iota
	ValInt
	ValFloat
	ValPointer
)

// Value is a runtime register content: a machine integer, a float, a pointer
// into a storage block, or undefined.
type Value struct {
	kind  ValueKind
	i     Word
	f     float64
	block BlockID
	off   Word
}

func IntVal(i Word) Value       { return Value{kind: ValInt, i: i} }
func FloatVal(f float64) Value  { return Value{kind: ValFloat, f: f} }
func UndefVal() Value           { return Value{kind: ValUndef} }
func PtrVal(b BlockID, off Word) Value {
	return Value{kind: ValPointer, block: b, off: off}
}

func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer payload. Only meaningful for ValInt.
func (v Value) Int() Word { return v.i }

// Float returns the float payload. Only meaningful for ValFloat.
func (v Value) Float() float64 { return v.f }

// Pointer returns the block and byte offset. Only meaningful for ValPointer.
func (v Value) Pointer() (BlockID, Word) { return v.block, v.off }

// Equal reports bit-for-bit equality of two values. Undef never equals
// anything, including itself.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.kind == ValUndef {
		return false
	}
	switch v.kind {
	case ValInt:
		return v.i == other.i
	case ValFloat:
		return v.f == other.f
	case ValPointer:
		return v.block == other.block && v.off == other.off
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case ValInt:
		return fmt.Sprintf("int(%d)", v.i)
	case ValFloat:
		return fmt.Sprintf("float(%g)", v.f)
	case ValPointer:
		return fmt.Sprintf("ptr(b%d+%d)", v.block, v.off)
	default:
		return "undef"
	}
}
