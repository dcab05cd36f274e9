// Package regfile implements the integer and floating-point register
// files shared by the datapath's decode and write-back stages.
package regfile

import (
	"fmt"

	"github.com/redyaung/jarvs/word"
)

// Kind distinguishes the integer register file, whose index 0 is
// hardwired to zero, from the floating-point register file, which has
// no such special case.
type Kind int

const (
	// Integer is the general-purpose integer register file.
	Integer Kind = iota
	// Float is the floating-point register file. It exists only as a
	// container: nothing in the datapath currently writes or reads it.
	Float
)

// Count is the number of registers in either file.
const Count = 32

// File is an indexed array of Count Words.
type File struct {
	kind Kind
	regs [Count]word.Word
}

// New returns a zero-initialized register file of the given kind.
func New(kind Kind) *File {
	return &File{kind: kind}
}

func checkIndex(idx int) {
	if idx < 0 || idx >= Count {
		panic(fmt.Sprintf("regfile: register index %d out of range [0,%d)", idx, Count))
	}
}

// Read returns the current value of register idx. Reading index 0 on an
// Integer file always returns zero.
func (f *File) Read(idx int) word.Word {
	checkIndex(idx)
	if f.kind == Integer && idx == 0 {
		return word.Zero
	}
	return f.regs[idx]
}

// Write stores v into register idx. Writes to index 0 on an Integer
// file are silently discarded.
func (f *File) Write(idx int, v word.Word) {
	checkIndex(idx)
	if f.kind == Integer && idx == 0 {
		return
	}
	f.regs[idx] = v
}

// Kind reports which register file this is.
func (f *File) Kind() Kind {
	return f.kind
}
