package word

import "fmt"

// A Block is an ordered, fixed-size sequence of Words: the unit of
// transfer between memory levels.
type Block struct {
	words []Word
}

// NewBlock returns a Block of n zero words.
func NewBlock(n int) Block {
	return Block{words: make([]Word, n)}
}

// BlockOf returns a Block containing exactly the given words, in order.
func BlockOf(ws ...Word) Block {
	b := Block{words: make([]Word, len(ws))}
	copy(b.words, ws)
	return b
}

// Len returns the number of words in the block.
func (b Block) Len() int {
	return len(b.words)
}

// At returns the word at index i.
func (b Block) At(i int) Word {
	return b.words[i]
}

// Set overwrites the word at index i.
func (b *Block) Set(i int, w Word) {
	b.words[i] = w
}

// Clone returns an independent copy of b.
func (b Block) Clone() Block {
	out := Block{words: make([]Word, len(b.words))}
	copy(out.words, b.words)
	return out
}

// Sub extracts the nwords-word sub-block starting at word index from.
// It panics if the requested range is out of bounds; callers are
// expected to validate addresses before calling.
func (b Block) Sub(from, nwords int) Block {
	if from < 0 || nwords < 0 || from+nwords > len(b.words) {
		panic(fmt.Sprintf(
			"word: sub-block [%d:%d) out of bounds for block of length %d",
			from, from+nwords, len(b.words)))
	}
	out := Block{words: make([]Word, nwords)}
	copy(out.words, b.words[from:from+nwords])
	return out
}

// SetSub substitutes sub into b starting at word index from, in place.
// It panics if sub does not fit within b at that offset.
func (b *Block) SetSub(from int, sub Block) {
	if from < 0 || from+sub.Len() > len(b.words) {
		panic(fmt.Sprintf(
			"word: sub-block write [%d:%d) out of bounds for block of length %d",
			from, from+sub.Len(), len(b.words)))
	}
	copy(b.words[from:from+sub.Len()], sub.words)
}

// Words returns the underlying word slice. Callers must not retain it
// past a subsequent mutating call on b.
func (b Block) Words() []Word {
	return b.words
}
