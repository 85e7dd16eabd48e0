package tick

import (
	"errors"

	"github.com/holiman/uint256"
)

var ErrUnalignedTick = errors.New("tick not aligned to spacing")

var one = uint256.NewInt(1)

// Bitmap indexes initialized boundary ticks, one bit per spacing-aligned
// tick, packed into 256-bit words keyed by word position.
type Bitmap struct {
	words map[int16]*uint256.Int
}

func NewBitmap() *Bitmap {
	return &Bitmap{words: make(map[int16]*uint256.Int)}
}

// WordPos splits a spacing-compressed tick index into word and bit
// coordinates. The shift floors and the low byte wraps, so negative
// indexes land in negative words with bit positions in [0, 255].
func WordPos(compressed int32) (int16, uint8) {
	return int16(compressed >> 8), uint8(compressed & 0xff)
}

// FlipTick toggles the bit for tick, which must be a multiple of spacing.
func (b *Bitmap) FlipTick(tick, spacing int32) error {
	if spacing <= 0 || tick%spacing != 0 {
		return ErrUnalignedTick
	}
	wordPos, bitPos := WordPos(tick / spacing)

	word, ok := b.words[wordPos]
	if !ok {
		word = new(uint256.Int)
		b.words[wordPos] = word
	}
	mask := new(uint256.Int).Lsh(one, uint(bitPos))
	word.Xor(word, mask)
	if word.IsZero() {
		delete(b.words, wordPos)
	}
	return nil
}

// NextInitializedTickWithinOneWord scans the word holding tick for the
// nearest initialized boundary: at or below tick when lte is true,
// strictly above it otherwise. When the word holds no candidate it
// returns the tick at the word's edge with initialized false, so callers
// can resume the search from the next word.
func (b *Bitmap) NextInitializedTickWithinOneWord(tick, spacing int32, lte bool) (int32, bool) {
	compressed := floorDiv(tick, spacing)

	if lte {
		wordPos, bitPos := WordPos(compressed)
		mask := new(uint256.Int).Lsh(one, uint(bitPos)+1)
		mask.SubUint64(mask, 1)
		masked := new(uint256.Int).And(b.word(wordPos), mask)

		if !masked.IsZero() {
			msb := int32(masked.BitLen() - 1)
			return (compressed - int32(bitPos) + msb) * spacing, true
		}
		return (compressed - int32(bitPos)) * spacing, false
	}

	compressed++
	wordPos, bitPos := WordPos(compressed)
	low := new(uint256.Int).Lsh(one, uint(bitPos))
	low.SubUint64(low, 1)
	mask := new(uint256.Int).Not(low)
	masked := new(uint256.Int).And(b.word(wordPos), mask)

	if !masked.IsZero() {
		neg := new(uint256.Int).Neg(masked)
		lsb := int32(new(uint256.Int).And(masked, neg).BitLen() - 1)
		return (compressed + lsb - int32(bitPos)) * spacing, true
	}
	return (compressed + 255 - int32(bitPos)) * spacing, false
}

// Word returns a copy of the word at pos, zero when absent.
func (b *Bitmap) Word(pos int16) *uint256.Int {
	return b.word(pos).Clone()
}

// SetWord overwrites the word at pos, dropping the entry when bits is zero.
func (b *Bitmap) SetWord(pos int16, bits *uint256.Int) {
	if bits == nil || bits.IsZero() {
		delete(b.words, pos)
		return
	}
	b.words[pos] = bits.Clone()
}

// Words returns a copy of every nonzero word keyed by position.
func (b *Bitmap) Words() map[int16]*uint256.Int {
	out := make(map[int16]*uint256.Int, len(b.words))
	for pos, word := range b.words {
		out[pos] = word.Clone()
	}
	return out
}

func (b *Bitmap) word(pos int16) *uint256.Int {
	if word, ok := b.words[pos]; ok {
		return word
	}
	return new(uint256.Int)
}

func floorDiv(tick, spacing int32) int32 {
	compressed := tick / spacing
	if tick < 0 && tick%spacing != 0 {
		compressed--
	}
	return compressed
}
