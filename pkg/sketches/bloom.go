package sketches

import (
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const (
	defaultBloomBits   = 10000
	defaultBloomHashes = 3
)

// BloomFilter answers set membership with one-sided error: MightContain may
// wrongly say yes, never wrongly no. The k hash indexes are derived from two
// 64-bit hashes via double hashing.
type BloomFilter struct {
	words     []uint64
	numBits   uint64
	numHashes int
}

// NewBloomFilter creates a filter with the given bit count and number of hash
// functions. Non-positive values fall back to the defaults (10000 bits, 3
// hashes).
func NewBloomFilter(numBits uint64, numHashes int) *BloomFilter {
	if numBits == 0 {
		numBits = defaultBloomBits
	}
	if numHashes <= 0 {
		numHashes = defaultBloomHashes
	}
	return &BloomFilter{
		words:     make([]uint64, (numBits+63)/64),
		numBits:   numBits,
		numHashes: numHashes,
	}
}

// Add sets the k bits for an item.
func (bf *BloomFilter) Add(item []byte) {
	h0, h1 := bf.hashes(item)
	for i := 0; i < bf.numHashes; i++ {
		pos := (h0 + uint64(i)*h1) % bf.numBits
		bf.words[pos/64] |= 1 << (pos % 64)
	}
}

// AddString sets the k bits for a string item.
func (bf *BloomFilter) AddString(item string) {
	bf.Add([]byte(item))
}

// MightContain reports whether all k bits for the item are set. A false
// result is definitive; a true result may be a false positive.
func (bf *BloomFilter) MightContain(item []byte) bool {
	h0, h1 := bf.hashes(item)
	for i := 0; i < bf.numHashes; i++ {
		pos := (h0 + uint64(i)*h1) % bf.numBits
		if bf.words[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// MightContainString reports membership for a string item.
func (bf *BloomFilter) MightContainString(item string) bool {
	return bf.MightContain([]byte(item))
}

// FalsePositiveRate estimates the current false-positive probability from the
// fill ratio: (set_bits / total_bits)^k.
func (bf *BloomFilter) FalsePositiveRate() float64 {
	set := 0
	for _, w := range bf.words {
		set += bits.OnesCount64(w)
	}
	return math.Pow(float64(set)/float64(bf.numBits), float64(bf.numHashes))
}

// Reset unsets all bits.
func (bf *BloomFilter) Reset() {
	for i := range bf.words {
		bf.words[i] = 0
	}
}

// hashes derives the two base hashes for double hashing
// (Kirsch-Mitzenmacher): index_i = h0 + i*h1. h1 is forced odd so the probe
// sequence cycles through the whole bit array.
func (bf *BloomFilter) hashes(item []byte) (uint64, uint64) {
	h0 := xxhash.Sum64(item)
	d := xxhash.NewWithSeed(h0)
	_, _ = d.Write(item)
	return h0, d.Sum64() | 1
}
