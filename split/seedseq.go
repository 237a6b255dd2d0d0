package split

// SeedSequence turns a user seed into well mixed generator state. Its output
// is word-for-word compatible with numpy.random.SeedSequence, which lets a
// seed select the same permutation here as in numpy.random.default_rng.
type SeedSequence struct {
	pool [poolSize]uint32
}

const (
	poolSize = 4

	initA    uint32 = 0x43b0d7e5
	multA    uint32 = 0x931e8875
	initB    uint32 = 0x8b51f9dd
	multB    uint32 = 0x58f38ded
	mixMultL uint32 = 0xca01f9dd
	mixMultR uint32 = 0x4973f715
	xshift          = 16
)

// NewSeedSequence builds the entropy pool for seed.
func NewSeedSequence(seed uint64) *SeedSequence {
	s := &SeedSequence{}
	s.mixEntropy(seedWords(seed))
	return s
}

// seedWords splits seed into little-endian 32-bit words; zero is one word.
func seedWords(seed uint64) []uint32 {
	if seed == 0 {
		return []uint32{0}
	}
	var words []uint32
	for seed > 0 {
		words = append(words, uint32(seed))
		seed >>= 32
	}
	return words
}

func hashmix(value uint32, hashConst *uint32) uint32 {
	value ^= *hashConst
	*hashConst *= multA
	value *= *hashConst
	value ^= value >> xshift
	return value
}

func mix(x, y uint32) uint32 {
	r := mixMultL*x - mixMultR*y
	r ^= r >> xshift
	return r
}

func (s *SeedSequence) mixEntropy(entropy []uint32) {
	hashConst := initA
	for i := range s.pool {
		var v uint32
		if i < len(entropy) {
			v = entropy[i]
		}
		s.pool[i] = hashmix(v, &hashConst)
	}

	for src := range s.pool {
		for dst := range s.pool {
			if src != dst {
				s.pool[dst] = mix(s.pool[dst], hashmix(s.pool[src], &hashConst))
			}
		}
	}

	for src := poolSize; src < len(entropy); src++ {
		for dst := range s.pool {
			s.pool[dst] = mix(s.pool[dst], hashmix(entropy[src], &hashConst))
		}
	}
}

// State32 returns n 32-bit words of generator state.
func (s *SeedSequence) State32(n int) []uint32 {
	out := make([]uint32, n)
	hashConst := initB
	for i := range out {
		v := s.pool[i%poolSize]
		v ^= hashConst
		hashConst *= multB
		v *= hashConst
		v ^= v >> xshift
		out[i] = v
	}
	return out
}

// State64 returns n 64-bit words of generator state, each assembled from two
// consecutive 32-bit words, low word first.
func (s *SeedSequence) State64(n int) []uint64 {
	words := s.State32(2 * n)
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(words[2*i]) | uint64(words[2*i+1])<<32
	}
	return out
}
