package split

// Generator draws bounded integers and permutations from a PCG64 stream.
// For a given seed the permutations match numpy.random.default_rng(seed).
type Generator struct {
	bits *PCG64
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{bits: NewPCG64(NewSeedSequence(seed))}
}

// Interval returns a uniformly distributed value in [0, bound], using masked
// rejection sampling.
func (g *Generator) Interval(bound uint64) uint64 {
	if bound == 0 {
		return 0
	}

	mask := bound
	mask |= mask >> 1
	mask |= mask >> 2
	mask |= mask >> 4
	mask |= mask >> 8
	mask |= mask >> 16
	mask |= mask >> 32

	if bound <= 0xffffffff {
		for {
			if v := uint64(g.bits.Uint32()) & mask; v <= bound {
				return v
			}
		}
	}
	for {
		if v := g.bits.Uint64() & mask; v <= bound {
			return v
		}
	}
}

// Shuffle permutes x in place, walking from the last element down and
// swapping each with a uniformly chosen element at or below it.
func (g *Generator) Shuffle(x []int) {
	for i := len(x) - 1; i > 0; i-- {
		j := int(g.Interval(uint64(i)))
		x[i], x[j] = x[j], x[i]
	}
}

// Permutation returns a random permutation of [0, n).
func (g *Generator) Permutation(n int) []int {
	if n <= 0 {
		return []int{}
	}
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	g.Shuffle(p)
	return p
}
