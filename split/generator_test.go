package split

import "testing"

func TestUint128Arithmetic(t *testing.T) {
	maxU := ^uint64(0)
	got := uint128{lo: maxU}.mul(uint128{lo: maxU})
	if got.hi != maxU-1 || got.lo != 1 {
		t.Fatalf("unexpected product: hi=%#x lo=%#x", got.hi, got.lo)
	}

	sum := uint128{lo: maxU}.add(uint128{lo: 1})
	if sum.hi != 1 || sum.lo != 0 {
		t.Fatalf("carry not propagated: hi=%#x lo=%#x", sum.hi, sum.lo)
	}

	wrap := uint128{hi: maxU, lo: maxU}.add(uint128{lo: 1})
	if wrap.hi != 0 || wrap.lo != 0 {
		t.Fatalf("expected wrap to zero, got hi=%#x lo=%#x", wrap.hi, wrap.lo)
	}
}

func TestSeedSequence_State64FromState32(t *testing.T) {
	ss := NewSeedSequence(66)
	words := ss.State32(8)
	state := ss.State64(4)
	for i, v := range state {
		want := uint64(words[2*i]) | uint64(words[2*i+1])<<32
		if v != want {
			t.Fatalf("word %d: expected %#x, got %#x", i, want, v)
		}
	}

	other := NewSeedSequence(67).State64(4)
	if other[0] == state[0] && other[1] == state[1] {
		t.Fatalf("expected different seeds to produce different state")
	}
}

func TestSeedWords(t *testing.T) {
	if got := seedWords(0); len(got) != 1 || got[0] != 0 {
		t.Fatalf("unexpected words for 0: %v", got)
	}
	if got := seedWords(66); len(got) != 1 || got[0] != 66 {
		t.Fatalf("unexpected words for 66: %v", got)
	}
	got := seedWords(1<<32 | 5)
	if len(got) != 2 || got[0] != 5 || got[1] != 1 {
		t.Fatalf("unexpected words for 2^32+5: %v", got)
	}
}

func TestPCG64_Uint32SplitsDraws(t *testing.T) {
	a := NewPCG64(NewSeedSequence(66))
	b := NewPCG64(NewSeedSequence(66))

	for i := 0; i < 10; i++ {
		v := a.Uint64()
		lo, hi := b.Uint32(), b.Uint32()
		if lo != uint32(v) || hi != uint32(v>>32) {
			t.Fatalf("draw %d: expected halves %#x/%#x, got %#x/%#x", i, uint32(v), uint32(v>>32), lo, hi)
		}
	}
}

func TestGenerator_IntervalBounds(t *testing.T) {
	g := NewGenerator(66)
	bounds := []uint64{0, 1, 2, 7, 1000, 1<<32 - 1, 1 << 40}
	for _, b := range bounds {
		for i := 0; i < 200; i++ {
			if v := g.Interval(b); v > b {
				t.Fatalf("Interval(%d) returned %d", b, v)
			}
		}
	}

	// small bounds should reach every value
	seen := make(map[uint64]bool)
	for i := 0; i < 500; i++ {
		seen[g.Interval(4)] = true
	}
	if len(seen) != 5 {
		t.Fatalf("expected all 5 values of [0, 4], saw %d", len(seen))
	}
}

func TestGenerator_Permutation(t *testing.T) {
	const n = 1000
	p := NewGenerator(66).Permutation(n)
	if len(p) != n {
		t.Fatalf("expected %d entries, got %d", n, len(p))
	}
	seen := make([]bool, n)
	moved := 0
	for i, v := range p {
		if v < 0 || v >= n || seen[v] {
			t.Fatalf("invalid or repeated entry %d at %d", v, i)
		}
		seen[v] = true
		if v != i {
			moved++
		}
	}
	if moved == 0 {
		t.Fatalf("permutation left every element in place")
	}

	if got := NewGenerator(66).Permutation(0); len(got) != 0 {
		t.Fatalf("expected empty permutation, got %v", got)
	}
}

// The first double drawn by numpy's default_rng(seed).random() is the top 53
// bits of the first PCG64 output.
func TestGenerator_MatchesNumpyFirstDraw(t *testing.T) {
	cases := []struct {
		seed uint64
		want float64
	}{
		{42, 0.7739560485559633},
		{0, 0.6369616873214543},
		{12345, 0.22733602246716966},
	}
	for _, tc := range cases {
		g := NewGenerator(tc.seed)
		if got := float64(g.bits.Uint64()>>11) * 0x1p-53; got != tc.want {
			t.Fatalf("seed %d: expected %v, got %v", tc.seed, tc.want, got)
		}
	}
}
