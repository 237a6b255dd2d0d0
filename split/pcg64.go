package split

import "math/bits"

// uint128 is a 128-bit unsigned integer stored as two halves.
type uint128 struct {
	hi, lo uint64
}

func (a uint128) mul(b uint128) uint128 {
	hi, lo := bits.Mul64(a.lo, b.lo)
	hi += a.hi*b.lo + a.lo*b.hi
	return uint128{hi: hi, lo: lo}
}

func (a uint128) add(b uint128) uint128 {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	hi, _ := bits.Add64(a.hi, b.hi, carry)
	return uint128{hi: hi, lo: lo}
}

var pcgMultiplier = uint128{hi: 0x2360ed051fc65da4, lo: 0x4385df649fccf645}

// PCG64 is the 128-bit permuted congruential generator with the XSL-RR
// output function, matching numpy.random.PCG64. It is not safe for
// concurrent use.
type PCG64 struct {
	state uint128
	inc   uint128

	// the upper half of the last 64-bit draw, handed out by the next Uint32
	hasUint32 bool
	uinteger  uint32
}

// NewPCG64 seeds a generator from a seed sequence.
func NewPCG64(ss *SeedSequence) *PCG64 {
	v := ss.State64(4)
	g := &PCG64{}
	g.seed(uint128{hi: v[0], lo: v[1]}, uint128{hi: v[2], lo: v[3]})
	return g
}

func (g *PCG64) seed(initState, initSeq uint128) {
	g.state = uint128{}
	g.inc = uint128{hi: initSeq.hi<<1 | initSeq.lo>>63, lo: initSeq.lo<<1 | 1}
	g.step()
	g.state = g.state.add(initState)
	g.step()
	g.hasUint32 = false
	g.uinteger = 0
}

func (g *PCG64) step() {
	g.state = g.state.mul(pcgMultiplier).add(g.inc)
}

// Uint64 returns the next 64-bit value.
func (g *PCG64) Uint64() uint64 {
	g.step()
	rot := int(g.state.hi >> 58)
	return bits.RotateLeft64(g.state.hi^g.state.lo, -rot)
}

// Uint32 returns the next 32-bit value. Each 64-bit draw serves two calls,
// low half first.
func (g *PCG64) Uint32() uint32 {
	if g.hasUint32 {
		g.hasUint32 = false
		return g.uinteger
	}
	next := g.Uint64()
	g.hasUint32 = true
	g.uinteger = uint32(next >> 32)
	return uint32(next)
}
