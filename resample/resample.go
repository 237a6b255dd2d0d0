package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrGridTooShort indicates a wavelength grid with fewer than two points.
	ErrGridTooShort = errors.New("resample: grid needs at least 2 points")
	// ErrGridNotIncreasing indicates a grid that is not strictly increasing
	// or contains non-finite values.
	ErrGridNotIncreasing = errors.New("resample: grid not strictly increasing")
	// ErrOutOfRange indicates an output bin outside the input coverage.
	ErrOutOfRange = errors.New("resample: output bin outside input coverage")
	// ErrNonFinite indicates a NaN or infinite resampled value.
	ErrNonFinite = errors.New("resample: non-finite output")
	// ErrShape indicates buffers whose lengths do not match the plan.
	ErrShape = errors.New("resample: shape mismatch")
)

// Linspace returns n points linearly spaced over [lo, hi], both included.
// n == 1 yields {lo}; n <= 0 yields nil.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// BinEdges returns the len(wavs)+1 bin edges and the len(wavs) bin widths
// of a sample grid. Inner edges lie half way between neighbouring samples,
// outer edges are extrapolated by half the outermost spacing.
func BinEdges(wavs []float64) (edges, widths []float64, err error) {
	if err := checkGrid(wavs); err != nil {
		return nil, nil, err
	}

	n := len(wavs)
	edges = make([]float64, n+1)
	edges[0] = wavs[0] - (wavs[1]-wavs[0])/2
	edges[n] = wavs[n-1] + (wavs[n-1]-wavs[n-2])/2
	for i := 1; i < n; i++ {
		edges[i] = (wavs[i] + wavs[i-1]) / 2
	}

	widths = make([]float64, n)
	for i := range widths {
		widths[i] = edges[i+1] - edges[i]
	}
	return edges, widths, nil
}

func checkGrid(wavs []float64) error {
	if len(wavs) < 2 {
		return ErrGridTooShort
	}
	for i, w := range wavs {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: value %v at %d", ErrGridNotIncreasing, w, i)
		}
		if i > 0 && w <= wavs[i-1] {
			return fmt.Errorf("%w: %v <= %v at %d", ErrGridNotIncreasing, w, wavs[i-1], i)
		}
	}
	return nil
}

// outBin holds the input bins contributing to one output bin.
type outBin struct {
	start   int       // first overlapping input bin
	weights []float64 // overlap width for input bins start..start+len(weights)-1
	norm    float64   // sum of weights
}

// Plan maps spectra sampled on one grid onto another.
// A Plan is immutable after construction and safe for concurrent use.
type Plan struct {
	oldLen  int
	newLen  int
	bins    []outBin
	maxSpan int
	clipped int
}

// NewPlan precomputes the overlap weights that take a spectrum sampled at
// oldWavs onto newWavs.
func NewPlan(newWavs, oldWavs []float64) (*Plan, error) {
	oldEdges, oldWidths, err := BinEdges(oldWavs)
	if err != nil {
		return nil, fmt.Errorf("input grid: %w", err)
	}
	newEdges, _, err := BinEdges(newWavs)
	if err != nil {
		return nil, fmt.Errorf("output grid: %w", err)
	}

	lo, hi := oldEdges[0], oldEdges[len(oldEdges)-1]
	p := &Plan{
		oldLen: len(oldWavs),
		newLen: len(newWavs),
		bins:   make([]outBin, len(newWavs)),
	}

	start, stop := 0, 0
	last := len(oldWavs) - 1
	for j, c := range newWavs {
		if c < lo || c > hi {
			return nil, fmt.Errorf("%w: point %d at %v, coverage [%v, %v]", ErrOutOfRange, j, c, lo, hi)
		}

		left, right := newEdges[j], newEdges[j+1]
		if left < lo || right > hi {
			p.clipped++
			left = math.Max(left, lo)
			right = math.Min(right, hi)
		}

		// first input bin partially covered by the output bin
		for start < last && oldEdges[start+1] <= left {
			start++
		}
		// last input bin partially covered by the output bin
		for stop < last && oldEdges[stop+1] < right {
			stop++
		}
		if stop < start {
			stop = start
		}

		b := outBin{start: start}
		if start == stop {
			b.weights = []float64{1}
			b.norm = 1
		} else {
			w := make([]float64, stop-start+1)
			copy(w, oldWidths[start:stop+1])
			w[0] *= (oldEdges[start+1] - left) / (oldEdges[start+1] - oldEdges[start])
			w[len(w)-1] *= (right - oldEdges[stop]) / (oldEdges[stop+1] - oldEdges[stop])
			b.weights = w
			b.norm = floats.Sum(w)
		}
		if !(b.norm > 0) {
			return nil, fmt.Errorf("%w: point %d at %v has no overlap", ErrOutOfRange, j, c)
		}

		p.bins[j] = b
		p.maxSpan = max(p.maxSpan, len(b.weights))
	}
	return p, nil
}

// InputLen returns the number of samples expected per input spectrum.
func (p *Plan) InputLen() int { return p.oldLen }

// OutputLen returns the number of samples produced per spectrum.
func (p *Plan) OutputLen() int { return p.newLen }

// Clipped returns how many output bins were clipped to the input coverage.
func (p *Plan) Clipped() int { return p.clipped }

// Row resamples a single spectrum into dst.
func (p *Plan) Row(dst, flux []float64) error {
	return p.row(dst, flux, make([]float64, p.maxSpan))
}

func (p *Plan) row(dst, flux, scratch []float64) error {
	if len(flux) != p.oldLen || len(dst) != p.newLen {
		return fmt.Errorf("%w: flux %d (want %d), dst %d (want %d)",
			ErrShape, len(flux), p.oldLen, len(dst), p.newLen)
	}
	for j, b := range p.bins {
		k := len(b.weights)
		prod := scratch[:k]
		vecmath.MulBlock(prod, b.weights, flux[b.start:b.start+k])
		v := floats.Sum(prod) / b.norm
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: output point %d", ErrNonFinite, j)
		}
		dst[j] = v
	}
	return nil
}

// Resample takes one spectrum sampled at oldWavs onto newWavs.
func Resample(newWavs, oldWavs, flux []float64) ([]float64, error) {
	p, err := NewPlan(newWavs, oldWavs)
	if err != nil {
		return nil, err
	}
	out := make([]float64, p.newLen)
	if err := p.Row(out, flux); err != nil {
		return nil, err
	}
	return out, nil
}
