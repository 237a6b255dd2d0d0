// Package resample provides flux-conserving resampling of spectra between
// wavelength grids.
//
// Each sample position is treated as the centre of a bin whose edges lie half
// way to the neighbouring positions. An output bin takes the width-weighted
// average of every input bin it overlaps, with partially covered input bins
// contributing only the covered fraction of their width. This preserves the
// integrated flux inside every output bin, which point interpolation does not.
//
// Typical workflow:
//
//	old := resample.Linspace(3.5818, 3.9633, nWaves)
//	dst := resample.Linspace(3.5818+0.0005, 3.9633-0.0005, 512)
//	plan, err := resample.NewPlan(dst, old)
//	x, err := plan.Matrix(flux, rows, 0)
//
// The plan depends only on the two grids, so it is built once and reused for
// every spectrum sharing them.
//
// Output bins whose centre lies outside the input coverage are rejected with
// ErrOutOfRange; the resampler never extrapolates. Output bins that only
// overhang the coverage at their outer edge are clipped to it.
package resample
