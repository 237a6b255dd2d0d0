// Package datasets loads quasar spectra from an array store.
//
// Catalog holds the raw survey columns read by the preprocessing step:
//
//	id      [n, ...]       opaque identifier, carried through unchanged
//	flux    [n, nWaves]    flux on a uniform log-wavelength grid
//	z_vi    [n]            visual inspection redshift
//	z_pipe  [n]            pipeline redshift
//
// SplitDataset reads one of the subsets written by the preprocessing step
// (X_tr, z_vi_tr, z_pipe_tr and so on) and serves it as examples and gomlx
// tensor batches for training code:
//
//   - inputs per example: the NFeatures resampled flux values (float32)
//   - labels per example: z_vi, z_pipe (float32 vector length 2)
package datasets

import "github.com/gomlx/gomlx/pkg/core/tensors"

// Dataset is the interface training loops consume. SplitDataset implements it.
type Dataset interface {
	Len() int
	Example(i int) (inputs []float32, labels []float32, err error)
	Batch(indices []int) (inputs [][]float32, labels [][]float32, err error)
	Shuffle(seed int64)

	// To implement gomlx's train.Dataset interface
	Yield() (any, []*tensors.Tensor, []*tensors.Tensor, error)
}

// Dataset names in the store.
const (
	IDName    = "id"
	FluxName  = "flux"
	ZVIName   = "z_vi"
	ZPipeName = "z_pipe"
	XName     = "X"
)

// SplitName returns the name of the per-subset copy of a dataset,
// e.g. SplitName("z_vi", "tr") == "z_vi_tr".
func SplitName(base, suffix string) string {
	return base + "_" + suffix
}
