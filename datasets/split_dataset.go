package datasets

import (
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/Noofbiz/quasarprep/split"
	"github.com/Noofbiz/quasarprep/store"
)

var _ Dataset = (*SplitDataset)(nil)

// SplitDataset serves one written subset (train, validation or test) as
// examples for a training loop. The subset is read into memory once.
type SplitDataset struct {
	// Suffix of the subset datasets ("tr", "va" or "te").
	Suffix string

	// BatchSize for yielding batches
	BatchSize int

	x     *store.Array[float32]
	zvi   *store.Array[float64]
	zpipe *store.Array[float64]

	// order is the yield order; pos the next position in it
	order []int
	pos   int
}

// NewSplitDataset reads X_<suffix>, z_vi_<suffix> and z_pipe_<suffix>.
func NewSplitDataset(src store.Reader, suffix string) (*SplitDataset, error) {
	x, err := src.ReadFloat32(SplitName(XName, suffix))
	if err != nil {
		return nil, fmt.Errorf("failed to read features for %q: %w", suffix, err)
	}
	zvi, err := src.ReadFloat64(SplitName(ZVIName, suffix))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s labels for %q: %w", ZVIName, suffix, err)
	}
	zpipe, err := src.ReadFloat64(SplitName(ZPipeName, suffix))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s labels for %q: %w", ZPipeName, suffix, err)
	}

	if x.Rank() != 2 {
		return nil, fmt.Errorf("%w: %s has shape %v", ErrMalformed, SplitName(XName, suffix), x.Dims)
	}
	n := x.Rows()
	if zvi.Rows() != n || zpipe.Rows() != n || zvi.RowLen() != 1 || zpipe.RowLen() != 1 {
		return nil, fmt.Errorf("%w: subset %q has %d feature rows but labels %v and %v",
			ErrMalformed, suffix, n, zvi.Dims, zpipe.Dims)
	}

	ds := &SplitDataset{
		Suffix:    suffix,
		BatchSize: 32,
		x:         x,
		zvi:       zvi,
		zpipe:     zpipe,
		order:     make([]int, n),
	}
	for i := range ds.order {
		ds.order[i] = i
	}
	return ds, nil
}

// Len returns the number of examples in the subset.
func (d *SplitDataset) Len() int { return d.x.Rows() }

// Features returns the number of inputs per example.
func (d *SplitDataset) Features() int { return d.x.RowLen() }

// Example returns the features and [z_vi, z_pipe] labels of one example.
func (d *SplitDataset) Example(idx int) (inputs []float32, labels []float32, err error) {
	if idx < 0 || idx >= d.Len() {
		return nil, nil, fmt.Errorf("index %d out of range [0, %d)", idx, d.Len())
	}
	inputs = make([]float32, d.Features())
	copy(inputs, d.x.Row(idx))
	labels = []float32{float32(d.zvi.Data[idx]), float32(d.zpipe.Data[idx])}
	return inputs, labels, nil
}

// Batch reads multiple examples by their indices
func (d *SplitDataset) Batch(indices []int) ([][]float32, [][]float32, error) {
	inputs := make([][]float32, len(indices))
	labels := make([][]float32, len(indices))
	for i, idx := range indices {
		in, la, err := d.Example(idx)
		if err != nil {
			return nil, nil, err
		}
		inputs[i] = in
		labels[i] = la
	}
	return inputs, labels, nil
}

// Shuffle reorders the examples yielded by Yield and restarts the epoch.
// The same seed always produces the same order.
func (d *SplitDataset) Shuffle(seed int64) {
	for i := range d.order {
		d.order[i] = i
	}
	split.NewGenerator(uint64(seed)).Shuffle(d.order)
	d.pos = 0
}

// Tensors returns a batch as gomlx tensors.
func (d *SplitDataset) Tensors(indices []int) (inputs *tensors.Tensor, labels *tensors.Tensor, err error) {
	in, la, err := d.Batch(indices)
	if err != nil {
		return nil, nil, err
	}
	flat, err := MakeBatchFlat(in, la)
	if err != nil {
		return nil, nil, err
	}
	return flat.ToGomlxTensors()
}

// Name implements gomlx's train.Dataset.
func (d *SplitDataset) Name() string {
	return "spectra_" + d.Suffix
}

// Yield returns the next batch in the current order. At the end of the epoch
// it returns io.EOF; call Reset to start over.
func (d *SplitDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.pos >= len(d.order) {
		return nil, nil, nil, io.EOF
	}
	batchSize := d.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}
	end := min(d.pos+batchSize, len(d.order))
	in, la, err := d.Tensors(d.order[d.pos:end])
	if err != nil {
		return nil, nil, nil, err
	}
	d.pos = end
	return d, []*tensors.Tensor{in}, []*tensors.Tensor{la}, nil
}

// Reset restarts the epoch without changing the order.
func (d *SplitDataset) Reset() {
	d.pos = 0
}

// BatchFlat stores a batch in contiguous row-major buffers.
type BatchFlat struct {
	Inputs    []float32
	Labels    []float32
	BatchSize int
	InputDim  int
	LabelDim  int
}

// MakeBatchFlat packs per-example slices into contiguous buffers. All inputs
// must share one length, as must all labels.
func MakeBatchFlat(inputs, labels [][]float32) (*BatchFlat, error) {
	if len(inputs) != len(labels) {
		return nil, fmt.Errorf("inputs and labels differ in length: %d vs %d", len(inputs), len(labels))
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("empty batch")
	}

	b := &BatchFlat{
		BatchSize: len(inputs),
		InputDim:  len(inputs[0]),
		LabelDim:  len(labels[0]),
	}
	b.Inputs = make([]float32, 0, b.BatchSize*b.InputDim)
	b.Labels = make([]float32, 0, b.BatchSize*b.LabelDim)
	for i := range inputs {
		if len(inputs[i]) != b.InputDim || len(labels[i]) != b.LabelDim {
			return nil, fmt.Errorf("example %d has shape (%d, %d), want (%d, %d)",
				i, len(inputs[i]), len(labels[i]), b.InputDim, b.LabelDim)
		}
		b.Inputs = append(b.Inputs, inputs[i]...)
		b.Labels = append(b.Labels, labels[i]...)
	}
	return b, nil
}

// ToGomlxTensors converts the batch to [BatchSize, InputDim] and
// [BatchSize, LabelDim] gomlx tensors.
func (b *BatchFlat) ToGomlxTensors() (*tensors.Tensor, *tensors.Tensor, error) {
	if b.BatchSize == 0 {
		return nil, nil, fmt.Errorf("empty batch")
	}
	inputs := make([][]float32, b.BatchSize)
	labels := make([][]float32, b.BatchSize)
	for i := 0; i < b.BatchSize; i++ {
		inputs[i] = b.Inputs[i*b.InputDim : (i+1)*b.InputDim]
		labels[i] = b.Labels[i*b.LabelDim : (i+1)*b.LabelDim]
	}
	return tensors.FromAnyValue(inputs), tensors.FromAnyValue(labels), nil
}
