// Package prep implements the one-time preparation of the quasar spectra
// file: flux resampling onto a fixed grid followed by a seeded
// train/validation/test split, all written back into the same store.
//
// Run reads id, flux, z_vi and z_pipe and adds
//
//	X                              [n, NFeatures] float32
//	id_tr  X_tr  z_vi_tr  z_pipe_tr
//	id_va  X_va  z_vi_va  z_pipe_va
//	id_te  X_te  z_vi_te  z_pipe_te
//
// The inputs are never modified. There is no rollback: a failure part way
// through leaves whatever was written so far.
package prep

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/quasarprep/datasets"
	"github.com/Noofbiz/quasarprep/resample"
	"github.com/Noofbiz/quasarprep/split"
	"github.com/Noofbiz/quasarprep/store"
)

var (
	// ErrConfig indicates invalid preprocessing parameters.
	ErrConfig = errors.New("prep: invalid config")
	// ErrOutputExists indicates the store already holds an output dataset.
	ErrOutputExists = errors.New("prep: output dataset already exists")
)

// Report summarizes a run.
type Report struct {
	Records   int
	NWaves    int
	NFeatures int
	// Clipped counts output bins clipped to the native grid coverage.
	Clipped int
	// FluxNarrowed is set when flux was stored as float64 and was narrowed
	// to float32 before resampling.
	FluxNarrowed bool
	Partition    *split.Partition
	Written      []string

	// Native and Output are the grids the flux was resampled between.
	Native []float64
	Output []float64
	// Sample is the first spectrum before and after resampling.
	Sample Sample

	LoadTime     time.Duration
	ResampleTime time.Duration
	WriteTime    time.Duration
}

// Sample is one spectrum on both grids.
type Sample struct {
	ID   []int64
	Flux []float32
	X    []float32
}

// OutputNames returns the names of every dataset Run writes, in write order.
func OutputNames() []string {
	names := []string{datasets.XName}
	for _, suffix := range []string{"tr", "va", "te"} {
		for _, base := range []string{datasets.IDName, datasets.XName, datasets.ZVIName, datasets.ZPipeName} {
			names = append(names, datasets.SplitName(base, suffix))
		}
	}
	return names
}

// Run prepares st in place.
func Run(st store.Store, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, name := range OutputNames() {
		if st.Has(name) {
			return nil, errors.Wrapf(ErrOutputExists, "%s", name)
		}
	}

	rep := &Report{NFeatures: cfg.NFeatures}

	start := time.Now()
	cat, err := datasets.LoadCatalog(st)
	if err != nil {
		return nil, errors.Wrap(err, "load inputs")
	}
	rep.Records = cat.Len()
	rep.NWaves = cat.NWaves()
	rep.LoadTime = time.Since(start)
	klog.Infof("[Load] %s spectra with %s wavelengths each (%s)",
		humanize.Comma(int64(rep.Records)), humanize.Comma(int64(rep.NWaves)), rep.LoadTime.Round(time.Millisecond))
	if cat.FluxKind == store.Float64 {
		rep.FluxNarrowed = true
		klog.Warningf("[Load] %s is stored as float64 and is resampled at float32 precision", datasets.FluxName)
	}

	// fail on the record count before spending time on resampling
	if _, err := split.Sizes(rep.Records, cfg.NVal, cfg.NTest); err != nil {
		return nil, errors.Wrap(err, "check split sizes")
	}

	start = time.Now()
	native, output := cfg.Grids(rep.NWaves)
	rep.Native, rep.Output = native, output
	plan, err := resample.NewPlan(output, native)
	if err != nil {
		return nil, errors.Wrap(err, "plan resampling")
	}
	rep.Clipped = plan.Clipped()
	if rep.Clipped > 0 {
		klog.Warningf("[Resample] %d output bins overhang the native grid and were clipped", rep.Clipped)
	}
	x, err := plan.Matrix(cat.Flux.Data, rep.Records, cfg.Workers)
	if err != nil {
		return nil, errors.Wrap(err, "resample flux")
	}
	X := &store.Array[float32]{Data: x, Dims: []int{rep.Records, cfg.NFeatures}}
	rep.ResampleTime = time.Since(start)
	rep.Sample = Sample{
		ID:   append([]int64(nil), cat.IDs.Row(0)...),
		Flux: append([]float32(nil), cat.Flux.Row(0)...),
		X:    append([]float32(nil), X.Row(0)...),
	}
	klog.Infof("[Resample] %s x %d -> %s x %d (%s)",
		humanize.Comma(int64(rep.Records)), rep.NWaves, humanize.Comma(int64(rep.Records)), cfg.NFeatures,
		rep.ResampleTime.Round(time.Millisecond))

	start = time.Now()
	if err := st.WriteFloat32(datasets.XName, X.Data, X.Dims); err != nil {
		return nil, errors.Wrap(err, "write features")
	}
	rep.Written = append(rep.Written, datasets.XName)

	part, err := split.New(rep.Records, cfg.NVal, cfg.NTest, cfg.Seed)
	if err != nil {
		return rep, errors.Wrap(err, "split")
	}
	rep.Partition = part
	klog.Infof("[Split] seed %d: train=%s validation=%s test=%s", part.Seed,
		humanize.Comma(int64(len(part.Train))), humanize.Comma(int64(len(part.Validation))),
		humanize.Comma(int64(len(part.Test))))

	for _, s := range part.Subsets() {
		names, err := writeSubset(st, cat, X, s)
		rep.Written = append(rep.Written, names...)
		if err != nil {
			return rep, errors.Wrapf(err, "write %s subset", s.Name)
		}
	}
	rep.WriteTime = time.Since(start)
	klog.Infof("[Write] %d datasets (%s)", len(rep.Written), rep.WriteTime.Round(time.Millisecond))

	return rep, nil
}

// writeSubset writes the per-subset copies of id, X, z_vi and z_pipe and
// returns the names written so far.
func writeSubset(st store.Writer, cat *datasets.Catalog, X *store.Array[float32], s split.Subset) ([]string, error) {
	var written []string

	ids := cat.IDs.Take(s.Indices)
	name := datasets.SplitName(datasets.IDName, s.Suffix)
	if err := st.WriteInt64(name, ids.Data, ids.Dims); err != nil {
		return written, err
	}
	written = append(written, name)

	xs := X.Take(s.Indices)
	name = datasets.SplitName(datasets.XName, s.Suffix)
	if err := st.WriteFloat32(name, xs.Data, xs.Dims); err != nil {
		return written, err
	}
	written = append(written, name)

	for _, z := range []struct {
		base string
		arr  *store.Array[float64]
	}{{datasets.ZVIName, cat.ZVI}, {datasets.ZPipeName, cat.ZPipe}} {
		sub := z.arr.Take(s.Indices)
		name = datasets.SplitName(z.base, s.Suffix)
		if err := st.WriteFloat64(name, sub.Data, sub.Dims); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}
