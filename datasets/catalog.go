package datasets

import (
	"errors"
	"fmt"

	"github.com/Noofbiz/quasarprep/store"
)

// ErrMalformed indicates an input dataset with the wrong rank, length or
// element type.
var ErrMalformed = errors.New("datasets: malformed input dataset")

// Catalog is the full set of input spectra, resident in memory.
type Catalog struct {
	IDs   *store.Array[int64]
	Flux  *store.Array[float32]
	ZVI   *store.Array[float64]
	ZPipe *store.Array[float64]

	// FluxKind is the element type flux had in the source. Flux is held as
	// float32 regardless.
	FluxKind store.Kind
}

// LoadCatalog reads id, flux, z_vi and z_pipe from src and checks that they
// describe the same n records.
func LoadCatalog(src store.Reader) (*Catalog, error) {
	for _, name := range []string{IDName, FluxName, ZVIName, ZPipeName} {
		if !src.Has(name) {
			return nil, fmt.Errorf("required dataset %q: %w", name, store.ErrMissingDataset)
		}
	}

	idKind, err := src.Kind(IDName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", IDName, err)
	}
	if !idKind.IsInteger() {
		return nil, fmt.Errorf("%w: %s is %s, want an integer type", ErrMalformed, IDName, idKind)
	}
	fluxKind, err := src.Kind(FluxName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", FluxName, err)
	}

	ids, err := src.ReadInt64(IDName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", IDName, err)
	}
	flux, err := src.ReadFloat32(FluxName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FluxName, err)
	}
	zvi, err := src.ReadFloat64(ZVIName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ZVIName, err)
	}
	zpipe, err := src.ReadFloat64(ZPipeName)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ZPipeName, err)
	}

	c := &Catalog{IDs: ids, Flux: flux, ZVI: zvi, ZPipe: zpipe, FluxKind: fluxKind}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	if c.IDs.Rank() < 1 {
		return fmt.Errorf("%w: %s is a scalar", ErrMalformed, IDName)
	}
	if c.Flux.Rank() != 2 {
		return fmt.Errorf("%w: %s has shape %v, want [n, n_waves]", ErrMalformed, FluxName, c.Flux.Dims)
	}
	if c.Flux.Dims[1] < 2 {
		return fmt.Errorf("%w: %s has %d wavelengths, need at least 2", ErrMalformed, FluxName, c.Flux.Dims[1])
	}

	n := c.IDs.Rows()
	for _, z := range []struct {
		name string
		arr  *store.Array[float64]
	}{{ZVIName, c.ZVI}, {ZPipeName, c.ZPipe}} {
		switch {
		case z.arr.Rank() == 1:
		case z.arr.Rank() == 2 && z.arr.Dims[1] == 1:
		default:
			return fmt.Errorf("%w: %s has shape %v, want [n]", ErrMalformed, z.name, z.arr.Dims)
		}
		if z.arr.Rows() != n {
			return fmt.Errorf("%w: %s has %d rows, %s has %d", ErrMalformed, z.name, z.arr.Rows(), IDName, n)
		}
	}
	if c.Flux.Rows() != n {
		return fmt.Errorf("%w: %s has %d rows, %s has %d", ErrMalformed, FluxName, c.Flux.Rows(), IDName, n)
	}
	return nil
}

// Len returns the number of records.
func (c *Catalog) Len() int { return c.IDs.Rows() }

// NWaves returns the number of flux samples per spectrum.
func (c *Catalog) NWaves() int { return c.Flux.Dims[1] }
