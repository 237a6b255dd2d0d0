// Package store reads and writes named numeric arrays in an array store.
//
// File keeps the arrays in an HDF5 file. Memory keeps them in process and can
// sit on top of another store, reading through to it while keeping every
// write to itself; the prep command uses that for dry runs.
//
// Arrays are written once: writing a name that already exists fails with
// ErrExists.
package store

import "github.com/pkg/errors"

var (
	// ErrMissingDataset indicates a dataset name not present in the store.
	ErrMissingDataset = errors.New("store: missing dataset")
	// ErrExists indicates a write to a dataset name that already exists.
	ErrExists = errors.New("store: dataset already exists")
	// ErrShape indicates data whose length does not match its dimensions.
	ErrShape = errors.New("store: data does not match dimensions")
	// ErrUnsupportedType indicates an on-disk element type that is not a
	// native integer or floating point type.
	ErrUnsupportedType = errors.New("store: unsupported element type")
	// ErrRange indicates a stored value that does not fit the requested type.
	ErrRange = errors.New("store: value out of range")
	// ErrReadOnly indicates a write to a store opened for reading only.
	ErrReadOnly = errors.New("store: opened read-only")
)

// Reader gives read access to named arrays. Every numeric element type can be
// read as any of the Go element types; values are converted.
type Reader interface {
	Has(name string) bool
	Shape(name string) ([]int, error)
	Kind(name string) (Kind, error)
	ReadFloat32(name string) (*Array[float32], error)
	ReadFloat64(name string) (*Array[float64], error)
	ReadInt64(name string) (*Array[int64], error)
}

// Writer creates new named arrays.
type Writer interface {
	WriteFloat32(name string, data []float32, dims []int) error
	WriteFloat64(name string, data []float64, dims []int) error
	WriteInt64(name string, data []int64, dims []int) error
}

// Store is a Reader that can also write.
type Store interface {
	Reader
	Writer
}

func checkDims(name string, n int, dims []int) error {
	want := 1
	for _, d := range dims {
		if d < 0 {
			return errors.Wrapf(ErrShape, "%s: negative dimension in %v", name, dims)
		}
		want *= d
	}
	if want != n {
		return errors.Wrapf(ErrShape, "%s: %d values for dims %v", name, n, dims)
	}
	return nil
}
