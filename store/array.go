package store

import (
	"math"

	"github.com/pkg/errors"
)

// Number is the set of element types arrays are read and written as.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Array is a dense row-major n-dimensional array.
type Array[T Number] struct {
	Data []T
	Dims []int
}

// Rank returns the number of dimensions.
func (a *Array[T]) Rank() int { return len(a.Dims) }

// Rows returns the size of the first dimension (1 for a scalar).
func (a *Array[T]) Rows() int {
	if len(a.Dims) == 0 {
		return 1
	}
	return a.Dims[0]
}

// RowLen returns the number of elements per row.
func (a *Array[T]) RowLen() int {
	n := 1
	for _, d := range a.Dims[min(1, len(a.Dims)):] {
		n *= d
	}
	return n
}

// Row returns row i as a sub-slice of Data.
func (a *Array[T]) Row(i int) []T {
	k := a.RowLen()
	return a.Data[i*k : (i+1)*k]
}

// Take returns a new array with the given rows, in index order. Trailing
// dimensions are carried over unchanged.
func (a *Array[T]) Take(indices []int) *Array[T] {
	k := a.RowLen()
	out := &Array[T]{
		Data: make([]T, len(indices)*k),
		Dims: append([]int{len(indices)}, a.Dims[min(1, len(a.Dims)):]...),
	}
	for i, idx := range indices {
		copy(out.Data[i*k:(i+1)*k], a.Data[idx*k:(idx+1)*k])
	}
	return out
}

func convert[D, S Number](src []S) []D {
	out := make([]D, len(src))
	for i, v := range src {
		out[i] = D(v)
	}
	return out
}

// checkRange fails when converting src to D would wrap, which only happens
// for uint64 values above the int64 range.
func checkRange[D, S Number](src []S) error {
	var d D
	if _, ok := any(d).(int64); !ok {
		return nil
	}
	u, ok := any(src).([]uint64)
	if !ok {
		return nil
	}
	for i, v := range u {
		if v > math.MaxInt64 {
			return errors.Wrapf(ErrRange, "element %d is %d", i, v)
		}
	}
	return nil
}
