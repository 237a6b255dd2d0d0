package store

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// entry is a stored array of one of the writable element types.
type entry struct {
	f32  []float32
	f64  []float64
	i64  []int64
	dims []int
}

// Memory is an in-process store. When created with a base store, reads of
// names it does not hold itself go to the base, and writes never reach it.
// Memory is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	base    Reader
	entries map[string]entry
}

// NewMemory returns a Memory store layered over base (nil for none).
func NewMemory(base Reader) *Memory {
	return &Memory{base: base, entries: make(map[string]entry)}
}

// Names returns the names written to this store, sorted. Names only present
// in the base store are not included.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Memory) lookup(name string) (entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[name]
	return e, ok
}

// Has reports whether name exists here or in the base store.
func (m *Memory) Has(name string) bool {
	if _, ok := m.lookup(name); ok {
		return true
	}
	return m.base != nil && m.base.Has(name)
}

// Shape returns the dimensions of name.
func (m *Memory) Shape(name string) ([]int, error) {
	if e, ok := m.lookup(name); ok {
		return append([]int(nil), e.dims...), nil
	}
	if m.base != nil {
		return m.base.Shape(name)
	}
	return nil, errors.Wrap(ErrMissingDataset, name)
}

// Kind returns the element type name was written with.
func (m *Memory) Kind(name string) (Kind, error) {
	if e, ok := m.lookup(name); ok {
		switch {
		case e.f32 != nil:
			return Float32, nil
		case e.f64 != nil:
			return Float64, nil
		default:
			return Int64, nil
		}
	}
	if m.base != nil {
		return m.base.Kind(name)
	}
	return KindUnknown, errors.Wrap(ErrMissingDataset, name)
}

// ReadFloat32 reads name as float32.
func (m *Memory) ReadFloat32(name string) (*Array[float32], error) {
	if e, ok := m.lookup(name); ok {
		return entryArray[float32](e), nil
	}
	if m.base != nil {
		return m.base.ReadFloat32(name)
	}
	return nil, errors.Wrap(ErrMissingDataset, name)
}

// ReadFloat64 reads name as float64.
func (m *Memory) ReadFloat64(name string) (*Array[float64], error) {
	if e, ok := m.lookup(name); ok {
		return entryArray[float64](e), nil
	}
	if m.base != nil {
		return m.base.ReadFloat64(name)
	}
	return nil, errors.Wrap(ErrMissingDataset, name)
}

// ReadInt64 reads name as int64.
func (m *Memory) ReadInt64(name string) (*Array[int64], error) {
	if e, ok := m.lookup(name); ok {
		return entryArray[int64](e), nil
	}
	if m.base != nil {
		return m.base.ReadInt64(name)
	}
	return nil, errors.Wrap(ErrMissingDataset, name)
}

func entryArray[D Number](e entry) *Array[D] {
	var data []D
	switch {
	case e.f32 != nil:
		data = convert[D](e.f32)
	case e.f64 != nil:
		data = convert[D](e.f64)
	default:
		data = convert[D](e.i64)
	}
	return &Array[D]{Data: data, Dims: append([]int(nil), e.dims...)}
}

func (m *Memory) put(name string, n int, dims []int, e entry) error {
	if err := checkDims(name, n, dims); err != nil {
		return err
	}
	if m.Has(name) {
		return errors.Wrap(ErrExists, name)
	}
	e.dims = append([]int(nil), dims...)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[name]; ok {
		return errors.Wrap(ErrExists, name)
	}
	m.entries[name] = e
	return nil
}

// WriteFloat32 stores a copy of data under name.
func (m *Memory) WriteFloat32(name string, data []float32, dims []int) error {
	return m.put(name, len(data), dims, entry{f32: append(make([]float32, 0, len(data)), data...)})
}

// WriteFloat64 stores a copy of data under name.
func (m *Memory) WriteFloat64(name string, data []float64, dims []int) error {
	return m.put(name, len(data), dims, entry{f64: append(make([]float64, 0, len(data)), data...)})
}

// WriteInt64 stores a copy of data under name.
func (m *Memory) WriteInt64(name string, data []int64, dims []int) error {
	return m.put(name, len(data), dims, entry{i64: append(make([]int64, 0, len(data)), data...)})
}
