package store

import (
	"github.com/pkg/errors"
	"gonum.org/v1/hdf5"
)

// File is an HDF5 file opened for reading and writing.
type File struct {
	path     string
	f        *hdf5.File
	readOnly bool
}

// Open opens an existing HDF5 file read+write. A missing or read-only file
// fails here rather than at the first write.
func Open(path string) (*File, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDWR)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s read+write", path)
	}
	return &File{path: path, f: f}, nil
}

// OpenReadOnly opens an existing HDF5 file for reading. Writes to it fail.
func OpenReadOnly(path string) (*File, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s read-only", path)
	}
	return &File{path: path, f: f, readOnly: true}, nil
}

// Create creates an HDF5 file, truncating any existing one.
func Create(path string) (*File, error) {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	return &File{path: path, f: f}, nil
}

// Path returns the file path.
func (f *File) Path() string { return f.path }

// Close flushes and closes the file.
func (f *File) Close() error {
	if err := f.f.Close(); err != nil {
		return errors.Wrapf(err, "close %s", f.path)
	}
	return nil
}

// Has reports whether a dataset with the given name exists.
func (f *File) Has(name string) bool {
	return f.f.LinkExists(name)
}

func (f *File) openDataset(name string) (*hdf5.Dataset, error) {
	if !f.Has(name) {
		return nil, errors.Wrapf(ErrMissingDataset, "%s in %s", name, f.path)
	}
	ds, err := f.f.OpenDataset(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", name)
	}
	return ds, nil
}

func datasetDims(ds *hdf5.Dataset) ([]int, int, error) {
	space := ds.Space()
	defer space.Close()
	udims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, 0, err
	}
	dims := make([]int, len(udims))
	n := 1
	for i, d := range udims {
		dims[i] = int(d)
		n *= int(d)
	}
	return dims, n, nil
}

// Shape returns the dimensions of a dataset.
func (f *File) Shape(name string) ([]int, error) {
	ds, err := f.openDataset(name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	dims, _, err := datasetDims(ds)
	if err != nil {
		return nil, errors.Wrapf(err, "shape of %s", name)
	}
	return dims, nil
}

// ReadFloat32 reads a numeric dataset as float32.
func (f *File) ReadFloat32(name string) (*Array[float32], error) {
	return readArray[float32](f, name)
}

// ReadFloat64 reads a numeric dataset as float64.
func (f *File) ReadFloat64(name string) (*Array[float64], error) {
	return readArray[float64](f, name)
}

// ReadInt64 reads a numeric dataset as int64. Floating point values are
// truncated toward zero and uint64 values above the int64 range fail with
// ErrRange. Check Kind first where truncation matters.
func (f *File) ReadInt64(name string) (*Array[int64], error) {
	return readArray[int64](f, name)
}

// nativeKinds maps the native in-memory HDF5 types to element kinds. A file
// type matches when HDF5 considers it equal to one of them, which includes
// byte order; anything else is unsupported.
var nativeKinds = []struct {
	dtype *hdf5.Datatype
	kind  Kind
}{
	{hdf5.T_NATIVE_FLOAT, Float32},
	{hdf5.T_NATIVE_DOUBLE, Float64},
	{hdf5.T_NATIVE_INT8, Int8},
	{hdf5.T_NATIVE_INT16, Int16},
	{hdf5.T_NATIVE_INT32, Int32},
	{hdf5.T_NATIVE_INT64, Int64},
	{hdf5.T_NATIVE_UINT8, Uint8},
	{hdf5.T_NATIVE_UINT16, Uint16},
	{hdf5.T_NATIVE_UINT32, Uint32},
	{hdf5.T_NATIVE_UINT64, Uint64},
}

func datasetKind(ds *hdf5.Dataset) (Kind, error) {
	dtype, err := ds.Datatype()
	if err != nil {
		return KindUnknown, err
	}
	defer dtype.Close()
	for _, nk := range nativeKinds {
		if dtype.Equal(nk.dtype) {
			return nk.kind, nil
		}
	}
	return KindUnknown, errors.Wrapf(ErrUnsupportedType, "class %v size %d", dtype.Class(), dtype.Size())
}

// Kind returns the element type of a dataset.
func (f *File) Kind(name string) (Kind, error) {
	ds, err := f.openDataset(name)
	if err != nil {
		return KindUnknown, err
	}
	defer ds.Close()

	k, err := datasetKind(ds)
	if err != nil {
		return KindUnknown, errors.Wrapf(err, "datatype of %s", name)
	}
	return k, nil
}

func readArray[D Number](f *File, name string) (*Array[D], error) {
	ds, err := f.openDataset(name)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	dims, n, err := datasetDims(ds)
	if err != nil {
		return nil, errors.Wrapf(err, "shape of %s", name)
	}
	kind, err := datasetKind(ds)
	if err != nil {
		return nil, errors.Wrapf(err, "datatype of %s", name)
	}

	// the buffer type must match the file type exactly: Read copies with the
	// dataset's own datatype
	var data []D
	switch kind {
	case Float32:
		data, err = readConvert[D, float32](ds, n)
	case Float64:
		data, err = readConvert[D, float64](ds, n)
	case Int8:
		data, err = readConvert[D, int8](ds, n)
	case Int16:
		data, err = readConvert[D, int16](ds, n)
	case Int32:
		data, err = readConvert[D, int32](ds, n)
	case Int64:
		data, err = readConvert[D, int64](ds, n)
	case Uint8:
		data, err = readConvert[D, uint8](ds, n)
	case Uint16:
		data, err = readConvert[D, uint16](ds, n)
	case Uint32:
		data, err = readConvert[D, uint32](ds, n)
	case Uint64:
		data, err = readConvert[D, uint64](ds, n)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return &Array[D]{Data: data, Dims: dims}, nil
}

// readConvert reads n elements stored as S and converts them to D.
func readConvert[D, S Number](ds *hdf5.Dataset, n int) ([]D, error) {
	if n == 0 {
		return []D{}, nil
	}
	buf := make([]S, n)
	if err := ds.Read(&buf); err != nil {
		return nil, err
	}
	if out, ok := any(buf).([]D); ok {
		return out, nil
	}
	if err := checkRange[D](buf); err != nil {
		return nil, err
	}
	return convert[D](buf), nil
}

// WriteFloat32 creates a float32 dataset.
func (f *File) WriteFloat32(name string, data []float32, dims []int) error {
	return writeArray(f, name, hdf5.T_NATIVE_FLOAT, data, dims)
}

// WriteFloat64 creates a float64 dataset.
func (f *File) WriteFloat64(name string, data []float64, dims []int) error {
	return writeArray(f, name, hdf5.T_NATIVE_DOUBLE, data, dims)
}

// WriteInt64 creates an int64 dataset.
func (f *File) WriteInt64(name string, data []int64, dims []int) error {
	return writeArray(f, name, hdf5.T_NATIVE_INT64, data, dims)
}

func writeArray[T Number](f *File, name string, dtype *hdf5.Datatype, data []T, dims []int) error {
	if f.readOnly {
		return errors.Wrapf(ErrReadOnly, "%s in %s", name, f.path)
	}
	if f.Has(name) {
		return errors.Wrapf(ErrExists, "%s in %s", name, f.path)
	}
	if err := checkDims(name, len(data), dims); err != nil {
		return err
	}

	udims := make([]uint, len(dims))
	for i, d := range dims {
		udims[i] = uint(d)
	}
	space, err := hdf5.CreateSimpleDataspace(udims, nil)
	if err != nil {
		return errors.Wrapf(err, "dataspace for %s", name)
	}
	defer space.Close()

	ds, err := f.f.CreateDataset(name, dtype, space)
	if err != nil {
		return errors.Wrapf(err, "create dataset %s", name)
	}
	defer ds.Close()

	if len(data) == 0 {
		return nil
	}
	if err := ds.Write(&data); err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	return nil
}
