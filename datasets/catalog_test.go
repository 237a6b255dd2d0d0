package datasets

import (
	"errors"
	"math"
	"testing"

	"github.com/Noofbiz/quasarprep/store"
)

// writeCatalog fills a memory store with n records of nWaves flux samples.
func writeCatalog(t *testing.T, m *store.Memory, n, nWaves int) {
	t.Helper()
	ids := make([]int64, 0, n*3)
	flux := make([]float32, 0, n*nWaves)
	zvi := make([]float64, n)
	zpipe := make([]float64, n)
	for i := range n {
		ids = append(ids, int64(3000+i), int64(55000+i), int64(i%1000))
		for w := range nWaves {
			flux = append(flux, float32(i)+float32(w)/10)
		}
		zvi[i] = 0.5 + float64(i)/100
		zpipe[i] = 0.6 + float64(i)/100
	}
	if err := m.WriteInt64(IDName, ids, []int{n, 3}); err != nil {
		t.Fatalf("failed to write ids: %v", err)
	}
	if err := m.WriteFloat32(FluxName, flux, []int{n, nWaves}); err != nil {
		t.Fatalf("failed to write flux: %v", err)
	}
	if err := m.WriteFloat64(ZVIName, zvi, []int{n}); err != nil {
		t.Fatalf("failed to write z_vi: %v", err)
	}
	if err := m.WriteFloat64(ZPipeName, zpipe, []int{n}); err != nil {
		t.Fatalf("failed to write z_pipe: %v", err)
	}
}

func TestLoadCatalog(t *testing.T) {
	m := store.NewMemory(nil)
	writeCatalog(t, m, 5, 8)

	c, err := LoadCatalog(m)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if c.Len() != 5 || c.NWaves() != 8 {
		t.Fatalf("expected 5 records of 8 waves, got %d of %d", c.Len(), c.NWaves())
	}
	if got := c.IDs.Row(2); got[0] != 3002 || got[1] != 55002 || got[2] != 2 {
		t.Fatalf("unexpected id row 2: %v", got)
	}
	if math.Abs(c.ZVI.Data[4]-0.54) > 1e-12 {
		t.Fatalf("unexpected z_vi[4]: %v", c.ZVI.Data[4])
	}
}

func TestLoadCatalog_MissingDataset(t *testing.T) {
	m := store.NewMemory(nil)
	if err := m.WriteInt64(IDName, []int64{1, 2}, []int{2}); err != nil {
		t.Fatalf("failed to write ids: %v", err)
	}
	_, err := LoadCatalog(m)
	if !errors.Is(err, store.ErrMissingDataset) {
		t.Fatalf("expected ErrMissingDataset, got %v", err)
	}
}

func TestLoadCatalog_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		write func(m *store.Memory) error
	}{
		{"flux rank 1", func(m *store.Memory) error {
			return m.WriteFloat32(FluxName, []float32{1, 2, 3}, []int{3})
		}},
		{"flux too narrow", func(m *store.Memory) error {
			return m.WriteFloat32(FluxName, []float32{1, 2, 3}, []int{3, 1})
		}},
		{"flux row mismatch", func(m *store.Memory) error {
			return m.WriteFloat32(FluxName, make([]float32, 8), []int{2, 4})
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := store.NewMemory(nil)
			if err := m.WriteInt64(IDName, []int64{1, 2, 3}, []int{3}); err != nil {
				t.Fatalf("failed to write ids: %v", err)
			}
			if err := m.WriteFloat64(ZVIName, []float64{1, 2, 3}, []int{3}); err != nil {
				t.Fatalf("failed to write z_vi: %v", err)
			}
			if err := m.WriteFloat64(ZPipeName, []float64{1, 2, 3}, []int{3, 1}); err != nil {
				t.Fatalf("failed to write z_pipe: %v", err)
			}
			if err := tc.write(m); err != nil {
				t.Fatalf("failed to write flux: %v", err)
			}
			if _, err := LoadCatalog(m); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestLoadCatalog_RedshiftLengthMismatch(t *testing.T) {
	m := store.NewMemory(nil)
	if err := m.WriteInt64(IDName, []int64{1, 2}, []int{2}); err != nil {
		t.Fatalf("failed to write ids: %v", err)
	}
	if err := m.WriteFloat32(FluxName, make([]float32, 6), []int{2, 3}); err != nil {
		t.Fatalf("failed to write flux: %v", err)
	}
	if err := m.WriteFloat64(ZVIName, []float64{1, 2, 3}, []int{3}); err != nil {
		t.Fatalf("failed to write z_vi: %v", err)
	}
	if err := m.WriteFloat64(ZPipeName, []float64{1, 2}, []int{2}); err != nil {
		t.Fatalf("failed to write z_pipe: %v", err)
	}
	if _, err := LoadCatalog(m); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestLoadCatalog_FloatIDs(t *testing.T) {
	m := store.NewMemory(nil)
	if err := m.WriteFloat64(IDName, []float64{1.5, 2.5}, []int{2}); err != nil {
		t.Fatalf("failed to write ids: %v", err)
	}
	if err := m.WriteFloat32(FluxName, make([]float32, 6), []int{2, 3}); err != nil {
		t.Fatalf("failed to write flux: %v", err)
	}
	if err := m.WriteFloat64(ZVIName, []float64{1, 2}, []int{2}); err != nil {
		t.Fatalf("failed to write z_vi: %v", err)
	}
	if err := m.WriteFloat64(ZPipeName, []float64{1, 2}, []int{2}); err != nil {
		t.Fatalf("failed to write z_pipe: %v", err)
	}
	if _, err := LoadCatalog(m); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for float ids, got %v", err)
	}
}

func TestLoadCatalog_FluxKind(t *testing.T) {
	m := store.NewMemory(nil)
	writeCatalog(t, m, 3, 4)
	c, err := LoadCatalog(m)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if c.FluxKind != store.Float32 {
		t.Fatalf("expected flux kind float32, got %s", c.FluxKind)
	}

	m = store.NewMemory(nil)
	if err := m.WriteInt64(IDName, []int64{1, 2}, []int{2}); err != nil {
		t.Fatalf("failed to write ids: %v", err)
	}
	if err := m.WriteFloat64(FluxName, []float64{1, 2, 3, 4, 5, 6}, []int{2, 3}); err != nil {
		t.Fatalf("failed to write flux: %v", err)
	}
	if err := m.WriteFloat64(ZVIName, []float64{1, 2}, []int{2}); err != nil {
		t.Fatalf("failed to write z_vi: %v", err)
	}
	if err := m.WriteFloat64(ZPipeName, []float64{1, 2}, []int{2}); err != nil {
		t.Fatalf("failed to write z_pipe: %v", err)
	}
	c, err = LoadCatalog(m)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if c.FluxKind != store.Float64 || c.Flux.Data[5] != 6 {
		t.Fatalf("expected float64 flux read as float32, got %s %v", c.FluxKind, c.Flux.Data)
	}
}
