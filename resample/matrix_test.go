package resample

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func randomSpectra(rows, cols int, seed int64) []float32 {
	rng := rand.New(rand.NewSource(seed))
	flux := make([]float32, rows*cols)
	for i := range flux {
		flux[i] = float32(rng.NormFloat64()*3 + 1)
	}
	return flux
}

func TestMatrix_ShapeAndFinite(t *testing.T) {
	const rows, cols = 37, 300
	p, err := NewPlan(Linspace(3.5818+0.0005, 3.9633-0.0005, 64), Linspace(3.5818, 3.9633, cols))
	if err != nil {
		t.Fatalf("NewPlan error: %v", err)
	}

	x, err := p.Matrix(randomSpectra(rows, cols, 1), rows, 3)
	if err != nil {
		t.Fatalf("Matrix error: %v", err)
	}
	if len(x) != rows*64 {
		t.Fatalf("expected %d values, got %d", rows*64, len(x))
	}
	for i, v := range x {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

func TestMatrix_WorkerCountDoesNotChangeResult(t *testing.T) {
	const rows, cols = 50, 120
	p, err := NewPlan(Linspace(0.1, 0.9, 16), Linspace(0, 1, cols))
	if err != nil {
		t.Fatalf("NewPlan error: %v", err)
	}
	flux := randomSpectra(rows, cols, 99)

	serial, err := p.Matrix(flux, rows, 1)
	if err != nil {
		t.Fatalf("Matrix(workers=1) error: %v", err)
	}
	parallel, err := p.Matrix(flux, rows, 8)
	if err != nil {
		t.Fatalf("Matrix(workers=8) error: %v", err)
	}
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("index %d differs: serial=%v parallel=%v", i, serial[i], parallel[i])
		}
	}

	// rows match the single-spectrum path
	row := make([]float64, cols)
	for i := range row {
		row[i] = float64(flux[5*cols+i])
	}
	want := make([]float64, 16)
	if err := p.Row(want, row); err != nil {
		t.Fatalf("Row error: %v", err)
	}
	for i := range want {
		if serial[5*16+i] != float32(want[i]) {
			t.Fatalf("row 5 index %d: expected %v, got %v", i, float32(want[i]), serial[5*16+i])
		}
	}
}

func TestMatrix_Errors(t *testing.T) {
	p, err := NewPlan(Linspace(0.1, 0.9, 4), Linspace(0, 1, 10))
	if err != nil {
		t.Fatalf("NewPlan error: %v", err)
	}

	if _, err := p.Matrix(make([]float32, 25), 3, 0); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}

	flux := make([]float32, 30)
	flux[24] = float32(math.Inf(1))
	if _, err := p.Matrix(flux, 3, 2); !errors.Is(err, ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", err)
	}

	x, err := p.Matrix(nil, 0, 0)
	if err != nil {
		t.Fatalf("Matrix on empty input error: %v", err)
	}
	if len(x) != 0 {
		t.Fatalf("expected empty output, got %d values", len(x))
	}
}
