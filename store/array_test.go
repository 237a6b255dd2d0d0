package store

import "testing"

func TestArray_Take(t *testing.T) {
	a := &Array[int64]{
		Data: []int64{
			1, 2, 3,
			4, 5, 6,
			7, 8, 9,
			10, 11, 12,
		},
		Dims: []int{4, 3},
	}

	got := a.Take([]int{3, 0, 2})
	if got.Rank() != 2 || got.Dims[0] != 3 || got.Dims[1] != 3 {
		t.Fatalf("unexpected dims %v", got.Dims)
	}
	want := []int64{10, 11, 12, 1, 2, 3, 7, 8, 9}
	for i := range want {
		if got.Data[i] != want[i] {
			t.Fatalf("index %d: expected %d, got %d", i, want[i], got.Data[i])
		}
	}

	got.Data[0] = -1
	if a.Data[9] != 10 {
		t.Fatalf("Take shares storage with the source array")
	}
}

func TestArray_VectorRows(t *testing.T) {
	a := &Array[float64]{Data: []float64{0.1, 0.2, 0.3}, Dims: []int{3}}
	if a.Rows() != 3 || a.RowLen() != 1 {
		t.Fatalf("unexpected rows=%d rowLen=%d", a.Rows(), a.RowLen())
	}
	if r := a.Row(2); len(r) != 1 || r[0] != 0.3 {
		t.Fatalf("unexpected row %v", r)
	}
	sub := a.Take([]int{1})
	if len(sub.Dims) != 1 || sub.Dims[0] != 1 || sub.Data[0] != 0.2 {
		t.Fatalf("unexpected subset %+v", sub)
	}
}
