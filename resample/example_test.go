package resample_test

import (
	"fmt"

	"github.com/Noofbiz/quasarprep/resample"
)

func ExampleResample() {
	old := resample.Linspace(0, 9, 10)
	flux := []float64{1, 3, 2, 2, 10, 0, -4, 4, 5, 6}
	out, _ := resample.Resample([]float64{0.5, 2.5, 4.5, 6.5, 8.5}, old, flux)
	fmt.Printf("%.2f\n", out)
	// Output:
	// [2.00 2.00 5.00 0.00 5.50]
}
