package prep

import (
	"fmt"
	"math"

	"github.com/Noofbiz/quasarprep/resample"
)

// Defaults of the DR12Q superset preparation.
const (
	DefaultLogLamMin = 3.5818
	DefaultLogLamMax = 3.9633
	DefaultNFeatures = 512
	// DefaultEps insets the output grid so no output bin reaches past the
	// input coverage.
	DefaultEps   = 0.0005
	DefaultNVal  = 50000
	DefaultNTest = 50000
	// DefaultSeed was drawn from random.org.
	DefaultSeed = 66
)

// Config holds the preprocessing parameters.
type Config struct {
	// LogLamMin and LogLamMax bound the log10-wavelength grid the flux is
	// sampled on.
	LogLamMin float64 `json:"loglam_min"`
	LogLamMax float64 `json:"loglam_max"`

	// NFeatures is the number of points of the output grid.
	NFeatures int `json:"n_features"`

	// Eps is the inset of the output grid on both ends.
	Eps float64 `json:"eps"`

	// NVal and NTest are the validation and test subset sizes; the training
	// subset gets the rest.
	NVal  int `json:"n_val"`
	NTest int `json:"n_test"`

	// Seed selects the permutation used for the split.
	Seed uint64 `json:"seed"`

	// Workers for resampling (0 = NumCPU). Does not affect results.
	Workers int `json:"workers"`
}

// DefaultConfig returns the parameters used for the published split.
func DefaultConfig() Config {
	return Config{
		LogLamMin: DefaultLogLamMin,
		LogLamMax: DefaultLogLamMax,
		NFeatures: DefaultNFeatures,
		Eps:       DefaultEps,
		NVal:      DefaultNVal,
		NTest:     DefaultNTest,
		Seed:      DefaultSeed,
	}
}

// Validate checks the parameters independently of any input data.
func (c Config) Validate() error {
	for name, v := range map[string]float64{"loglam_min": c.LogLamMin, "loglam_max": c.LogLamMax, "eps": c.Eps} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrConfig, name, v)
		}
	}
	switch {
	case c.LogLamMin >= c.LogLamMax:
		return fmt.Errorf("%w: loglam_min %v must be below loglam_max %v", ErrConfig, c.LogLamMin, c.LogLamMax)
	case c.NFeatures < 2:
		return fmt.Errorf("%w: n_features must be at least 2, got %d", ErrConfig, c.NFeatures)
	case c.Eps < 0:
		return fmt.Errorf("%w: eps must not be negative, got %v", ErrConfig, c.Eps)
	case c.LogLamMin+c.Eps >= c.LogLamMax-c.Eps:
		return fmt.Errorf("%w: eps %v leaves no room in [%v, %v]", ErrConfig, c.Eps, c.LogLamMin, c.LogLamMax)
	case c.NVal < 0 || c.NTest < 0:
		return fmt.Errorf("%w: n_val and n_test must not be negative, got %d and %d", ErrConfig, c.NVal, c.NTest)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrConfig, c.Workers)
	}
	return nil
}

// Grids returns the native grid of nWaves points and the output grid.
func (c Config) Grids(nWaves int) (native, output []float64) {
	native = resample.Linspace(c.LogLamMin, c.LogLamMax, nWaves)
	output = resample.Linspace(c.LogLamMin+c.Eps, c.LogLamMax-c.Eps, c.NFeatures)
	return native, output
}
