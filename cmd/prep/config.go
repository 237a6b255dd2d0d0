package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/Noofbiz/quasarprep/prep"
)

// fileConfig mirrors the JSON config file. Pointer fields distinguish "not
// set" from zero so a partial file only overrides what it names.
type fileConfig struct {
	Prep *struct {
		LogLamMin *float64 `json:"loglam_min"`
		LogLamMax *float64 `json:"loglam_max"`
		NFeatures *int     `json:"n_features"`
		Eps       *float64 `json:"eps"`
		NVal      *int     `json:"n_val"`
		NTest     *int     `json:"n_test"`
		Seed      *uint64  `json:"seed"`
		Workers   *int     `json:"workers"`
	} `json:"prep"`
	File                    *string `json:"file"`
	PlotDir                 *string `json:"plot_dir"`
	ProgressIntervalSeconds *int    `json:"progress_interval_seconds"`
}

// options is the effective command configuration after merging defaults,
// the JSON file and explicit flags, in that order of precedence.
type options struct {
	File                    string      `json:"file"`
	PlotDir                 string      `json:"plot_dir"`
	ProgressIntervalSeconds int         `json:"progress_interval_seconds"`
	DryRun                  bool        `json:"dry_run"`
	Prep                    prep.Config `json:"prep"`
}

func defaultOptions() options {
	return options{
		File:                    "data/dr12q_superset.hdf5",
		ProgressIntervalSeconds: 3,
		Prep:                    prep.DefaultConfig(),
	}
}

// applyFile overlays the values present in a JSON config file.
func (o *options) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var raw fileConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if raw.File != nil {
		o.File = *raw.File
	}
	if raw.PlotDir != nil {
		o.PlotDir = *raw.PlotDir
	}
	if raw.ProgressIntervalSeconds != nil {
		o.ProgressIntervalSeconds = *raw.ProgressIntervalSeconds
	}
	if p := raw.Prep; p != nil {
		if p.LogLamMin != nil {
			o.Prep.LogLamMin = *p.LogLamMin
		}
		if p.LogLamMax != nil {
			o.Prep.LogLamMax = *p.LogLamMax
		}
		if p.NFeatures != nil {
			o.Prep.NFeatures = *p.NFeatures
		}
		if p.Eps != nil {
			o.Prep.Eps = *p.Eps
		}
		if p.NVal != nil {
			o.Prep.NVal = *p.NVal
		}
		if p.NTest != nil {
			o.Prep.NTest = *p.NTest
		}
		if p.Seed != nil {
			o.Prep.Seed = *p.Seed
		}
		if p.Workers != nil {
			o.Prep.Workers = *p.Workers
		}
	}
	return nil
}

// bindFlags registers the command flags on fs. Values parsed into the
// returned options only count where the flag was set explicitly; see merge.
func bindFlags(fs *flag.FlagSet) (*options, *string) {
	d := defaultOptions()
	o := &options{}
	fs.StringVar(&o.File, "file", d.File, "HDF5 file holding id, flux, z_vi and z_pipe; outputs are written into it")
	fs.StringVar(&o.PlotDir, "plot", "", "if set, write diagnostic plots to this directory")
	fs.IntVar(&o.ProgressIntervalSeconds, "progress-interval", d.ProgressIntervalSeconds, "resampling progress logging interval in seconds")
	fs.BoolVar(&o.DryRun, "dry-run", false, "run everything but keep outputs in memory instead of writing them to the file")
	fs.Float64Var(&o.Prep.LogLamMin, "loglam-min", d.Prep.LogLamMin, "lower bound of the log10 wavelength grid")
	fs.Float64Var(&o.Prep.LogLamMax, "loglam-max", d.Prep.LogLamMax, "upper bound of the log10 wavelength grid")
	fs.IntVar(&o.Prep.NFeatures, "n-features", d.Prep.NFeatures, "number of points of the output grid")
	fs.Float64Var(&o.Prep.Eps, "eps", d.Prep.Eps, "inset of the output grid at both ends")
	fs.IntVar(&o.Prep.NVal, "n-val", d.Prep.NVal, "validation subset size")
	fs.IntVar(&o.Prep.NTest, "n-test", d.Prep.NTest, "test subset size")
	fs.Uint64Var(&o.Prep.Seed, "seed", d.Prep.Seed, "seed of the split permutation")
	fs.IntVar(&o.Prep.Workers, "workers", d.Prep.Workers, "number of resampling workers (0 = NumCPU)")
	cfgPath := fs.String("config", "", "path to a JSON config file (optional); explicit flags override it")
	return o, cfgPath
}

// merge builds the effective options: defaults, then the JSON file at
// cfgPath (if any), then every flag set explicitly on fs.
func merge(fs *flag.FlagSet, parsed *options, cfgPath string) (options, error) {
	o := defaultOptions()
	if cfgPath != "" {
		if err := o.applyFile(cfgPath); err != nil {
			return o, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			o.File = parsed.File
		case "plot":
			o.PlotDir = parsed.PlotDir
		case "progress-interval":
			o.ProgressIntervalSeconds = parsed.ProgressIntervalSeconds
		case "dry-run":
			o.DryRun = parsed.DryRun
		case "loglam-min":
			o.Prep.LogLamMin = parsed.Prep.LogLamMin
		case "loglam-max":
			o.Prep.LogLamMax = parsed.Prep.LogLamMax
		case "n-features":
			o.Prep.NFeatures = parsed.Prep.NFeatures
		case "eps":
			o.Prep.Eps = parsed.Prep.Eps
		case "n-val":
			o.Prep.NVal = parsed.Prep.NVal
		case "n-test":
			o.Prep.NTest = parsed.Prep.NTest
		case "seed":
			o.Prep.Seed = parsed.Prep.Seed
		case "workers":
			o.Prep.Workers = parsed.Prep.Workers
		}
	})
	if o.ProgressIntervalSeconds <= 0 {
		return o, fmt.Errorf("progress interval must be positive, got %d", o.ProgressIntervalSeconds)
	}
	return o, nil
}
