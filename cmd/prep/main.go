// Command prep resamples the quasar spectra of an HDF5 file onto the model
// input grid and writes the train, validation and test subsets back into
// the same file.
//
//	prep -file data/dr12q_superset.hdf5
//	prep -config prep.json -plot plots -dry-run
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/quasarprep/prep"
	"github.com/Noofbiz/quasarprep/resample"
	"github.com/Noofbiz/quasarprep/store"
)

func main() {
	klog.InitFlags(nil)
	parsed, cfgPath := bindFlags(flag.CommandLine)
	printEffectiveConfig := flag.Bool("print-effective-config", false, "print the effective (JSON+CLI merged) configuration and exit")
	flag.Parse()
	defer klog.Flush()

	opts, err := merge(flag.CommandLine, parsed, *cfgPath)
	if err != nil {
		klog.Errorf("invalid configuration: %v", err)
		klog.Flush()
		os.Exit(2)
	}

	if *printEffectiveConfig {
		out, err := json.MarshalIndent(opts, "", "  ")
		if err != nil {
			klog.Errorf("failed to encode configuration: %v", err)
			klog.Flush()
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	if err := run(opts); err != nil {
		klog.Errorf("prep failed: %v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func run(opts options) error {
	if err := opts.Prep.Validate(); err != nil {
		return err
	}
	resample.ProgressInterval = time.Duration(opts.ProgressIntervalSeconds) * time.Second

	start := time.Now()
	open := store.Open
	if opts.DryRun {
		open = store.OpenReadOnly
	}
	f, err := open(opts.File)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			klog.Warningf("failed to close %s: %v", f.Path(), cerr)
		}
	}()

	var st store.Store = f
	if opts.DryRun {
		klog.Infof("Dry run: outputs are kept in memory and %s is opened read-only", f.Path())
		st = store.NewMemory(f)
	}

	rep, err := prep.Run(st, opts.Prep)
	if err != nil {
		return err
	}

	if opts.PlotDir != "" {
		if err := writePlots(opts.PlotDir, st, rep); err != nil {
			return fmt.Errorf("failed to generate plots: %w", err)
		}
		klog.Infof("Diagnostic plots written to %s", opts.PlotDir)
	}

	target := f.Path()
	if opts.DryRun {
		target = "memory (dry run)"
	}
	klog.Infof("Prepared %s spectra in %s: train=%s validation=%s test=%s, %d datasets written to %s",
		humanize.Comma(int64(rep.Records)), time.Since(start).Round(time.Millisecond),
		humanize.Comma(int64(len(rep.Partition.Train))),
		humanize.Comma(int64(len(rep.Partition.Validation))),
		humanize.Comma(int64(len(rep.Partition.Test))),
		len(rep.Written), target)
	return nil
}
