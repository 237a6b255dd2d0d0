package main

// Example command that opens the subsets written by cmd/prep and converts a
// few shuffled batches into gomlx tensors, the way a training loop would
// consume them.
//
// Usage:
//   go run ./datasets/example -file data/dr12q_superset.hdf5 -split va

import (
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/Noofbiz/quasarprep/datasets"
	"github.com/Noofbiz/quasarprep/store"
)

func main() {
	path := flag.String("file", "data/dr12q_superset.hdf5", "prepared HDF5 file")
	suffix := flag.String("split", "tr", "subset to read: tr, va or te")
	batchSize := flag.Int("batch-size", 8, "examples per batch")
	batches := flag.Int("batches", 2, "number of batches to yield")
	seed := flag.Int64("seed", 1, "shuffle seed")
	flag.Parse()

	f, err := store.OpenReadOnly(*path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *path, err)
	}
	defer f.Close()

	ds, err := datasets.NewSplitDataset(f, *suffix)
	if err != nil {
		log.Fatalf("failed to load subset %q: %v", *suffix, err)
	}
	fmt.Printf("Subset %s: %d examples of %d features\n", ds.Name(), ds.Len(), ds.Features())

	// Show the first example as stored
	if ds.Len() > 0 {
		in, la, err := ds.Example(0)
		if err != nil {
			log.Fatalf("failed to read example 0: %v", err)
		}
		fmt.Printf("  Example 0: z_vi=%.4f z_pipe=%.4f first flux values %v\n", la[0], la[1], in[:min(5, len(in))])
	}

	ds.BatchSize = *batchSize
	ds.Shuffle(*seed)
	for b := range *batches {
		_, inputs, labels, err := ds.Yield()
		if err == io.EOF {
			fmt.Println("End of epoch")
			break
		}
		if err != nil {
			log.Fatalf("failed to yield batch %d: %v", b, err)
		}
		fmt.Printf("Batch %d: inputs %v labels %v\n", b, inputs[0].Shape(), labels[0].Shape())
	}
}
