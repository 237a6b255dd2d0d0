// Package split partitions dataset rows into training, validation and test
// subsets with a single seeded permutation.
//
// The permutation stream is numpy compatible: New(n, nVal, nTest, seed)
// selects the same rows as
//
//	rng = numpy.random.default_rng(seed)
//	idx = rng.permutation(n)
//	tr, va, te = idx[:n-nVal-nTest], idx[n-nVal-nTest:n-nTest], idx[n-nTest:]
//
// so split membership stays identical to experiments prepared that way.
package split

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates a negative validation or test size.
	ErrInvalidSize = errors.New("split: negative subset size")
	// ErrTooFewRecords indicates fewer rows than the validation and test
	// subsets need.
	ErrTooFewRecords = errors.New("split: not enough records for validation and test subsets")
	// ErrEmptyTrainingSplit indicates the training subset would be empty.
	ErrEmptyTrainingSplit = errors.New("split: training subset would be empty")
)

// Subset names one partition subset and its rows.
type Subset struct {
	// Name is the long name: "train", "validation" or "test".
	Name string
	// Suffix is appended to output dataset names: "tr", "va" or "te".
	Suffix string
	// Indices are the selected rows in permutation order.
	Indices []int
}

// Partition is a three-way split of the rows [0, n).
type Partition struct {
	Seed       uint64
	Train      []int
	Validation []int
	Test       []int
}

// Sizes returns the training subset size for n rows. The training subset
// must be non-empty.
func Sizes(n, nVal, nTest int) (nTrain int, err error) {
	if nVal < 0 || nTest < 0 {
		return 0, fmt.Errorf("%w: validation=%d test=%d", ErrInvalidSize, nVal, nTest)
	}
	nTrain = n - nVal - nTest
	switch {
	case nTrain < 0:
		return 0, fmt.Errorf("%w: have %d, need more than %d", ErrTooFewRecords, n, nVal+nTest)
	case nTrain == 0:
		return 0, fmt.Errorf("%w: %d records all go to validation (%d) and test (%d)",
			ErrEmptyTrainingSplit, n, nVal, nTest)
	}
	return nTrain, nil
}

// New permutes [0, n) with a generator seeded by seed and cuts the
// permutation into training, validation and test subsets, in that order.
func New(n, nVal, nTest int, seed uint64) (*Partition, error) {
	nTrain, err := Sizes(n, nVal, nTest)
	if err != nil {
		return nil, err
	}

	perm := NewGenerator(seed).Permutation(n)
	return &Partition{
		Seed:       seed,
		Train:      perm[:nTrain],
		Validation: perm[nTrain : nTrain+nVal],
		Test:       perm[nTrain+nVal:],
	}, nil
}

// Len returns the total number of rows across all subsets.
func (p *Partition) Len() int {
	return len(p.Train) + len(p.Validation) + len(p.Test)
}

// Subsets returns the subsets in output order: train, validation, test.
func (p *Partition) Subsets() []Subset {
	return []Subset{
		{Name: "train", Suffix: "tr", Indices: p.Train},
		{Name: "validation", Suffix: "va", Indices: p.Validation},
		{Name: "test", Suffix: "te", Indices: p.Test},
	}
}

// Validate checks that the subsets are disjoint and together cover every
// row in [0, n) exactly once.
func (p *Partition) Validate(n int) error {
	if got := p.Len(); got != n {
		return fmt.Errorf("split: subsets hold %d rows, want %d", got, n)
	}
	seen := make([]bool, n)
	for _, s := range p.Subsets() {
		for _, idx := range s.Indices {
			if idx < 0 || idx >= n {
				return fmt.Errorf("split: %s index %d out of range [0, %d)", s.Name, idx, n)
			}
			if seen[idx] {
				return fmt.Errorf("split: row %d assigned twice (second time in %s)", idx, s.Name)
			}
			seen[idx] = true
		}
	}
	return nil
}
