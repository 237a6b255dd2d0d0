package resample

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

// ProgressInterval controls how often Matrix logs progress.
var ProgressInterval = 3 * time.Second

// Matrix resamples a row-major [rows, InputLen()] matrix of spectra and
// returns a row-major [rows, OutputLen()] float32 matrix.
//
// Rows are distributed over a pool of workers (0 = NumCPU). Each row is
// computed independently, so the result does not depend on the worker count.
// The first error encountered is returned and the output discarded.
func (p *Plan) Matrix(flux []float32, rows, workers int) ([]float32, error) {
	if rows < 0 || len(flux) != rows*p.oldLen {
		return nil, fmt.Errorf("%w: flux has %d values, want %d rows of %d",
			ErrShape, len(flux), rows, p.oldLen)
	}
	out := make([]float32, rows*p.newLen)
	if rows == 0 {
		return out, nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > rows {
		workers = rows
	}

	jobs := make(chan int, rows)
	for r := range rows {
		jobs <- r
	}
	close(jobs)

	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)

	var done int64
	var failed atomic.Bool

	ticker := time.NewTicker(ProgressInterval)
	stopProgress := make(chan struct{})
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d := atomic.LoadInt64(&done)
				klog.Infof("[Resample] progress: %s/%s (%.1f%%)",
					humanize.Comma(d), humanize.Comma(int64(rows)), float64(d)/float64(rows)*100)
			case <-stopProgress:
				return
			}
		}
	}()

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			in := make([]float64, p.oldLen)
			res := make([]float64, p.newLen)
			scratch := make([]float64, p.maxSpan)
			for r := range jobs {
				if failed.Load() {
					return
				}
				for i, v := range flux[r*p.oldLen : (r+1)*p.oldLen] {
					in[i] = float64(v)
				}
				if err := p.row(res, in, scratch); err != nil {
					failed.Store(true)
					errCh <- fmt.Errorf("row %d: %w", r, err)
					return
				}
				dst := out[r*p.newLen : (r+1)*p.newLen]
				for i, v := range res {
					dst[i] = float32(v)
				}
				atomic.AddInt64(&done, 1)
			}
		}()
	}

	wg.Wait()
	close(stopProgress)
	<-progressDone
	close(errCh)

	if err := <-errCh; err != nil {
		return nil, err
	}
	klog.V(1).Infof("[Resample] completed: %s rows", humanize.Comma(atomic.LoadInt64(&done)))
	return out, nil
}
