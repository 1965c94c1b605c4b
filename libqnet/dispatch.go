package libqnet

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Span is a half-open index range [Lo, Hi) into a shared read-only slice.
type Span struct {
	Lo, Hi int
}

func (s Span) Len() int {
	return s.Hi - s.Lo
}

// minSpan is the smallest chunk worth handing to a worker.
const minSpan = 256

// Partition splits [0, n) into at most 4*workers contiguous spans of near-equal length.
func Partition(n, workers int) []Span {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunks := 4 * workers
	if maxChunks := (n + minSpan - 1) / minSpan; chunks > maxChunks {
		chunks = maxChunks
	}
	spans := make([]Span, chunks)
	lo := 0
	for i := range spans {
		hi := lo + (n-lo)/(chunks-i)
		spans[i] = Span{lo, hi}
		lo = hi
	}
	return spans
}

// Dispatch runs work over each span of Partition(n, workers) with at most workers goroutines.
// Results are returned in span order; work must only read shared inputs.
func Dispatch[T any](ctx context.Context, n, workers int, work func(ctx context.Context, span Span) (T, error)) ([]T, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	spans := Partition(n, workers)
	results := make([]T, len(spans))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for i, span := range spans {
		i, span := i, span
		grp.Go(func() error {
			out, err := work(ctx, span)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
