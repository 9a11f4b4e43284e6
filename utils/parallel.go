// Package utils contains concurrency helpers shared by the component and robot packages.
package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// IndexedFunc is run once per index by RunEach.
type IndexedFunc func(ctx context.Context, index int) error

// RunEach runs f for every index in [0, n) in its own goroutine and waits for all of them.
// Unlike a fail-fast group, a failing index never cancels the others: the returned slice
// holds each index's error (nil on success) and the combined error is non-nil if any failed.
// A panic in f is recovered and reported as that index's error.
func RunEach(ctx context.Context, n int, f IndexedFunc) (time.Duration, []error, error) {
	start := time.Now()
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		index := i
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			defer func() {
				if thePanic := recover(); thePanic != nil {
					errs[index] = fmt.Errorf("got panic running index %d in parallel: %v", index, thePanic)
				}
			}()
			errs[index] = f(ctx, index)
		})
	}
	wg.Wait()

	return time.Since(start), errs, multierr.Combine(errs...)
}

// GetEach is RunEach for functions producing a value per index.
func GetEach[T any](ctx context.Context, n int, f func(ctx context.Context, index int) (T, error)) ([]T, []error, error) {
	results := make([]T, n)
	_, errs, err := RunEach(ctx, n, func(ctx context.Context, index int) error {
		value, err := f(ctx, index)
		results[index] = value
		return err
	})
	return results, errs, err
}
