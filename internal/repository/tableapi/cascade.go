package tableapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"golang.org/x/sync/errgroup"
)

// cascadeConcurrency bounds in-flight per-record calls during a fan-out.
const cascadeConcurrency = 8

// fanOut runs fn for every id as an unordered batch. Every call is attempted even
// when some fail; failures are reported together as a *shift.CascadeError.
func fanOut(ctx context.Context, op string, ids []string, fn func(ctx context.Context, id string) error) error {
	if len(ids) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	var g errgroup.Group
	g.SetLimit(cascadeConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if err := fn(ctx, id); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return &shift.CascadeError{Op: op, Total: len(ids), Failed: len(errs), Errs: errs}
	}
	return nil
}
