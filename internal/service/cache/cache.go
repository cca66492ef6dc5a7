// Package cache keeps one in-memory snapshot of users, shifts and shift requests
// shared by every read path.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type UserLister interface {
	List(ctx context.Context) ([]user.User, error)
}

type ShiftLister interface {
	List(ctx context.Context) ([]shift.Shift, error)
}

type RequestLister interface {
	List(ctx context.Context) ([]shift.ShiftRequest, error)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Snapshot is a consistent copy of the three tables taken by a single refresh.
type Snapshot struct {
	Users     []user.User
	Shifts    []shift.Shift
	Requests  []shift.ShiftRequest
	FetchedAt time.Time
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Users:     append([]user.User(nil), s.Users...),
		Shifts:    append([]shift.Shift(nil), s.Shifts...),
		Requests:  make([]shift.ShiftRequest, len(s.Requests)),
		FetchedAt: s.FetchedAt,
	}
	for i, r := range s.Requests {
		r.TimeSlots = append([]string(nil), r.TimeSlots...)
		out.Requests[i] = r
	}
	return out
}

type Option func(*Cache)

// WithTTL sets how long a snapshot is served. Zero means every Get refetches.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func WithClock(clock Clock) Option {
	return func(c *Cache) { c.clock = clock }
}

type Cache struct {
	users    UserLister
	shifts   ShiftLister
	requests RequestLister
	ttl      time.Duration
	clock    Clock

	group singleflight.Group

	mu         sync.Mutex
	snapshot   *Snapshot
	generation uint64
}

func New(users UserLister, shifts ShiftLister, requests RequestLister, opts ...Option) *Cache {
	c := &Cache{
		users:    users,
		shifts:   shifts,
		requests: requests,
		clock:    systemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a private copy of the current snapshot, refreshing it when it is
// missing or older than the TTL. Concurrent callers share one in-flight refresh.
// When the refresh fails the previous snapshot (empty on first load) is returned
// together with the error and stays cached.
func (c *Cache) Get(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.snapshot != nil && c.clock.Now().Sub(c.snapshot.FetchedAt) < c.ttl {
		snap := c.snapshot.clone()
		c.mu.Unlock()
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return snap, nil
	}
	generation := c.generation
	c.mu.Unlock()

	ch := c.group.DoChan(strconv.FormatUint(generation, 10), func() (interface{}, error) {
		return c.refresh(context.WithoutCancel(ctx), generation)
	})

	select {
	case <-ctx.Done():
		return c.previous(), ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.CacheLookupsTotal.WithLabelValues("shared").Inc()
		} else {
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		}
		if res.Err != nil {
			return c.previous(), res.Err
		}
		return res.Val.(Snapshot).clone(), nil
	}
}

// Invalidate drops the snapshot. A refresh already in flight is not stored and
// later callers start a new one.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.generation++
	c.mu.Unlock()
}

func (c *Cache) previous() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return Snapshot{}
	}
	return c.snapshot.clone()
}

func (c *Cache) refresh(ctx context.Context, generation uint64) (Snapshot, error) {
	var snap Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := c.users.List(gctx)
		if err != nil {
			return fmt.Errorf("fetch users: %w", err)
		}
		snap.Users = users
		return nil
	})
	g.Go(func() error {
		shifts, err := c.shifts.List(gctx)
		if err != nil {
			return fmt.Errorf("fetch shifts: %w", err)
		}
		snap.Shifts = shifts
		return nil
	})
	g.Go(func() error {
		requests, err := c.requests.List(gctx)
		if err != nil {
			return fmt.Errorf("fetch shift requests: %w", err)
		}
		snap.Requests = requests
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.CacheRefreshFailuresTotal.Inc()
		slog.Warn("data cache refresh failed, keeping previous snapshot", "error", err)
		return Snapshot{}, err
	}
	snap.FetchedAt = c.clock.Now()

	c.mu.Lock()
	if c.generation == generation {
		stored := snap
		c.snapshot = &stored
	}
	c.mu.Unlock()

	return snap, nil
}
