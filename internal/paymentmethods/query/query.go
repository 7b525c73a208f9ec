// Package query caches the payment methods list for the admin screen and
// keeps it fresh across mutations.
package query

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/sebuszqo/PaymentAdmin/internal/finance/domain"
	"github.com/sebuszqo/PaymentAdmin/internal/paymentmethods/client"
	"golang.org/x/sync/singleflight"
)

// ErrPending is returned by List when the caller stops waiting before the
// fetch finishes. The fetch keeps running and fills the cache.
var ErrPending = errors.New("payment methods are still loading")

const (
	listKey             = "payment-methods"
	defaultStaleTime    = 30 * time.Second
	defaultFetchTimeout = 30 * time.Second
)

type Query struct {
	api          client.API
	cache        *gocache.Cache
	group        singleflight.Group
	fetchTimeout time.Duration

	// mu orders cache writes against invalidation. generation changes on
	// every invalidation so a fetch that started before it never writes its
	// result into the cache.
	mu         sync.Mutex
	generation uint64
	inFlight   atomic.Int32
}

func New(api client.API, staleTime time.Duration) *Query {
	if staleTime <= 0 {
		staleTime = defaultStaleTime
	}
	return &Query{
		api:          api,
		cache:        gocache.New(staleTime, 2*staleTime),
		fetchTimeout: defaultFetchTimeout,
	}
}

// List returns the cached list, fetching it when stale. Concurrent callers
// share one fetch.
func (q *Query) List(ctx context.Context) ([]domain.PaymentMethod, error) {
	if cached, ok := q.cache.Get(listKey); ok {
		return slices.Clone(cached.([]domain.PaymentMethod)), nil
	}

	q.mu.Lock()
	gen := q.generation
	q.mu.Unlock()
	detached := context.WithoutCancel(ctx)
	ch := q.group.DoChan(listKey+"#"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		return q.fetch(detached, gen)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]domain.PaymentMethod)), nil
	case <-ctx.Done():
		return nil, ErrPending
	}
}

func (q *Query) fetch(ctx context.Context, gen uint64) ([]domain.PaymentMethod, error) {
	q.inFlight.Add(1)
	defer q.inFlight.Add(-1)

	ctx, cancel := context.WithTimeout(ctx, q.fetchTimeout)
	defer cancel()

	methods, err := q.api.GetAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("fetch payment methods")
		return nil, err
	}
	q.mu.Lock()
	if q.generation == gen {
		q.cache.Set(listKey, methods, gocache.DefaultExpiration)
	}
	q.mu.Unlock()
	return methods, nil
}

// Fetching reports whether a list fetch is in flight.
func (q *Query) Fetching() bool {
	return q.inFlight.Load() > 0
}

// Invalidate marks the list stale; the next List fetches again.
func (q *Query) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.generation++
	q.cache.Delete(listKey)
}

// Mutate runs fn against the API and invalidates the list when it succeeds.
func (q *Query) Mutate(ctx context.Context, fn func(ctx context.Context, api client.API) error) error {
	if err := fn(ctx, q.api); err != nil {
		return err
	}
	q.Invalidate()
	return nil
}

// Refetch invalidates the list and loads it again in the background of ctx.
func (q *Query) Refetch(ctx context.Context) error {
	q.Invalidate()
	_, err := q.List(ctx)
	return err
}
