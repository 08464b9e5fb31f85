package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// newIdlePool builds a real pgxpool without dialing; pgx connects lazily.
func newIdlePool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, err := pgxpool.New(context.Background(), "postgres://localhost:5432/clipstream_test")
	if err != nil {
		t.Fatalf("create idle pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestCacheAcquireReusesPool(t *testing.T) {
	pool := newIdlePool(t)

	var dials int32
	cache := NewCache(func(ctx context.Context) (*pgxpool.Pool, error) {
		atomic.AddInt32(&dials, 1)
		return pool, nil
	})

	first, err := cache.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	second, err := cache.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire again: %v", err)
	}

	if first != pool || second != pool {
		t.Fatal("expected both acquires to return the dialed pool")
	}
	if got := atomic.LoadInt32(&dials); got != 1 {
		t.Fatalf("expected exactly one dial, got %d", got)
	}
}

func TestCacheConcurrentAcquiresShareOneAttempt(t *testing.T) {
	pool := newIdlePool(t)

	var dials int32
	started := make(chan struct{})
	release := make(chan struct{})

	cache := NewCache(func(ctx context.Context) (*pgxpool.Pool, error) {
		atomic.AddInt32(&dials, 1)
		close(started)
		<-release
		return pool, nil
	})

	const callers = 16

	results := make([]*pgxpool.Pool, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	wg.Add(callers)

	// First caller owns the dial; wait for it to block inside connect so the
	// remaining callers are guaranteed to find an attempt to join or, at
	// worst, a resolved pool. Either way only one dial may happen.
	go func() {
		defer wg.Done()
		results[0], errs[0] = cache.Acquire(context.Background())
	}()
	<-started

	for i := 1; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Acquire(context.Background())
		}(i)
	}

	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i] != pool {
			t.Fatalf("caller %d received a different pool", i)
		}
	}
	if got := atomic.LoadInt32(&dials); got != 1 {
		t.Fatalf("expected exactly one dial, got %d", got)
	}
}

func TestCacheFailureIsNotCached(t *testing.T) {
	pool := newIdlePool(t)
	dialErr := errors.New("database unreachable")

	var dials int32
	cache := NewCache(func(ctx context.Context) (*pgxpool.Pool, error) {
		if atomic.AddInt32(&dials, 1) == 1 {
			return nil, dialErr
		}
		return pool, nil
	})

	if _, err := cache.Acquire(context.Background()); !errors.Is(err, dialErr) {
		t.Fatalf("expected dial error, got %v", err)
	}

	got, err := cache.Acquire(context.Background())
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if got != pool {
		t.Fatal("retry returned unexpected pool")
	}
	if atomic.LoadInt32(&dials) != 2 {
		t.Fatalf("expected two dials, got %d", dials)
	}
}

func TestCacheConcurrentFailurePropagatesToAllCallers(t *testing.T) {
	dialErr := errors.New("database unreachable")
	release := make(chan struct{})
	started := make(chan struct{})

	var startedOnce sync.Once
	var dials int32
	cache := NewCache(func(ctx context.Context) (*pgxpool.Pool, error) {
		atomic.AddInt32(&dials, 1)
		startedOnce.Do(func() { close(started) })
		<-release
		return nil, dialErr
	})

	const callers = 8
	errs := make([]error, callers)

	var wg sync.WaitGroup
	wg.Add(callers)

	go func() {
		defer wg.Done()
		_, errs[0] = cache.Acquire(context.Background())
	}()
	<-started

	for i := 1; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cache.Acquire(context.Background())
		}(i)
	}

	close(release)
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, dialErr) {
			t.Fatalf("caller %d: expected shared dial error, got %v", i, err)
		}
	}

	// The failed attempt must not be cached: the next call dials again.
	before := atomic.LoadInt32(&dials)
	if _, err := cache.Acquire(context.Background()); !errors.Is(err, dialErr) {
		t.Fatalf("expected fresh dial to fail the same way, got %v", err)
	}
	if atomic.LoadInt32(&dials) != before+1 {
		t.Fatal("expected a fresh dial after failure")
	}
}

func TestCacheAcquireHonoursContextWhileJoining(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	defer close(release)

	cache := NewCache(func(ctx context.Context) (*pgxpool.Pool, error) {
		close(started)
		<-release
		return nil, errors.New("never reached in this test")
	})

	go cache.Acquire(context.Background()) //nolint:errcheck

	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cache.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
