package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool abstracts the pgx connection pool to make testing easier.
type Pool interface {
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

// Connect initialises a PostgreSQL connection pool using the provided database
// URL. MaxConns passes through to the driver unchanged; zero keeps the pgx
// default.
func Connect(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return pool, nil
}

// ConnectFunc dials the database. Injectable so the cache can be tested
// without a live server.
type ConnectFunc func(ctx context.Context) (*pgxpool.Pool, error)

type attempt struct {
	done chan struct{}
	pool *pgxpool.Pool
	err  error
}

// Cache hands out a single shared connection pool per process. Application
// code may be re-invoked once per request, so every data-access call goes
// through Acquire rather than holding its own pool: the first caller dials,
// concurrent callers join the in-flight attempt, and later callers reuse the
// resolved pool until process teardown.
type Cache struct {
	connect ConnectFunc

	mu      sync.Mutex
	pool    *pgxpool.Pool
	pending *attempt
}

// NewCache constructs a cache that dials with the provided function.
func NewCache(connect ConnectFunc) *Cache {
	if connect == nil {
		panic("db: connect function must not be nil")
	}
	return &Cache{connect: connect}
}

// Acquire returns the shared pool, dialing at most once regardless of how many
// callers race. A failed dial is not cached: every caller joined to the failed
// attempt sees the same error, and the next Acquire starts a fresh attempt.
func (c *Cache) Acquire(ctx context.Context) (*pgxpool.Pool, error) {
	c.mu.Lock()
	if c.pool != nil {
		pool := c.pool
		c.mu.Unlock()
		return pool, nil
	}

	if c.pending != nil {
		att := c.pending
		c.mu.Unlock()
		return att.wait(ctx)
	}

	att := &attempt{done: make(chan struct{})}
	c.pending = att
	c.mu.Unlock()

	att.pool, att.err = c.connect(ctx)

	c.mu.Lock()
	if att.err == nil {
		c.pool = att.pool
	}
	c.pending = nil
	c.mu.Unlock()

	close(att.done)
	return att.pool, att.err
}

func (a *attempt) wait(ctx context.Context) (*pgxpool.Pool, error) {
	select {
	case <-a.done:
		return a.pool, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CachedPool adapts a Cache to the Pool interface repositories consume, so
// every data-access call funnels through the single-flight dial and the first
// connection is only opened when a request actually needs it.
type CachedPool struct {
	cache *Cache
}

// NewCachedPool wraps the cache in the repository-facing Pool interface.
func NewCachedPool(cache *Cache) *CachedPool {
	if cache == nil {
		panic("db: cache must not be nil")
	}
	return &CachedPool{cache: cache}
}

// Acquire checks out a connection from the shared pool, dialing it first if
// this is the process's first data access.
func (p *CachedPool) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	pool, err := p.cache.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire shared pool: %w", err)
	}
	return pool.Acquire(ctx)
}

// Close tears down the underlying cached pool.
func (p *CachedPool) Close() {
	p.cache.Close()
}

var _ Pool = (*CachedPool)(nil)

// Close tears down the cached pool, if any. An in-flight attempt is left to
// resolve on its own; its result will be cached for callers that follow.
func (c *Cache) Close() {
	c.mu.Lock()
	pool := c.pool
	c.pool = nil
	c.mu.Unlock()

	if pool != nil {
		pool.Close()
	}
}
