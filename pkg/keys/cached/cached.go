/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package cached decorates a key resolver with an in-memory TTL cache.
// Caching is a performance optimization only: correctness holds with the
// cache removed, and concurrent resolution of the same key id at worst
// duplicates an in-flight fetch.
package cached

import (
	"context"
	"time"

	"github.com/bluele/gcache"

	"github.com/payswarm/payswarm-go/pkg/keys"
)

const (
	defaultCacheSize = 256
	defaultTTL       = 5 * time.Minute
)

// Resolver caches records resolved by the wrapped resolver.
type Resolver struct {
	next  keys.Resolver
	cache gcache.Cache
}

type config struct {
	size int
	ttl  time.Duration
}

// Option configures the caching resolver.
type Option func(*config)

// WithCacheSize option sets the maximum number of cached records.
func WithCacheSize(size int) Option {
	return func(c *config) {
		c.size = size
	}
}

// WithTTL option sets how long a cached record stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.ttl = ttl
	}
}

// New returns a caching resolver wrapping next.
func New(next keys.Resolver, opts ...Option) *Resolver {
	cfg := &config{size: defaultCacheSize, ttl: defaultTTL}

	for _, opt := range opts {
		opt(cfg)
	}

	return &Resolver{
		next:  next,
		cache: gcache.New(cfg.size).LRU().Expiration(cfg.ttl).Build(),
	}
}

// Resolve returns the cached record for the key id, fetching and caching it
// on a miss. Failed resolutions are not cached.
func (r *Resolver) Resolve(ctx context.Context, keyID string) (*keys.PublicKeyRecord, error) {
	if cached, err := r.cache.Get(keyID); err == nil {
		if record, ok := cached.(*keys.PublicKeyRecord); ok {
			return record, nil
		}
	}

	record, err := r.next.Resolve(ctx, keyID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(keyID, record); err != nil {
		return nil, err
	}

	return record, nil
}
