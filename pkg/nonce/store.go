/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package nonce manages single-use anti-replay tokens. A nonce is created by
// the initiator of an exchange and bound to exactly one verification.
package nonce

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownNonce is returned when a nonce is not pending: it was never
// created here, or it has already been consumed.
var ErrUnknownNonce = errors.New("nonce is unknown or already used")

// Store creates and consumes single-use nonces. Consume is an atomic
// check-and-invalidate: of any number of concurrent consumers of the same
// nonce, exactly one succeeds.
type Store interface {
	Create(ctx context.Context) (string, error)
	Consume(ctx context.Context, nonce string) error
}

// MemStore is an in-memory Store safe for concurrent use.
type MemStore struct {
	pending map[string]struct{}
	mu      sync.Mutex
}

// NewMemStore returns a new in-memory nonce store.
func NewMemStore() *MemStore {
	return &MemStore{pending: make(map[string]struct{})}
}

// Create registers and returns a fresh nonce.
func (s *MemStore) Create(_ context.Context) (string, error) {
	n := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[n] = struct{}{}

	return n, nil
}

// Consume invalidates a pending nonce. A nonce accepted once is never
// accepted again.
func (s *MemStore) Consume(_ context.Context, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[nonce]; !ok {
		return ErrUnknownNonce
	}

	delete(s.pending, nonce)

	return nil
}

// CheckNonce adapts a Store into the verifier's nonce hook.
func CheckNonce(store Store) func(ctx context.Context, nonce string) error {
	return func(ctx context.Context, nonce string) error {
		if nonce == "" {
			return errors.New("signature carries no nonce")
		}

		return store.Consume(ctx, nonce)
	}
}
