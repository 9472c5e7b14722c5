/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cached

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/payswarm/payswarm-go/pkg/keys"
)

type countingResolver struct {
	calls   int
	records map[string]*keys.PublicKeyRecord
}

func (r *countingResolver) Resolve(_ context.Context, keyID string) (*keys.PublicKeyRecord, error) {
	r.calls++

	record, ok := r.records[keyID]
	if !ok {
		return nil, keys.ErrKeyNotFound
	}

	return record, nil
}

func TestResolve(t *testing.T) {
	next := &countingResolver{records: map[string]*keys.PublicKeyRecord{
		"https://vendor.example.com/keys/1": {
			ID:           "https://vendor.example.com/keys/1",
			Owner:        "https://vendor.example.com/i/vendor",
			PublicKeyPEM: "pem",
		},
	}}

	resolver := New(next, WithCacheSize(8), WithTTL(time.Minute))

	record, err := resolver.Resolve(context.Background(), "https://vendor.example.com/keys/1")
	require.NoError(t, err)
	require.Equal(t, "pem", record.PublicKeyPEM)
	require.Equal(t, 1, next.calls)

	// second resolution is served from the cache
	record, err = resolver.Resolve(context.Background(), "https://vendor.example.com/keys/1")
	require.NoError(t, err)
	require.Equal(t, "pem", record.PublicKeyPEM)
	require.Equal(t, 1, next.calls)
}

func TestResolve_FailuresNotCached(t *testing.T) {
	next := &countingResolver{records: map[string]*keys.PublicKeyRecord{}}

	resolver := New(next)

	_, err := resolver.Resolve(context.Background(), "https://vendor.example.com/keys/unknown")
	require.ErrorIs(t, err, keys.ErrKeyNotFound)
	require.Equal(t, 1, next.calls)

	// the miss is retried, not remembered
	_, err = resolver.Resolve(context.Background(), "https://vendor.example.com/keys/unknown")
	require.ErrorIs(t, err, keys.ErrKeyNotFound)
	require.Equal(t, 2, next.calls)
}

func TestResolve_TTLExpiry(t *testing.T) {
	next := &countingResolver{records: map[string]*keys.PublicKeyRecord{
		"https://vendor.example.com/keys/1": {ID: "https://vendor.example.com/keys/1", PublicKeyPEM: "pem"},
	}}

	resolver := New(next, WithTTL(10*time.Millisecond))

	_, err := resolver.Resolve(context.Background(), "https://vendor.example.com/keys/1")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = resolver.Resolve(context.Background(), "https://vendor.example.com/keys/1")
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)
}
