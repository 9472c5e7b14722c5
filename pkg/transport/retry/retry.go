/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package retry provides an opt-in Transport decorator with exponential
// backoff. The protocol operations themselves never retry; callers that
// want retries layer this transport underneath them.
package retry

import (
	"context"

	"github.com/cenkalti/backoff/v4"

	"github.com/payswarm/payswarm-go/pkg/transport"
)

const defaultMaxRetries = 3

// Transport decorates another Transport with retries.
type Transport struct {
	next       transport.Transport
	maxRetries uint64
}

// Option configures the retrying transport.
type Option func(*Transport)

// WithMaxRetries option sets the number of retries after the initial attempt.
func WithMaxRetries(n uint64) Option {
	return func(t *Transport) {
		t.maxRetries = n
	}
}

// New returns a Transport retrying failed calls of the wrapped transport
// with exponential backoff.
func New(next transport.Transport, opts ...Option) *Transport {
	t := &Transport{next: next, maxRetries: defaultMaxRetries}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Get performs a GET through the wrapped transport, retrying on failure.
func (t *Transport) Get(ctx context.Context, url string) ([]byte, error) {
	return t.retry(ctx, func() ([]byte, error) {
		return t.next.Get(ctx, url)
	})
}

// Post performs a POST through the wrapped transport, retrying on failure.
func (t *Transport) Post(ctx context.Context, url, contentType string, body []byte) ([]byte, error) {
	return t.retry(ctx, func() ([]byte, error) {
		return t.next.Post(ctx, url, contentType, body)
	})
}

func (t *Transport) retry(ctx context.Context, call func() ([]byte, error)) ([]byte, error) {
	var result []byte

	operation := func() error {
		body, err := call()
		if err != nil {
			return err
		}

		result = body

		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), t.maxRetries), ctx)

	if err := backoff.Retry(operation, b); err != nil {
		return nil, err
	}

	return result, nil
}
