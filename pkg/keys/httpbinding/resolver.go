/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package httpbinding resolves public key records over HTTP(s). Key ids are
// URLs; the key document is fetched from the id itself.
package httpbinding

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/payswarm/payswarm-go/pkg/common/log"
	"github.com/payswarm/payswarm-go/pkg/keys"
)

const ldJSON = "application/ld+json"

var logger = log.New("payswarm/keys/httpbinding")

// Accept is a gate on key ids this resolver will fetch.
type Accept func(keyID string) bool

// Resolver fetches public key records via HTTP(s).
type Resolver struct {
	client *http.Client
	accept Accept
}

// Option configures the resolver.
type Option func(*Resolver)

// WithTimeout option is for definition of HTTP(s) timeout value of the resolver.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.client.Timeout = timeout
	}
}

// WithHTTPClient option is for custom http client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithAccept option is a gate on acceptable key ids (e.g. restricting to a
// set of hosts). By default any http(s) URL is accepted.
func WithAccept(accept Accept) Option {
	return func(r *Resolver) {
		r.accept = accept
	}
}

// New creates a new key Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{client: &http.Client{}, accept: acceptHTTP}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve fetches the key document published at the key id and parses it
// into a PublicKeyRecord.
func (r *Resolver) Resolve(ctx context.Context, keyID string) (*keys.PublicKeyRecord, error) {
	if !r.accept(keyID) {
		return nil, errors.Errorf("key id %q not accepted by this resolver", keyID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, keyID, nil)
	if err != nil {
		return nil, errors.Wrap(err, "HTTP create get request failed")
	}

	req.Header.Add("Accept", ldJSON)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "HTTP Get request failed")
	}

	defer closeResponseBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body failed")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, keys.ErrKeyNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unsupported response from key host [%v] body [%s]", resp.StatusCode, body)
	}

	return keys.ParseRecord(body)
}

func acceptHTTP(keyID string) bool {
	u, err := url.Parse(keyID)
	if err != nil {
		return false
	}

	return u.Scheme == "http" || u.Scheme == "https"
}

func closeResponseBody(respBody io.Closer) {
	e := respBody.Close()
	if e != nil {
		logger.Errorf("Failed to close response body: %v", e)
	}
}
