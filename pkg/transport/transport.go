/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package transport defines the HTTP collaborator the protocol clients use
// to fetch service configs, key documents and to post signed requests.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/payswarm/payswarm-go/pkg/common/log"
)

var logger = log.New("payswarm/transport")

// Transport performs GET/POST given a URL and returns the response bytes or
// fails. Every call is subject to the caller's context; nothing is retried.
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Post(ctx context.Context, url, contentType string, body []byte) ([]byte, error)
}

// HTTPTransport is the net/http backed Transport.
type HTTPTransport struct {
	client *http.Client
}

// Option configures the HTTP transport.
type Option func(*HTTPTransport)

// WithHTTPClient option is for custom http client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *HTTPTransport) {
		t.client = client
	}
}

// WithTimeout option is for definition of the HTTP(s) timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(t *HTTPTransport) {
		t.client.Timeout = timeout
	}
}

// NewHTTPTransport returns a new HTTP transport.
func NewHTTPTransport(opts ...Option) *HTTPTransport {
	t := &HTTPTransport{client: &http.Client{}}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Get performs an HTTP GET and returns the response body.
func (t *HTTPTransport) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create GET request")
	}

	req.Header.Add("Accept", "application/ld+json, application/json")

	return t.do(req)
}

// Post performs an HTTP POST and returns the response body.
func (t *HTTPTransport) Post(ctx context.Context, url, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create POST request")
	}

	req.Header.Add("Content-Type", contentType)
	req.Header.Add("Accept", "application/ld+json, application/json")

	return t.do(req)
}

func (t *HTTPTransport) do(req *http.Request) ([]byte, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "http request failed")
	}

	defer closeResponseBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body failed")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("unexpected status code %d from %s: %s",
			resp.StatusCode, req.URL, body)
	}

	return body, nil
}

func closeResponseBody(respBody io.Closer) {
	e := respBody.Close()
	if e != nil {
		logger.Errorf("Failed to close response body: %v", e)
	}
}
