/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package wellknown discovers an authority's service endpoints from its
// well-known configuration documents.
package wellknown

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/mitchellh/mapstructure"

	"github.com/payswarm/payswarm-go/pkg/transport"
)

const (
	// PaySwarmPath is the well-known path of the payswarm service config.
	PaySwarmPath = "/.well-known/payswarm"
	// WebKeysPath is the well-known path of the web-keys service config.
	WebKeysPath = "/.well-known/web-keys"

	defaultScheme    = "https"
	defaultCacheSize = 32
)

// ServiceConfig is an authority's service configuration document. Unknown
// fields are preserved in Raw.
type ServiceConfig struct {
	ID                        string `mapstructure:"id"`
	PublicKeyService          string `mapstructure:"publicKeyService"`
	VendorRegistrationService string `mapstructure:"vendorRegistrationService"`
	PaymentService            string `mapstructure:"paymentService"`
	TransactionService        string `mapstructure:"transactionService"`

	Raw map[string]interface{} `mapstructure:"-"`
}

// Client fetches well-known service configs, optionally caching them for a
// bounded time.
type Client struct {
	transport transport.Transport
	scheme    string
	cache     gcache.Cache
}

// Option configures the discovery client.
type Option func(*Client) // nolint:golint

// WithScheme option overrides the https URL scheme (tests).
func WithScheme(scheme string) Option {
	return func(c *Client) {
		c.scheme = scheme
	}
}

// WithCacheTTL option enables caching of fetched configs for the given
// duration.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = gcache.New(defaultCacheSize).LRU().Expiration(ttl).Build()
	}
}

// New returns a new discovery client on top of the given transport.
func New(t transport.Transport, opts ...Option) *Client {
	c := &Client{transport: t, scheme: defaultScheme}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// PaySwarmConfig fetches the authority's payswarm service config.
func (c *Client) PaySwarmConfig(ctx context.Context, host string) (*ServiceConfig, error) {
	return c.config(ctx, host, PaySwarmPath)
}

// WebKeysConfig fetches the authority's web-keys service config.
func (c *Client) WebKeysConfig(ctx context.Context, host string) (*ServiceConfig, error) {
	return c.config(ctx, host, WebKeysPath)
}

func (c *Client) config(ctx context.Context, host, path string) (*ServiceConfig, error) {
	url := c.scheme + "://" + host + path

	if c.cache != nil {
		if cached, err := c.cache.Get(url); err == nil {
			if cfg, ok := cached.(*ServiceConfig); ok {
				return cfg, nil
			}
		}
	}

	body, err := c.transport.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service config from %s: %w", url, err)
	}

	cfg, err := parseConfig(body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(url, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func parseConfig(body []byte) (*ServiceConfig, error) {
	var raw map[string]interface{}

	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal service config: %w", err)
	}

	var cfg ServiceConfig

	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode service config: %w", err)
	}

	cfg.Raw = raw

	return &cfg, nil
}
