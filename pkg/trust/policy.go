/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package trust defines the pluggable trust policy consulted during
// signature verification: which identities are recognized authorities,
// which identities may own a signing key, and which domains a signature may
// be bound to.
package trust

import (
	"context"
	"errors"
	"fmt"
)

// ErrUntrusted is returned when an identity or domain is rejected by policy.
var ErrUntrusted = errors.New("not trusted by policy")

// Policy is the set of trust predicates injected by the caller. Membership
// is externally managed and looked up per check.
type Policy interface {
	// IsTrustedAuthority accepts or rejects an identity as a recognized
	// authority.
	IsTrustedAuthority(ctx context.Context, id string) error

	// CheckKeyOwner accepts or rejects the identity owning a signing key.
	CheckKeyOwner(ctx context.Context, owner, keyID string) error

	// CheckDomain accepts or rejects a signature's domain binding.
	CheckDomain(ctx context.Context, domain string) error
}

// StaticPolicy is a Policy over fixed sets of trust anchors and domains.
type StaticPolicy struct {
	authorities map[string]struct{}
	domains     map[string]struct{}
}

// StaticOption configures a StaticPolicy.
type StaticOption func(*StaticPolicy)

// WithAuthorities option adds identities to the trust-anchor set.
func WithAuthorities(ids ...string) StaticOption {
	return func(p *StaticPolicy) {
		for _, id := range ids {
			p.authorities[id] = struct{}{}
		}
	}
}

// WithDomains option adds acceptable signature domains.
func WithDomains(domains ...string) StaticOption {
	return func(p *StaticPolicy) {
		for _, d := range domains {
			p.domains[d] = struct{}{}
		}
	}
}

// NewStaticPolicy returns a Policy over fixed sets.
func NewStaticPolicy(opts ...StaticOption) *StaticPolicy {
	p := &StaticPolicy{
		authorities: make(map[string]struct{}),
		domains:     make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// IsTrustedAuthority accepts identities in the trust-anchor set.
func (p *StaticPolicy) IsTrustedAuthority(_ context.Context, id string) error {
	if _, ok := p.authorities[id]; !ok {
		return fmt.Errorf("%w: authority %q", ErrUntrusted, id)
	}

	return nil
}

// CheckKeyOwner accepts keys owned by identities in the trust-anchor set.
func (p *StaticPolicy) CheckKeyOwner(ctx context.Context, owner, _ string) error {
	return p.IsTrustedAuthority(ctx, owner)
}

// CheckDomain accepts domains in the configured set.
func (p *StaticPolicy) CheckDomain(_ context.Context, domain string) error {
	if _, ok := p.domains[domain]; !ok {
		return fmt.Errorf("%w: domain %q", ErrUntrusted, domain)
	}

	return nil
}

// KeyOwnerCheck adapts a Policy into the verifier's key-owner hook.
func KeyOwnerCheck(p Policy) func(ctx context.Context, owner, keyID string) error {
	return func(ctx context.Context, owner, keyID string) error {
		return p.CheckKeyOwner(ctx, owner, keyID)
	}
}

// DomainCheck adapts a Policy into the verifier's domain hook.
func DomainCheck(p Policy) func(ctx context.Context, domain string) error {
	return func(ctx context.Context, domain string) error {
		return p.CheckDomain(ctx, domain)
	}
}
