/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package verifier implements verification of signed JSON-LD documents:
// policy checks (nonce, domain, timestamp, key trust and revocation)
// followed by cryptographic verification of the signature block.
package verifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/payswarm/payswarm-go/pkg/doc/jsonld"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/proof"
	"github.com/payswarm/payswarm-go/pkg/doc/util/datetime"
	"github.com/payswarm/payswarm-go/pkg/keys"
)

// DefaultMaxTimestampDelta is the default clock-skew window around "now"
// within which a signature's created timestamp is accepted.
const DefaultMaxTimestampDelta = 15 * time.Minute

// SignatureSuite encapsulates signature suite methods required for signature verification.
type SignatureSuite interface {

	// GetCanonicalDocument will return normalized/canonical version of the document
	GetCanonicalDocument(doc map[string]interface{}, opts ...jsonld.Opts) ([]byte, error)

	// Accept registers this signature suite with the given signature type
	Accept(signatureType string) bool

	// Verify will verify signature against the PEM-encoded public key
	Verify(publicKeyPEM string, doc, signature []byte) error
}

// Opts holds the policy hooks and settings of a single verification.
// Named defaults: a nil CheckNonce requires the signature to carry no nonce,
// a nil CheckDomain requires it to carry no domain, a nil CheckKey or
// CheckKeyOwner skips that check, and the timestamp check is on unless
// DisableTimestampCheck is set.
type Opts struct {
	// CheckNonce accepts or rejects the nonce declared by the signature.
	// Acceptance must consume the nonce: a nonce is valid exactly once.
	CheckNonce func(ctx context.Context, nonce string) error

	// CheckDomain accepts or rejects the domain the signature is bound to.
	CheckDomain func(ctx context.Context, domain string) error

	// CheckKey accepts or rejects the resolved key record.
	CheckKey func(ctx context.Context, record *keys.PublicKeyRecord) error

	// CheckKeyOwner accepts or rejects the identity owning the signing key.
	CheckKeyOwner func(ctx context.Context, owner, keyID string) error

	// DisableTimestampCheck turns off the created-timestamp window check.
	DisableTimestampCheck bool

	// MaxTimestampDelta is the clock-skew window; DefaultMaxTimestampDelta
	// when zero.
	MaxTimestampDelta time.Duration
}

// DocumentVerifier implements JSON-LD document signature verification.
type DocumentVerifier struct {
	signatureSuites []SignatureSuite
	resolver        keys.Resolver
}

// New returns new instance of document verifier.
func New(resolver keys.Resolver, suites ...SignatureSuite) (*DocumentVerifier, error) {
	if resolver == nil {
		return nil, errors.New("key resolver must be provided")
	}

	if len(suites) == 0 {
		return nil, errors.New("at least one suite must be provided")
	}

	return &DocumentVerifier{
		signatureSuites: suites,
		resolver:        resolver,
	}, nil
}

// Verify will verify the signature of a JSON-LD document.
func (dv *DocumentVerifier) Verify(ctx context.Context, jsonLdDoc []byte, opts *Opts,
	procOpts ...jsonld.Opts) error {
	var jsonLdObject map[string]interface{}

	err := json.Unmarshal(jsonLdDoc, &jsonLdObject)
	if err != nil {
		return fmt.Errorf("failed to unmarshal json ld document: %w", err)
	}

	return dv.VerifyObject(ctx, jsonLdObject, opts, procOpts...)
}

// VerifyObject will verify the signature of a JSON-LD object. The caller's
// document is never mutated. Checks run in a fixed order and the first
// failure is returned.
func (dv *DocumentVerifier) VerifyObject(ctx context.Context, jsonLdObject map[string]interface{},
	opts *Opts, procOpts ...jsonld.Opts) error {
	if opts == nil {
		opts = &Opts{}
	}

	p, err := proof.GetProof(jsonLdObject)
	if err != nil {
		return err
	}

	if err := checkNonce(ctx, p, opts); err != nil {
		return err
	}

	if err := checkDomain(ctx, p, opts); err != nil {
		return err
	}

	if err := checkTimestamp(p, opts); err != nil {
		return err
	}

	record, err := dv.resolveKey(ctx, p)
	if err != nil {
		return err
	}

	if record.IsRevoked() {
		return ErrKeyRevoked
	}

	if err := checkTrust(ctx, record, opts); err != nil {
		return err
	}

	suite, err := dv.getSignatureSuite(p.Type)
	if err != nil {
		return err
	}

	message, err := proof.CreateVerifyData(suite, jsonLdObject, p, procOpts...)
	if err != nil {
		return err
	}

	if err := suite.Verify(record.PublicKeyPEM, message, p.SignatureValue); err != nil {
		return ErrSignatureInvalid
	}

	return nil
}

func checkNonce(ctx context.Context, p *proof.Proof, opts *Opts) error {
	if opts.CheckNonce == nil {
		// nonce-less signatures are only valid when verification explicitly
		// does not require one
		if p.Nonce != "" {
			return fmt.Errorf("%w: unexpected nonce", ErrNonceInvalid)
		}

		return nil
	}

	if err := opts.CheckNonce(ctx, p.Nonce); err != nil {
		return fmt.Errorf("%w: %s", ErrNonceInvalid, err)
	}

	return nil
}

func checkDomain(ctx context.Context, p *proof.Proof, opts *Opts) error {
	if opts.CheckDomain == nil {
		if p.Domain != "" {
			return fmt.Errorf("%w: unexpected domain", ErrDomainInvalid)
		}

		return nil
	}

	if err := opts.CheckDomain(ctx, p.Domain); err != nil {
		return fmt.Errorf("%w: %s", ErrDomainInvalid, err)
	}

	return nil
}

func checkTimestamp(p *proof.Proof, opts *Opts) error {
	if opts.DisableTimestampCheck {
		return nil
	}

	created, err := datetime.Parse(p.Created)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedCreated, err)
	}

	delta := opts.MaxTimestampDelta
	if delta == 0 {
		delta = DefaultMaxTimestampDelta
	}

	now := time.Now()
	if created.Before(now.Add(-delta)) || created.After(now.Add(delta)) {
		return fmt.Errorf("%w: created %s, allowed delta %s", ErrTimestampOutOfRange, p.Created, delta)
	}

	return nil
}

func (dv *DocumentVerifier) resolveKey(ctx context.Context, p *proof.Proof) (*keys.PublicKeyRecord, error) {
	keyID, err := p.PublicKeyID()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyResolutionFailed, err)
	}

	record, err := dv.resolver.Resolve(ctx, keyID)
	if err != nil {
		if errors.Is(err, keys.ErrUnknownKeyFormat) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %s", ErrKeyResolutionFailed, err)
	}

	if record.PublicKeyPEM == "" {
		return nil, keys.ErrUnknownKeyFormat
	}

	return record, nil
}

func checkTrust(ctx context.Context, record *keys.PublicKeyRecord, opts *Opts) error {
	if opts.CheckKey != nil {
		if err := opts.CheckKey(ctx, record); err != nil {
			return fmt.Errorf("%w: %s", ErrKeyUntrusted, err)
		}
	}

	if opts.CheckKeyOwner != nil {
		if err := opts.CheckKeyOwner(ctx, record.Owner, record.ID); err != nil {
			return fmt.Errorf("%w: %s", ErrKeyUntrusted, err)
		}
	}

	return nil
}

// getSignatureSuite returns signature suite based on signature type.
func (dv *DocumentVerifier) getSignatureSuite(signatureType string) (SignatureSuite, error) {
	for _, s := range dv.signatureSuites {
		if s.Accept(signatureType) {
			return s, nil
		}
	}

	return nil, fmt.Errorf("signature type %s not supported", signatureType)
}
