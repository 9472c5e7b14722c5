/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifier

import (
	"errors"
)

// Verification failure kinds. Each verification step fails fast and surfaces
// the first failure; callers distinguish kinds with errors.Is.
var (
	// ErrNonceInvalid covers a rejected nonce, and a nonce present on a
	// signature when verification does not expect one.
	ErrNonceInvalid = errors.New("signature nonce is invalid")

	// ErrDomainInvalid covers a rejected domain, and a domain present on a
	// signature when verification does not expect one.
	ErrDomainInvalid = errors.New("signature domain is invalid")

	// ErrMalformedCreated is returned when the created timestamp cannot be
	// parsed.
	ErrMalformedCreated = errors.New("signature created timestamp is malformed")

	// ErrTimestampOutOfRange is returned when the created timestamp lies
	// outside the accepted clock-skew window.
	ErrTimestampOutOfRange = errors.New("signature created timestamp is out of range")

	// ErrKeyResolutionFailed is returned when the signing key document cannot
	// be fetched or parsed.
	ErrKeyResolutionFailed = errors.New("failed to resolve signing key")

	// ErrKeyRevoked is returned when the resolved key carries a revocation
	// marker, regardless of signature validity.
	ErrKeyRevoked = errors.New("signing key is revoked")

	// ErrKeyUntrusted is returned when the key or its owner is rejected by
	// the trust policy.
	ErrKeyUntrusted = errors.New("signing key is not trusted")

	// ErrSignatureInvalid is returned on cryptographic verification failure.
	// It carries no further detail.
	ErrSignatureInvalid = errors.New("signature is invalid")
)
