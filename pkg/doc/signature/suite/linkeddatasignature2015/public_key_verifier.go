/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package linkeddatasignature2015

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"errors"

	"github.com/payswarm/payswarm-go/pkg/keys"
)

// PublicKeyVerifier verifies an RSASSA-PKCS1-v1_5 SHA-256 signature taking a
// PEM-encoded RSA public key as input.
type PublicKeyVerifier struct{}

// NewPublicKeyVerifier creates a new PublicKeyVerifier.
func NewPublicKeyVerifier() *PublicKeyVerifier {
	return &PublicKeyVerifier{}
}

// Verify verifies the signature. Cryptographic failure detail is collapsed
// into a single generic error.
func (v *PublicKeyVerifier) Verify(publicKeyPEM string, msg, signature []byte) error {
	publicKey, err := keys.ParseRSAPublicKey(publicKeyPEM)
	if err != nil {
		return errors.New("rsa: invalid public key")
	}

	hashed := sha256.Sum256(msg)

	if err := rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, hashed[:], signature); err != nil {
		return errors.New("rsa: invalid signature")
	}

	return nil
}
