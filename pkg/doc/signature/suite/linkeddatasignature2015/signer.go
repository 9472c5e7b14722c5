/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package linkeddatasignature2015

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"

	"github.com/payswarm/payswarm-go/pkg/keys"
)

// RSASigner makes RSASSA-PKCS1-v1_5 signatures over SHA-256 digests with a
// PEM-encoded private key.
type RSASigner struct {
	privateKey *rsa.PrivateKey
}

// NewRSASigner creates a new RSASigner from a PEM-encoded RSA private key.
func NewRSASigner(privateKeyPEM string) (*RSASigner, error) {
	privateKey, err := keys.ParseRSAPrivateKey(privateKeyPEM)
	if err != nil {
		return nil, err
	}

	return &RSASigner{privateKey: privateKey}, nil
}

// Sign signs the message and returns the raw signature bytes.
func (s *RSASigner) Sign(msg []byte) ([]byte, error) {
	hashed := sha256.Sum256(msg)

	return rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, hashed[:])
}
