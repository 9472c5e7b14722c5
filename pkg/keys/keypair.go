/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// DefaultKeySize is the RSA modulus size used when generating key pairs.
const DefaultKeySize = 2048

const (
	pemTypeRSAPrivate = "RSA PRIVATE KEY"
	pemTypePrivate    = "PRIVATE KEY"
	pemTypeRSAPublic  = "RSA PUBLIC KEY"
	pemTypePublic     = "PUBLIC KEY"
)

// KeyPair holds a PEM-encoded RSA key pair.
type KeyPair struct {
	PublicKeyPEM  string
	PrivateKeyPEM string
}

// GenerateKeyPair generates a new RSA key pair of the given bit size
// (DefaultKeySize when bits is 0).
func GenerateKeyPair(bits int) (*KeyPair, error) {
	if bits == 0 {
		bits = DefaultKeySize
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	publicKeyDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	return &KeyPair{
		PublicKeyPEM: string(pem.EncodeToMemory(&pem.Block{
			Type:  pemTypePublic,
			Bytes: publicKeyDER,
		})),
		PrivateKeyPEM: string(pem.EncodeToMemory(&pem.Block{
			Type:  pemTypeRSAPrivate,
			Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
		})),
	}, nil
}

// ParseRSAPrivateKey parses a PEM-encoded RSA private key in PKCS#1 or
// PKCS#8 form.
func ParseRSAPrivateKey(privateKeyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, errors.New("no PEM block found in private key")
	}

	switch block.Type {
	case pemTypeRSAPrivate:
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case pemTypePrivate:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, err
		}

		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("private key is not an RSA key")
		}

		return rsaKey, nil
	default:
		return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}
}

// ParseRSAPublicKey parses a PEM-encoded RSA public key in PKIX or PKCS#1
// form.
func ParseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("no PEM block found in public key")
	}

	switch block.Type {
	case pemTypePublic:
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, err
		}

		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, errors.New("public key is not an RSA key")
		}

		return rsaKey, nil
	case pemTypeRSAPublic:
		return x509.ParsePKCS1PublicKey(block.Bytes)
	default:
		return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}
}
