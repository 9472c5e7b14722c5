/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package keys models public key records published by signers and defines
// key resolution.
package keys

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrUnknownKeyFormat is returned when a fetched key document carries no
// PEM-encoded public key.
var ErrUnknownKeyFormat = errors.New("key document contains no PEM-encoded public key")

// ErrKeyNotFound is returned when the key id does not resolve to a key
// document.
var ErrKeyNotFound = errors.New("key not found")

// PublicKeyRecord is a signer's published public key document. Records are
// fetched fresh or from a cache per verification, never persisted.
type PublicKeyRecord struct {
	ID           string `mapstructure:"id"`
	Owner        string `mapstructure:"owner"`
	PublicKeyPEM string `mapstructure:"publicKeyPem"`
	// Revoked carries the revocation timestamp when the key is no longer
	// valid for verification.
	Revoked string `mapstructure:"revoked"`
}

// IsRevoked reports whether the record carries a revocation marker.
func (r *PublicKeyRecord) IsRevoked() bool {
	return r.Revoked != ""
}

// Resolver resolves a key id to its published public key record.
type Resolver interface {
	Resolve(ctx context.Context, keyID string) (*PublicKeyRecord, error)
}

// ParseRecord parses a JSON key document into a PublicKeyRecord. A document
// without a publicKeyPem field fails with ErrUnknownKeyFormat.
func ParseRecord(data []byte) (*PublicKeyRecord, error) {
	var raw map[string]interface{}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key document: %w", err)
	}

	return RecordFromMap(raw)
}

// RecordFromMap decodes a key document map into a PublicKeyRecord.
func RecordFromMap(raw map[string]interface{}) (*PublicKeyRecord, error) {
	var record PublicKeyRecord

	if err := mapstructure.Decode(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode key document: %w", err)
	}

	if record.PublicKeyPEM == "" {
		return nil, ErrUnknownKeyFormat
	}

	return &record, nil
}
