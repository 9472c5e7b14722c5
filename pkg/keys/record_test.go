/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	record, err := ParseRecord([]byte(`{
		"@context": "https://w3id.org/payswarm/v1",
		"id": "https://vendor.example.com/keys/1",
		"owner": "https://vendor.example.com/i/vendor",
		"publicKeyPem": "-----BEGIN PUBLIC KEY-----\n...\n-----END PUBLIC KEY-----"
	}`))
	require.NoError(t, err)
	require.Equal(t, "https://vendor.example.com/keys/1", record.ID)
	require.Equal(t, "https://vendor.example.com/i/vendor", record.Owner)
	require.False(t, record.IsRevoked())

	// revoked key
	record, err = ParseRecord([]byte(`{
		"id": "https://vendor.example.com/keys/1",
		"owner": "https://vendor.example.com/i/vendor",
		"publicKeyPem": "-----BEGIN PUBLIC KEY-----\n...\n-----END PUBLIC KEY-----",
		"revoked": "2024-01-01T00:00:00Z"
	}`))
	require.NoError(t, err)
	require.True(t, record.IsRevoked())

	// key document without PEM material
	_, err = ParseRecord([]byte(`{"id": "https://vendor.example.com/keys/1"}`))
	require.ErrorIs(t, err, ErrUnknownKeyFormat)

	// invalid json
	_, err = ParseRecord([]byte("not json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to unmarshal key document")
}

func TestRecordFromMap(t *testing.T) {
	record, err := RecordFromMap(map[string]interface{}{
		"id":           "https://vendor.example.com/keys/1",
		"owner":        "https://vendor.example.com/i/vendor",
		"publicKeyPem": "pem",
		"label":        "extra fields are ignored",
	})
	require.NoError(t, err)
	require.Equal(t, "pem", record.PublicKeyPEM)

	_, err = RecordFromMap(map[string]interface{}{"id": "https://vendor.example.com/keys/1"})
	require.ErrorIs(t, err, ErrUnknownKeyFormat)
}
