/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package httpbinding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/payswarm/payswarm-go/pkg/keys"
)

func TestResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, ldJSON, r.Header.Get("Accept"))

		w.Header().Set("Content-Type", ldJSON)

		_, err := w.Write([]byte(`{
			"@context": "https://w3id.org/payswarm/v1",
			"id": "` + "http://" + r.Host + r.URL.Path + `",
			"owner": "https://vendor.example.com/i/vendor",
			"publicKeyPem": "-----BEGIN PUBLIC KEY-----\n...\n-----END PUBLIC KEY-----"
		}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	resolver := New(WithTimeout(5 * time.Second))

	keyID := server.URL + "/keys/1"

	record, err := resolver.Resolve(context.Background(), keyID)
	require.NoError(t, err)
	require.Equal(t, keyID, record.ID)
	require.Equal(t, "https://vendor.example.com/i/vendor", record.Owner)
	require.False(t, record.IsRevoked())
}

func TestResolve_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such key", http.StatusNotFound)
	}))
	defer server.Close()

	resolver := New(WithHTTPClient(server.Client()))

	_, err := resolver.Resolve(context.Background(), server.URL+"/keys/unknown")
	require.ErrorIs(t, err, keys.ErrKeyNotFound)
}

func TestResolve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	resolver := New()

	_, err := resolver.Resolve(context.Background(), server.URL+"/keys/1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported response from key host")
}

func TestResolve_MissingPEM(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(`{"id": "https://vendor.example.com/keys/1"}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	resolver := New()

	_, err := resolver.Resolve(context.Background(), server.URL+"/keys/1")
	require.ErrorIs(t, err, keys.ErrUnknownKeyFormat)
}

func TestResolve_Accept(t *testing.T) {
	resolver := New()

	// non-http key ids are refused before any request is made
	_, err := resolver.Resolve(context.Background(), "urn:test:key-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not accepted by this resolver")

	// custom gate
	resolver = New(WithAccept(func(keyID string) bool {
		return strings.HasPrefix(keyID, "https://authority.example.com/")
	}))

	_, err = resolver.Resolve(context.Background(), "https://vendor.example.com/keys/1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not accepted by this resolver")
}
