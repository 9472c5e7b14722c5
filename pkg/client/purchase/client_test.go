/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package purchase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/payswarm/payswarm-go/pkg/doc/jsonld"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/signer"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/suite"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/suite/linkeddatasignature2015"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/verifier"
	"github.com/payswarm/payswarm-go/pkg/doc/util/hash"
	"github.com/payswarm/payswarm-go/pkg/keys"
	"github.com/payswarm/payswarm-go/pkg/transport"
	"github.com/payswarm/payswarm-go/pkg/trust"
)

const (
	buyerID      = "https://authority.example.com/i/buyer"
	buyerKeyID   = "https://authority.example.com/i/buyer/keys/1"
	testListing  = "urn:test:listing-1"
	testAsset    = "urn:test:asset-1"
	testLicense  = "urn:test:license-1"
	testContract = "urn:test:contract-1"
)

type staticResolver struct {
	records map[string]*keys.PublicKeyRecord
}

func (r *staticResolver) Resolve(_ context.Context, keyID string) (*keys.PublicKeyRecord, error) {
	record, ok := r.records[keyID]
	if !ok {
		return nil, keys.ErrKeyNotFound
	}

	return record, nil
}

func testGraph() map[string]interface{} {
	return map[string]interface{}{
		"@context": map[string]interface{}{
			"id": "@id", "type": "@type", "@vocab": "https://w3id.org/payswarm/test#",
		},
		"@graph": []interface{}{
			map[string]interface{}{
				"id":    testAsset,
				"type":  "Asset",
				"title": "For sale",
			},
			map[string]interface{}{
				"id":      testListing,
				"type":    "Listing",
				"asset":   testAsset,
				"license": testLicense,
			},
		},
	}
}

// transactionService fakes the authority endpoint: it verifies the posted
// purchase request and answers with a receipt.
func transactionService(t *testing.T, buyerPublicKeyPEM string,
	receipt func() map[string]interface{}) *httptest.Server {
	t.Helper()

	resolver := &staticResolver{records: map[string]*keys.PublicKeyRecord{
		buyerKeyID: {ID: buyerKeyID, Owner: buyerID, PublicKeyPEM: buyerPublicKeyPEM},
	}}

	docVerifier, err := verifier.New(resolver,
		linkeddatasignature2015.New(suite.WithVerifier(linkeddatasignature2015.NewPublicKeyVerifier())))
	require.NoError(t, err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var request map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &request))

		require.Equal(t, "PurchaseRequest", request["type"])
		require.Equal(t, buyerID, request["identity"])
		require.Equal(t, testListing, request["listing"])

		// the hash must match the listing the authority knows
		expectedHash, err := hash.DocumentHash(jsonld.Default(), map[string]interface{}{
			"@context": map[string]interface{}{
				"id": "@id", "type": "@type", "@vocab": "https://w3id.org/payswarm/test#",
			},
			"id":      testListing,
			"type":    "Listing",
			"asset":   testAsset,
			"license": testLicense,
		})
		require.NoError(t, err)
		require.Equal(t, expectedHash, request["listingHash"])

		// the request must carry a valid buyer signature
		require.NoError(t, docVerifier.VerifyObject(r.Context(), request, nil))

		require.NoError(t, json.NewEncoder(w).Encode(receipt()))
	}))
}

func testReceipt() map[string]interface{} {
	return map[string]interface{}{
		"@context": map[string]interface{}{
			"id": "@id", "type": "@type", "@vocab": "https://w3id.org/payswarm/test#",
		},
		"id":   "https://authority.example.com/receipts/1",
		"type": "Receipt",
		"contract": map[string]interface{}{
			"id":            testContract,
			"assetAcquirer": buyerID,
			"asset":         testAsset,
			"license":       testLicense,
		},
	}
}

func TestPurchase(t *testing.T) {
	keyPair, err := keys.GenerateKeyPair(keys.DefaultKeySize)
	require.NoError(t, err)

	server := transactionService(t, keyPair.PublicKeyPEM, testReceipt)
	defer server.Close()

	client := New(transport.NewHTTPTransport())

	receipt, err := client.Purchase(context.Background(), testGraph(), &Request{
		Identity:           buyerID,
		TransactionService: server.URL,
		SigningKeyID:       buyerKeyID,
		SigningKeyPEM:      keyPair.PrivateKeyPEM,
	})
	require.NoError(t, err)
	require.Equal(t, "https://authority.example.com/receipts/1", receipt.ID)
	require.Equal(t, buyerID, receipt.Contract.AssetAcquirer)
	require.Equal(t, testAsset, receipt.Contract.Asset)
	require.Equal(t, testLicense, receipt.Contract.License)
	require.Equal(t, "Receipt", receipt.Raw["type"])
}

func TestPurchase_VerifiedReceipt(t *testing.T) {
	buyerKeys, err := keys.GenerateKeyPair(keys.DefaultKeySize)
	require.NoError(t, err)

	authorityKeys, err := keys.GenerateKeyPair(keys.DefaultKeySize)
	require.NoError(t, err)

	const (
		authorityID    = "https://authority.example.com/i/authority"
		authorityKeyID = "https://authority.example.com/keys/1"
	)

	rsaSigner, err := linkeddatasignature2015.NewRSASigner(authorityKeys.PrivateKeyPEM)
	require.NoError(t, err)

	docSigner := signer.New(linkeddatasignature2015.New(suite.WithSigner(rsaSigner)))

	signedReceipt := func() map[string]interface{} {
		receipt := testReceipt()

		require.NoError(t, docSigner.SignObject(&signer.Context{
			SignatureType: linkeddatasignature2015.SignatureType,
			Creator:       authorityKeyID,
		}, receipt))

		return receipt
	}

	server := transactionService(t, buyerKeys.PublicKeyPEM, signedReceipt)
	defer server.Close()

	resolver := &staticResolver{records: map[string]*keys.PublicKeyRecord{
		authorityKeyID: {ID: authorityKeyID, Owner: authorityID, PublicKeyPEM: authorityKeys.PublicKeyPEM},
	}}

	policy := trust.NewStaticPolicy(trust.WithAuthorities(authorityID))

	client := New(transport.NewHTTPTransport(), WithReceiptVerification(resolver, policy))

	receipt, err := client.Purchase(context.Background(), testGraph(), &Request{
		Identity:           buyerID,
		TransactionService: server.URL,
		SigningKeyID:       buyerKeyID,
		SigningKeyPEM:      buyerKeys.PrivateKeyPEM,
	})
	require.NoError(t, err)
	require.Equal(t, testAsset, receipt.Contract.Asset)

	// an untrusted authority's receipt is rejected
	strictPolicy := trust.NewStaticPolicy(trust.WithAuthorities("https://someone-else.example.com/i/a"))
	strictClient := New(transport.NewHTTPTransport(), WithReceiptVerification(resolver, strictPolicy))

	_, err = strictClient.Purchase(context.Background(), testGraph(), &Request{
		Identity:           buyerID,
		TransactionService: server.URL,
		SigningKeyID:       buyerKeyID,
		SigningKeyPEM:      buyerKeys.PrivateKeyPEM,
	})
	require.ErrorIs(t, err, verifier.ErrKeyUntrusted)
}

func TestExtractListing(t *testing.T) {
	client := New(transport.NewHTTPTransport())

	listing, err := client.ExtractListing(testGraph())
	require.NoError(t, err)
	require.Equal(t, testListing, listing["id"])
	require.Contains(t, listing, "@context")

	// no listing at all
	noListing := map[string]interface{}{
		"@context": map[string]interface{}{
			"id": "@id", "type": "@type", "@vocab": "https://w3id.org/payswarm/test#",
		},
		"@graph": []interface{}{
			map[string]interface{}{"id": testAsset, "type": "Asset"},
		},
	}

	_, err = client.ExtractListing(noListing)
	require.ErrorIs(t, err, ErrAmbiguousListing)

	// two listings
	twoListings := testGraph()
	twoListings["@graph"] = append(twoListings["@graph"].([]interface{}), map[string]interface{}{
		"id":   "urn:test:listing-2",
		"type": "Listing",
	})

	_, err = client.ExtractListing(twoListings)
	require.ErrorIs(t, err, ErrAmbiguousListing)
}

func TestPurchase_InvalidReceipt(t *testing.T) {
	keyPair, err := keys.GenerateKeyPair(keys.DefaultKeySize)
	require.NoError(t, err)

	request := &Request{
		Identity:      buyerID,
		SigningKeyID:  buyerKeyID,
		SigningKeyPEM: keyPair.PrivateKeyPEM,
	}

	tests := []struct {
		name    string
		receipt func() map[string]interface{}
	}{
		{"wrong type", func() map[string]interface{} {
			receipt := testReceipt()
			receipt["type"] = "Contract"

			return receipt
		}},
		{"missing contract", func() map[string]interface{} {
			receipt := testReceipt()
			delete(receipt, "contract")

			return receipt
		}},
		{"incomplete contract", func() map[string]interface{} {
			receipt := testReceipt()
			delete(receipt["contract"].(map[string]interface{}), "license")

			return receipt
		}},
		{"empty contract field", func() map[string]interface{} {
			receipt := testReceipt()
			receipt["contract"].(map[string]interface{})["asset"] = ""

			return receipt
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := transactionService(t, keyPair.PublicKeyPEM, tc.receipt)
			defer server.Close()

			client := New(transport.NewHTTPTransport())
			request.TransactionService = server.URL

			_, err := client.Purchase(context.Background(), testGraph(), request)
			require.ErrorIs(t, err, ErrInvalidReceipt)
		})
	}
}

func TestPurchase_TransportError(t *testing.T) {
	keyPair, err := keys.GenerateKeyPair(keys.DefaultKeySize)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "insufficient funds", http.StatusConflict)
	}))
	defer server.Close()

	client := New(transport.NewHTTPTransport())

	_, err = client.Purchase(context.Background(), testGraph(), &Request{
		Identity:           buyerID,
		TransactionService: server.URL,
		SigningKeyID:       buyerKeyID,
		SigningKeyPEM:      keyPair.PrivateKeyPEM,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status code 409")
}
