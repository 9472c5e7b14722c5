/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package signer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/payswarm/payswarm-go/pkg/doc/jsonld"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/proof"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/suite"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/suite/linkeddatasignature2015"
	"github.com/payswarm/payswarm-go/pkg/keys"
)

func TestSignObject(t *testing.T) {
	keyPair, err := keys.GenerateKeyPair(keys.DefaultKeySize)
	require.NoError(t, err)

	rsaSigner, err := linkeddatasignature2015.NewRSASigner(keyPair.PrivateKeyPEM)
	require.NoError(t, err)

	docSigner := New(linkeddatasignature2015.New(suite.WithSigner(rsaSigner)))

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	doc := testDoc()

	err = docSigner.SignObject(&Context{
		SignatureType: linkeddatasignature2015.SignatureType,
		Creator:       "https://vendor.example.com/keys/1",
		Created:       &created,
		Nonce:         "nonce-1",
		Domain:        "authority.example.com",
	}, doc)
	require.NoError(t, err)

	p, err := proof.GetProof(doc)
	require.NoError(t, err)
	require.Equal(t, linkeddatasignature2015.SignatureType, p.Type)
	require.Equal(t, "https://vendor.example.com/keys/1", p.Creator)
	require.Equal(t, "2024-05-01T10:00:00Z", p.Created)
	require.Equal(t, "nonce-1", p.Nonce)
	require.Equal(t, "authority.example.com", p.Domain)
	require.NotEmpty(t, p.SignatureValue)

	// signing an already-signed document fails
	err = docSigner.SignObject(&Context{
		SignatureType: linkeddatasignature2015.SignatureType,
		Creator:       "https://vendor.example.com/keys/1",
	}, doc)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already contains a signature")
}

func TestSign(t *testing.T) {
	keyPair, err := keys.GenerateKeyPair(keys.DefaultKeySize)
	require.NoError(t, err)

	rsaSigner, err := linkeddatasignature2015.NewRSASigner(keyPair.PrivateKeyPEM)
	require.NoError(t, err)

	docSigner := New(linkeddatasignature2015.New(suite.WithSigner(rsaSigner)))

	raw, err := json.Marshal(testDoc())
	require.NoError(t, err)

	signed, err := docSigner.Sign(&Context{
		SignatureType: linkeddatasignature2015.SignatureType,
		Creator:       "https://vendor.example.com/keys/1",
	}, raw)
	require.NoError(t, err)

	var signedDoc map[string]interface{}
	require.NoError(t, json.Unmarshal(signed, &signedDoc))
	require.Contains(t, signedDoc, "signature")

	// invalid json
	_, err = docSigner.Sign(&Context{
		SignatureType: linkeddatasignature2015.SignatureType,
		Creator:       "https://vendor.example.com/keys/1",
	}, []byte("not json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to unmarshal json ld document")
}

func TestSignObject_MissingOptions(t *testing.T) {
	docSigner := New(linkeddatasignature2015.New())

	err := docSigner.SignObject(&Context{Creator: "urn:test:key-1"}, testDoc())
	require.Error(t, err)
	require.Contains(t, err.Error(), "signature type is missing")

	err = docSigner.SignObject(&Context{SignatureType: linkeddatasignature2015.SignatureType}, testDoc())
	require.Error(t, err)
	require.Contains(t, err.Error(), "creator is missing")

	err = docSigner.SignObject(&Context{SignatureType: "UnknownSignature", Creator: "urn:test:key-1"}, testDoc())
	require.Error(t, err)
	require.Contains(t, err.Error(), "not supported")
}

func TestSignObject_EmptyCanonicalForm(t *testing.T) {
	keyPair, err := keys.GenerateKeyPair(keys.DefaultKeySize)
	require.NoError(t, err)

	rsaSigner, err := linkeddatasignature2015.NewRSASigner(keyPair.PrivateKeyPEM)
	require.NoError(t, err)

	docSigner := New(linkeddatasignature2015.New(suite.WithSigner(rsaSigner)))

	// no context, so the document's terms are undefined
	err = docSigner.SignObject(&Context{
		SignatureType: linkeddatasignature2015.SignatureType,
		Creator:       "urn:test:key-1",
	}, map[string]interface{}{"title": "no context"})
	require.ErrorIs(t, err, jsonld.ErrEmptyCanonicalForm)
}

func testDoc() map[string]interface{} {
	return map[string]interface{}{
		"@context": map[string]interface{}{
			"id": "@id", "type": "@type", "@vocab": "https://w3id.org/payswarm/test#",
		},
		"id":    "urn:test:asset-1",
		"type":  "Asset",
		"title": "For sale",
	}
}
