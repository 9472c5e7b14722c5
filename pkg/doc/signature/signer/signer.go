/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package signer implements signing of JSON-LD documents.
package signer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/payswarm/payswarm-go/pkg/doc/jsonld"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/proof"
	"github.com/payswarm/payswarm-go/pkg/doc/util/datetime"
)

// SignatureSuite encapsulates signature suite methods required for signing documents.
type SignatureSuite interface {

	// GetCanonicalDocument will return normalized/canonical version of the document
	GetCanonicalDocument(doc map[string]interface{}, opts ...jsonld.Opts) ([]byte, error)

	// Accept registers this signature suite with the given signature type
	Accept(signatureType string) bool

	// Sign will sign document and return signature
	Sign(doc []byte) ([]byte, error)
}

// DocumentSigner implements signing of JSON-LD documents.
type DocumentSigner struct {
	signatureSuites []SignatureSuite
}

// Context holds signing options.
type Context struct {
	SignatureType string     // required
	Creator       string     // required, id of the signing key
	Created       *time.Time // optional, defaults to time of signing
	Domain        string     // optional
	Nonce         string     // optional
}

// New returns new instance of document signer.
func New(signatureSuites ...SignatureSuite) *DocumentSigner {
	return &DocumentSigner{signatureSuites: signatureSuites}
}

// Sign will sign a JSON-LD document.
func (signer *DocumentSigner) Sign(context *Context, jsonLdDoc []byte, opts ...jsonld.Opts) ([]byte, error) {
	var jsonLdObject map[string]interface{}

	err := json.Unmarshal(jsonLdDoc, &jsonLdObject)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal json ld document: %w", err)
	}

	err = signer.SignObject(context, jsonLdObject, opts...)
	if err != nil {
		return nil, err
	}

	signedDoc, err := json.Marshal(jsonLdObject)
	if err != nil {
		return nil, err
	}

	return signedDoc, nil
}

// SignObject signs a JSON-LD object, attaching the signature block to it.
// The document must not already carry one.
func (signer *DocumentSigner) SignObject(context *Context, jsonLdObject map[string]interface{},
	opts ...jsonld.Opts) error {
	if err := isValidContext(context); err != nil {
		return err
	}

	suite, err := signer.getSignatureSuite(context.SignatureType)
	if err != nil {
		return err
	}

	if _, err := proof.GetProof(jsonLdObject); !errors.Is(err, proof.ErrProofNotFound) {
		return errors.New("document to be signed already contains a signature")
	}

	created := context.Created
	if created == nil {
		now := time.Now()
		created = &now
	}

	p := &proof.Proof{
		Type:    context.SignatureType,
		Creator: context.Creator,
		Created: datetime.Format(*created),
		Domain:  context.Domain,
		Nonce:   context.Nonce,
	}

	message, err := proof.CreateVerifyData(suite, jsonLdObject, p, opts...)
	if err != nil {
		return err
	}

	s, err := suite.Sign(message)
	if err != nil {
		return err
	}

	p.SignatureValue = s

	return proof.AddProof(jsonLdObject, p)
}

// getSignatureSuite returns signature suite based on signature type.
func (signer *DocumentSigner) getSignatureSuite(signatureType string) (SignatureSuite, error) {
	for _, s := range signer.signatureSuites {
		if s.Accept(signatureType) {
			return s, nil
		}
	}

	return nil, fmt.Errorf("signature type %s not supported", signatureType)
}

// isValidContext checks required parameters (for signing).
func isValidContext(context *Context) error {
	if context.SignatureType == "" {
		return errors.New("signature type is missing")
	}

	if context.Creator == "" {
		return errors.New("creator is missing")
	}

	return nil
}
