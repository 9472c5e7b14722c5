/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package linkeddatasignature2015 implements the LinkedDataSignature2015
// signature suite for Linked Data Signatures [LD-SIGNATURES].
// It uses the RDF Dataset Normalization Algorithm [RDF-DATASET-NORMALIZATION]
// to transform the input document into its canonical form.
// It uses SHA-256 [RFC6234] as the message digest algorithm and
// RSASSA-PKCS1-v1_5 [RFC3447] as the signature algorithm.
package linkeddatasignature2015

import (
	"crypto/sha256"

	"github.com/payswarm/payswarm-go/pkg/doc/jsonld"
	"github.com/payswarm/payswarm-go/pkg/doc/signature/suite"
)

// Suite implements the LinkedDataSignature2015 signature suite.
type Suite struct {
	suite.SignatureSuite
	jsonldProcessor *jsonld.Processor
}

const (
	// SignatureType is the signature type of this suite.
	SignatureType = "LinkedDataSignature2015"
	rdfDataSetAlg = "URDNA2015"
)

// New an instance of the LinkedDataSignature2015 signature suite.
func New(opts ...suite.Opt) *Suite {
	s := &Suite{jsonldProcessor: jsonld.NewProcessor(rdfDataSetAlg)}

	suite.InitSuiteOptions(&s.SignatureSuite, opts...)

	return s
}

// GetCanonicalDocument will return normalized/canonical version of the
// document. LinkedDataSignature2015 uses RDF Dataset Normalization as the
// canonicalization algorithm.
func (s *Suite) GetCanonicalDocument(doc map[string]interface{}, opts ...jsonld.Opts) ([]byte, error) {
	return s.jsonldProcessor.GetCanonicalDocument(doc, opts...)
}

// GetDigest returns document digest.
func (s *Suite) GetDigest(doc []byte) []byte {
	digest := sha256.Sum256(doc)
	return digest[:]
}

// Accept will accept only the LinkedDataSignature2015 signature type.
func (s *Suite) Accept(t string) bool {
	return t == SignatureType
}
