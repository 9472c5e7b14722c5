/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package proof models the signature block attached to JSON-LD documents
// and builds the byte string that is signed and verified.
package proof

import (
	"encoding/base64"
	"errors"
)

const (
	// jsonldType is key for signature type.
	jsonldType = "type"
	// jsonldCreator is key for the id of the signing key.
	jsonldCreator = "creator"
	// jsonldCreated is key for time the signature was created.
	jsonldCreated = "created"
	// jsonldDomain is key for domain name.
	jsonldDomain = "domain"
	// jsonldNonce is key for nonce.
	jsonldNonce = "nonce"
	// jsonldSignatureValue is key for signature value.
	jsonldSignatureValue = "signatureValue"
)

// Proof is the cryptographic signature block of a document. A document
// carries at most one.
type Proof struct {
	Type           string
	Creator        string
	Created        string
	SignatureValue []byte
	Nonce          string
	Domain         string
}

// NewProof creates new proof from a raw signature block.
func NewProof(emap map[string]interface{}) (*Proof, error) {
	signatureValue := stringEntry(emap[jsonldSignatureValue])
	if signatureValue == "" {
		return nil, errors.New("signature value is not defined")
	}

	decoded, err := decodeBase64(signatureValue)
	if err != nil {
		return nil, err
	}

	created := stringEntry(emap[jsonldCreated])
	if created == "" {
		return nil, errors.New("created is missing")
	}

	return &Proof{
		Type:           stringEntry(emap[jsonldType]),
		Creator:        stringEntry(emap[jsonldCreator]),
		Created:        created,
		SignatureValue: decoded,
		Nonce:          stringEntry(emap[jsonldNonce]),
		Domain:         stringEntry(emap[jsonldDomain]),
	}, nil
}

// JSONLdObject returns map that represents JSON LD Object.
func (p *Proof) JSONLdObject() map[string]interface{} {
	emap := make(map[string]interface{})
	emap[jsonldType] = p.Type

	if p.Creator != "" {
		emap[jsonldCreator] = p.Creator
	}

	if p.Created != "" {
		emap[jsonldCreated] = p.Created
	}

	if len(p.SignatureValue) > 0 {
		emap[jsonldSignatureValue] = base64.StdEncoding.EncodeToString(p.SignatureValue)
	}

	if p.Nonce != "" {
		emap[jsonldNonce] = p.Nonce
	}

	if p.Domain != "" {
		emap[jsonldDomain] = p.Domain
	}

	return emap
}

// PublicKeyID provides id of the public key to be used to independently
// verify the proof.
func (p *Proof) PublicKeyID() (string, error) {
	if p.Creator != "" {
		return p.Creator, nil
	}

	return "", errors.New("no public key ID")
}

func decodeBase64(s string) ([]byte, error) {
	allEncodings := []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.RawURLEncoding,
	}

	for _, encoding := range allEncodings {
		value, err := encoding.DecodeString(s)
		if err == nil {
			return value, nil
		}
	}

	return nil, errors.New("unsupported encoding")
}

func stringEntry(entry interface{}) string {
	if entry == nil {
		return ""
	}

	if strVal, ok := entry.(string); ok {
		return strVal
	}

	return ""
}
