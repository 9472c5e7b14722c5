/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"bytes"

	"github.com/payswarm/payswarm-go/pkg/doc/jsonld"
)

// signatureSuite encapsulates the suite method required for normalizing a
// document before signing or verification.
type signatureSuite interface {

	// GetCanonicalDocument will return normalized/canonical version of the document
	GetCanonicalDocument(doc map[string]interface{}, opts ...jsonld.Opts) ([]byte, error)
}

// CreateVerifyData creates the byte string that is signed and verified:
// the optional nonce, the created timestamp and the canonical form of the
// document without its signature block, followed by "@" and the domain when
// the signature is domain-bound.
func CreateVerifyData(suite signatureSuite, jsonLdObject map[string]interface{}, p *Proof,
	opts ...jsonld.Opts) ([]byte, error) {
	docCopy := GetCopyWithoutProof(jsonLdObject)

	canonical, err := suite.GetCanonicalDocument(docCopy, opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	if p.Nonce != "" {
		buf.WriteString(p.Nonce)
	}

	buf.WriteString(p.Created)
	buf.Write(canonical)

	if p.Domain != "" {
		buf.WriteString("@" + p.Domain)
	}

	return buf.Bytes(), nil
}
