/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package hash produces content identifiers for JSON-LD documents: SHA-256
// over the canonical form, rendered as "urn:sha256:<hex>".
package hash

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/payswarm/payswarm-go/pkg/doc/jsonld"
)

// Prefix is the urn prefix of document hashes.
const Prefix = "urn:sha256:"

// Digest returns the content identifier of already-canonicalized bytes.
func Digest(canonical []byte) string {
	digest := sha256.Sum256(canonical)

	return Prefix + hex.EncodeToString(digest[:])
}

// DocumentHash canonicalizes the document and returns its content
// identifier. Identical graphs always produce identical hashes.
func DocumentHash(processor *jsonld.Processor, doc map[string]interface{}, opts ...jsonld.Opts) (string, error) {
	canonical, err := processor.GetCanonicalDocument(doc, opts...)
	if err != nil {
		return "", err
	}

	return Digest(canonical), nil
}
