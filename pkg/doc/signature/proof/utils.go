/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"errors"
)

const (
	jsonldSignature = "signature"
)

// ErrProofNotFound is returned when a document carries no signature block.
var ErrProofNotFound = errors.New("signature not found")

// ErrMultipleProofsFound is returned when a document carries more than one
// signature block. Multi-signature documents are rejected, not merged.
var ErrMultipleProofsFound = errors.New("multiple signatures found")

// GetProof gets the single proof from an LD Object.
func GetProof(jsonLdObject map[string]interface{}) (*Proof, error) {
	entry, ok := jsonLdObject[jsonldSignature]
	if !ok {
		return nil, ErrProofNotFound
	}

	var emap map[string]interface{}

	switch te := entry.(type) {
	case map[string]interface{}:
		emap = te
	case []interface{}:
		if len(te) == 0 {
			return nil, ErrProofNotFound
		}

		if len(te) > 1 {
			return nil, ErrMultipleProofsFound
		}

		emap, ok = te[0].(map[string]interface{})
		if !ok {
			return nil, errors.New("expecting a signature object")
		}
	default:
		return nil, errors.New("expecting a signature object")
	}

	return NewProof(emap)
}

// AddProof adds a proof to an LD Object. A document may carry at most one.
func AddProof(jsonLdObject map[string]interface{}, proof *Proof) error {
	if _, exists := jsonLdObject[jsonldSignature]; exists {
		return errors.New("document already contains a signature")
	}

	jsonLdObject[jsonldSignature] = proof.JSONLdObject()

	return nil
}

// GetCopyWithoutProof gets copy of JSON LD Object without the signature.
func GetCopyWithoutProof(jsonLdObject map[string]interface{}) map[string]interface{} {
	if jsonLdObject == nil {
		return nil
	}

	dest := make(map[string]interface{})

	for k, v := range jsonLdObject {
		if k != jsonldSignature {
			dest[k] = v
		}
	}

	return dest
}
