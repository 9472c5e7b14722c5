/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package document holds small helpers for working with open JSON-LD
// document maps: type membership, id extraction and copying.
package document

const (
	jsonldID   = "id"
	jsonldType = "type"
)

// Types returns the type(s) declared by a document. A missing or malformed
// type field yields an empty slice.
func Types(doc map[string]interface{}) []string {
	switch t := doc[jsonldType].(type) {
	case string:
		return []string{t}
	case []interface{}:
		var types []string

		for _, e := range t {
			if s, ok := e.(string); ok {
				types = append(types, s)
			}
		}

		return types
	default:
		return nil
	}
}

// HasType reports whether the document declares the given type.
func HasType(doc map[string]interface{}, docType string) bool {
	for _, t := range Types(doc) {
		if t == docType {
			return true
		}
	}

	return false
}

// ID returns the document's id, or empty string if absent.
func ID(doc map[string]interface{}) string {
	return IDValue(doc[jsonldID])
}

// IDValue extracts an identifier from a field that is either an id string or
// an embedded node carrying an id.
func IDValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		if id, ok := v[jsonldID].(string); ok {
			return id
		}
	}

	return ""
}

// CopyMap performs shallow copy of map and nested maps.
func CopyMap(m map[string]interface{}) map[string]interface{} {
	cm := make(map[string]interface{})

	for k, v := range m {
		vm, ok := v.(map[string]interface{})
		if ok {
			cm[k] = CopyMap(vm)
		} else {
			cm[k] = v
		}
	}

	return cm
}
