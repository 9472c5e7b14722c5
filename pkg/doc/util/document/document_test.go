/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	require.Equal(t, []string{"Asset"}, Types(map[string]interface{}{"type": "Asset"}))
	require.Equal(t, []string{"Asset", "Listing"},
		Types(map[string]interface{}{"type": []interface{}{"Asset", "Listing"}}))
	require.Empty(t, Types(map[string]interface{}{}))
	require.Empty(t, Types(map[string]interface{}{"type": 42}))
}

func TestHasType(t *testing.T) {
	doc := map[string]interface{}{"type": []interface{}{"Asset", "Listing"}}

	require.True(t, HasType(doc, "Listing"))
	require.False(t, HasType(doc, "Receipt"))
	require.False(t, HasType(map[string]interface{}{}, "Receipt"))
}

func TestID(t *testing.T) {
	require.Equal(t, "urn:test:doc", ID(map[string]interface{}{"id": "urn:test:doc"}))
	require.Empty(t, ID(map[string]interface{}{}))
}

func TestIDValue(t *testing.T) {
	require.Equal(t, "urn:test:doc", IDValue("urn:test:doc"))

	// embedded node
	require.Equal(t, "urn:test:doc", IDValue(map[string]interface{}{"id": "urn:test:doc", "type": "Asset"}))

	require.Empty(t, IDValue(nil))
	require.Empty(t, IDValue(42))
	require.Empty(t, IDValue(map[string]interface{}{"type": "Asset"}))
}

func TestCopyMap(t *testing.T) {
	original := map[string]interface{}{
		"id": "urn:test:doc",
		"nested": map[string]interface{}{
			"key": "value",
		},
	}

	copied := CopyMap(original)
	require.Equal(t, original, copied)

	// nested maps are copies, not shared
	copied["nested"].(map[string]interface{})["key"] = "changed"
	require.Equal(t, "value", original["nested"].(map[string]interface{})["key"])
}
