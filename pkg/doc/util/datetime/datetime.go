/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package datetime formats and parses the W3C date-time strings used on the
// wire by signature blocks and key records.
package datetime

import (
	"time"
)

// W3CDateTimeFormat is the wire format of timestamps: UTC, second precision,
// no fractional seconds.
const W3CDateTimeFormat = "2006-01-02T15:04:05Z"

// Format returns the W3C date-time string for t.
func Format(t time.Time) string {
	return t.UTC().Format(W3CDateTimeFormat)
}

// Parse parses a W3C date-time string. RFC 3339 timestamps with offsets or
// fractional seconds are accepted on input for interop.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(W3CDateTimeFormat, value)
	if err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, value)
}
