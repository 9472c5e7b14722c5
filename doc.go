/*
Copyright Digital Bazaar, Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package payswarm provides a client-side implementation of the PaySwarm
// secure messaging protocol: canonicalization-based digital signatures on
// JSON-LD documents, hybrid public-key encryption of protocol responses,
// HTTP public-key resolution, and the vendor registration and asset
// purchase exchanges built on top of them.
//
// The building blocks live under pkg/doc (documents, signatures,
// canonicalization), pkg/crypto (hybrid cipher), pkg/keys (key records and
// resolution) and pkg/transport. The two protocol clients live under
// pkg/client.
package payswarm
