// Copyright (c) 2026 Jeremy Hahn
// Copyright (c) 2026 Automate The Things, LLC
//
// This file is part of go-eid.
//
// go-eid is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package types

import (
	"crypto"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"strings"
)

// SignatureAlgorithm identifies the JSON Web Signature algorithm of a
// security token's authentication key. The set is closed: the algorithm is
// reported by the token, never chosen by the caller, and every supported
// token reports one of these values.
type SignatureAlgorithm string

const (
	// AlgRS256 is RSASSA-PKCS1-v1_5 with SHA-256.
	AlgRS256 SignatureAlgorithm = "RS256"

	// AlgPS256 is RSASSA-PSS with SHA-256.
	AlgPS256 SignatureAlgorithm = "PS256"

	// AlgES256 is ECDSA on P-256 with SHA-256.
	AlgES256 SignatureAlgorithm = "ES256"

	// AlgES384 is ECDSA on P-384 with SHA-384.
	AlgES384 SignatureAlgorithm = "ES384"

	// AlgES512 is ECDSA on P-521 with SHA-512.
	AlgES512 SignatureAlgorithm = "ES512"
)

// SignatureAlgorithms lists every supported algorithm.
var SignatureAlgorithms = []SignatureAlgorithm{
	AlgRS256, AlgPS256, AlgES256, AlgES384, AlgES512,
}

// String returns the protocol-level algorithm identifier.
func (a SignatureAlgorithm) String() string {
	return string(a)
}

// IsValid returns true if the algorithm is in the supported set.
func (a SignatureAlgorithm) IsValid() bool {
	_, err := a.HashFunc()
	return err == nil
}

// HashFunc returns the hash function implied by the signature algorithm.
// The mapping is total over the supported set; ErrUnsupportedAlgorithm for
// anything else indicates a version-skew defect between this build and the
// token backend, not a runtime condition.
func (a SignatureAlgorithm) HashFunc() (crypto.Hash, error) {
	switch a {
	case AlgRS256, AlgPS256, AlgES256:
		return crypto.SHA256, nil
	case AlgES384:
		return crypto.SHA384, nil
	case AlgES512:
		return crypto.SHA512, nil
	default:
		return 0, ErrUnsupportedAlgorithm
	}
}

// ParseSignatureAlgorithm converts a string to a SignatureAlgorithm.
// Returns the empty string for anything outside the supported set.
func ParseSignatureAlgorithm(s string) SignatureAlgorithm {
	a := SignatureAlgorithm(strings.ToUpper(strings.TrimSpace(s)))
	if a.IsValid() {
		return a
	}
	return ""
}
