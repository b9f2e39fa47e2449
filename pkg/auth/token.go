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

package auth

import (
	"encoding/base64"

	"github.com/jeremyhahn/go-eid/pkg/types"
)

// TokenFormat is the authentication token format tag. The value is a wire
// contract with relying-party verifiers.
const TokenFormat = "web-eid:1.0"

// Token is the authentication token returned to the relying party. The JSON
// field names are a wire contract and must not change. Write-once; fields
// are populated by NewToken and never mutated.
type Token struct {
	// UnverifiedCertificate is the base64-encoded DER authentication
	// certificate. Verification of the certificate is the relying party's
	// job, hence the name.
	UnverifiedCertificate string `json:"unverifiedCertificate"`

	// Algorithm is the protocol-level signature algorithm identifier.
	Algorithm string `json:"algorithm"`

	// Signature is the base64-encoded raw signature over the digest.
	Signature string `json:"signature"`

	// Format is always TokenFormat.
	Format string `json:"format"`

	// AppVersion is a URL-shaped provenance string identifying the
	// application release that produced the token.
	AppVersion string `json:"appVersion"`
}

// NewToken assembles the authentication token from the signature, the
// algorithm identifier, the DER certificate bytes and the provenance
// string. Pure construction; inputs are not validated here.
func NewToken(alg types.SignatureAlgorithm, certificateDER, signature []byte, appVersion string) *Token {
	return &Token{
		UnverifiedCertificate: base64.StdEncoding.EncodeToString(certificateDER),
		Algorithm:             alg.String(),
		Signature:             base64.StdEncoding.EncodeToString(signature),
		Format:                TokenFormat,
		AppVersion:            appVersion,
	}
}
