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
	"fmt"

	"github.com/jeremyhahn/go-eid/pkg/types"
)

// DigestToSign derives the digest the token signs from the validated origin
// and challenge nonce:
//
//	digest = H(H(origin) ‖ H(nonce))
//
// with H selected by the signing key's algorithm. Origin and nonce are
// hashed separately before concatenation so a crafted origin cannot be
// engineered to collide with a nonce boundary, and the concatenation is
// hashed again to collapse it into a single fixed-size signing input.
//
// This construction is the wire-format contract the relying party's
// verifier replicates. Do not reorder or collapse the steps.
func DigestToSign(alg types.SignatureAlgorithm, origin, nonce string) ([]byte, error) {
	hash, err := alg.HashFunc()
	if err != nil {
		return nil, fmt.Errorf("%w: hash algorithm mapping missing for signature algorithm %q",
			ErrProgramming, alg)
	}

	h := hash.New()
	h.Write([]byte(origin))
	originHash := h.Sum(nil)

	h.Reset()
	h.Write([]byte(nonce))
	nonceHash := h.Sum(nil)

	h.Reset()
	h.Write(originHash)
	h.Write(nonceHash)
	return h.Sum(nil), nil
}
