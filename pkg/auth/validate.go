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

import "fmt"

const (
	// NonceMinLength is the minimum accepted challenge nonce length. The
	// nonce must contain at least 256 bits of entropy and is usually
	// Base64-encoded, so the required length is 44, the length of 32
	// Base64-encoded bytes.
	NonceMinLength = 44

	// NonceMaxLength is a sanity cap on the challenge nonce length.
	NonceMaxLength = 128
)

// ValidateChallengeNonce checks the server-issued challenge nonce length.
// Pure validation gate; no side effects beyond the returned error.
func ValidateChallengeNonce(nonce string) error {
	if len(nonce) < NonceMinLength {
		return fmt.Errorf("%w: challenge nonce must be at least %d characters long",
			ErrInputData, NonceMinLength)
	}
	if len(nonce) > NonceMaxLength {
		return fmt.Errorf("%w: challenge nonce cannot be longer than %d characters",
			ErrInputData, NonceMaxLength)
	}
	return nil
}
