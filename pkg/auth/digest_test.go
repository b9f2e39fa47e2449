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
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-eid/pkg/types"
)

const (
	testOrigin = "https://ria.ee"
	testNonce  = "12345678123456781234567812345678912356789123"
)

// TestDigestToSign_Construction re-derives the digest the way a relying
// party verifier does and checks both sides agree.
func TestDigestToSign_Construction(t *testing.T) {
	got, err := DigestToSign(types.AlgES256, testOrigin, testNonce)
	require.NoError(t, err)

	originHash := sha256.Sum256([]byte(testOrigin))
	nonceHash := sha256.Sum256([]byte(testNonce))
	want := sha256.Sum256(append(originHash[:], nonceHash[:]...))
	assert.Equal(t, want[:], got)
}

func TestDigestToSign_Deterministic(t *testing.T) {
	first, err := DigestToSign(types.AlgES256, testOrigin, testNonce)
	require.NoError(t, err)
	second, err := DigestToSign(types.AlgES256, testOrigin, testNonce)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// TestDigestToSign_BoundaryBinding checks that moving bytes across the
// origin/nonce boundary changes the digest. Hashing the parts separately
// before the final hash is what provides this.
func TestDigestToSign_BoundaryBinding(t *testing.T) {
	forward, err := DigestToSign(types.AlgES256, "https://example.com2", "2345678123456781234567812345678912356789123")
	require.NoError(t, err)
	shifted, err := DigestToSign(types.AlgES256, "https://example.com", "22345678123456781234567812345678912356789123")
	require.NoError(t, err)
	assert.NotEqual(t, forward, shifted)
}

// TestDigestToSign_OrderSensitive checks origin and nonce are not
// interchangeable.
func TestDigestToSign_OrderSensitive(t *testing.T) {
	forward, err := DigestToSign(types.AlgES256, testOrigin, testNonce)
	require.NoError(t, err)
	swapped, err := DigestToSign(types.AlgES256, testNonce, testOrigin)
	require.NoError(t, err)
	assert.NotEqual(t, forward, swapped)
}

func TestDigestToSign_HashSelection(t *testing.T) {
	tests := []struct {
		name    string
		algo    types.SignatureAlgorithm
		wantLen int
	}{
		{"RS256", types.AlgRS256, 32},
		{"PS256", types.AlgPS256, 32},
		{"ES256", types.AlgES256, 32},
		{"ES384", types.AlgES384, 48},
		{"ES512", types.AlgES512, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := DigestToSign(tt.algo, testOrigin, testNonce)
			require.NoError(t, err)
			assert.Len(t, digest, tt.wantLen)
		})
	}
}

// TestDigestToSign_SameHashSameDigest checks algorithms sharing a hash
// function produce the same signing input.
func TestDigestToSign_SameHashSameDigest(t *testing.T) {
	rs, err := DigestToSign(types.AlgRS256, testOrigin, testNonce)
	require.NoError(t, err)
	es, err := DigestToSign(types.AlgES256, testOrigin, testNonce)
	require.NoError(t, err)
	assert.Equal(t, rs, es)
}

func TestDigestToSign_UnsupportedAlgorithm(t *testing.T) {
	_, err := DigestToSign(types.SignatureAlgorithm("HS256"), testOrigin, testNonce)
	assert.ErrorIs(t, err, ErrProgramming)
}
