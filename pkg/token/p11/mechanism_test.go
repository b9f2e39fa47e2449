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

package p11

import (
	"bytes"
	"testing"

	"github.com/miekg/pkcs11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-eid/pkg/types"
)

func TestSigningMechanism_ECDSA(t *testing.T) {
	tests := []struct {
		name      string
		algo      types.SignatureAlgorithm
		digestLen int
	}{
		{"ES256", types.AlgES256, 32},
		{"ES384", types.AlgES384, 48},
		{"ES512", types.AlgES512, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest := bytes.Repeat([]byte{0xD1}, tt.digestLen)
			mech, data, err := signingMechanism(tt.algo, digest)
			require.NoError(t, err)
			assert.Equal(t, uint(pkcs11.CKM_ECDSA), mech.Mechanism)

			// ECDSA signs the bare digest.
			assert.Equal(t, digest, data)
		})
	}
}

func TestSigningMechanism_RS256(t *testing.T) {
	digest := bytes.Repeat([]byte{0xD1}, 32)
	mech, data, err := signingMechanism(types.AlgRS256, digest)
	require.NoError(t, err)
	assert.Equal(t, uint(pkcs11.CKM_RSA_PKCS), mech.Mechanism)

	// Raw RSA signing requires the DER DigestInfo wrapper.
	require.Len(t, data, len(sha256DigestInfoPrefix)+32)
	assert.Equal(t, sha256DigestInfoPrefix, data[:len(sha256DigestInfoPrefix)])
	assert.Equal(t, digest, data[len(sha256DigestInfoPrefix):])
}

func TestSigningMechanism_PS256(t *testing.T) {
	digest := bytes.Repeat([]byte{0xD1}, 32)
	mech, data, err := signingMechanism(types.AlgPS256, digest)
	require.NoError(t, err)
	assert.Equal(t, uint(pkcs11.CKM_RSA_PKCS_PSS), mech.Mechanism)
	assert.Equal(t, digest, data)
}

func TestSigningMechanism_Unsupported(t *testing.T) {
	_, _, err := signingMechanism(types.SignatureAlgorithm("HS256"), nil)
	assert.ErrorIs(t, err, types.ErrUnsupportedAlgorithm)
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(nil, nil)
	assert.Error(t, err)

	_, err = Open(&Config{Module: ""}, nil)
	assert.Error(t, err)

	_, err = Open(&Config{Module: "/usr/lib/opensc-pkcs11.so", Algorithm: "HS256"}, nil)
	assert.ErrorIs(t, err, types.ErrUnsupportedAlgorithm)
}
