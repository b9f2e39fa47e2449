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

package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	input := `{
		"command": "authenticate",
		"arguments": {
			"challengeNonce": "12345678123456781234567812345678912356789123",
			"origin": "https://ria.ee",
			"lang": "et"
		}
	}`

	env, err := decodeEnvelope(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, "authenticate", env.Command)
	assert.Equal(t, "12345678123456781234567812345678912356789123", env.Arguments.ChallengeNonce)
	assert.Equal(t, "https://ria.ee", env.Arguments.Origin)
	assert.Equal(t, "et", env.Arguments.Lang)
}

func TestDecodeEnvelope_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"NotJSON", "nonce=abc"},
		{"UnknownCommand", `{"command": "sign", "arguments": {"challengeNonce": "a", "origin": "b"}}`},
		{"UnknownField", `{"command": "authenticate", "arguments": {"challengeNonce": "a", "origin": "b"}, "extra": 1}`},
		{"MissingNonce", `{"command": "authenticate", "arguments": {"origin": "https://ria.ee"}}`},
		{"MissingOrigin", `{"command": "authenticate", "arguments": {"challengeNonce": "abc"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeEnvelope(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
