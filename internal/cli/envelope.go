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
	"encoding/json"
	"fmt"
	"io"
)

// CommandEnvelope is the request envelope the browser extension sends over
// the native-messaging channel.
type CommandEnvelope struct {
	Command   string           `json:"command"`
	Arguments CommandArguments `json:"arguments"`
}

// CommandArguments carries the authenticate command inputs. Lang is
// optional UI language metadata; it does not enter the signed material.
type CommandArguments struct {
	ChallengeNonce string `json:"challengeNonce"`
	Origin         string `json:"origin"`
	Lang           string `json:"lang,omitempty"`
}

// decodeEnvelope reads and validates a command envelope from r.
func decodeEnvelope(r io.Reader) (*CommandEnvelope, error) {
	var env CommandEnvelope
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("malformed command envelope: %w", err)
	}
	if env.Command != "authenticate" {
		return nil, fmt.Errorf("unsupported command %q", env.Command)
	}
	if env.Arguments.ChallengeNonce == "" || env.Arguments.Origin == "" {
		return nil, fmt.Errorf(`arguments "challengeNonce" and "origin" are required`)
	}
	return &env, nil
}
