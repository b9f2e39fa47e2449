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

// Package origin validates and canonicalizes the origin of the relying
// party requesting authentication. The canonical serialization
// scheme://host[:port] is part of the signed material, so it must match
// what the verifier reproduces byte for byte.
package origin

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalid indicates the origin failed syntactic validation.
	ErrInvalid = errors.New("origin: invalid origin")
)

// MaxLength caps the accepted origin length. Browsers do not produce longer
// origins in practice; anything beyond this is rejected before parsing.
const MaxLength = 255

// Validate checks that raw is a well-formed https origin and returns its
// canonical serialization: lowercased scheme and host, explicit port only
// when it differs from the scheme default, and no path, query, fragment or
// userinfo components.
func Validate(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalid)
	}
	if len(raw) > MaxLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalid, MaxLength)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "https" && scheme != "wss" {
		return "", fmt.Errorf("%w: scheme must be https or wss", ErrInvalid)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalid)
	}
	if u.User != nil {
		return "", fmt.Errorf("%w: userinfo not allowed", ErrInvalid)
	}
	if u.Path != "" && u.Path != "/" {
		return "", fmt.Errorf("%w: path not allowed", ErrInvalid)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("%w: query and fragment not allowed", ErrInvalid)
	}
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && port != "443" {
		return scheme + "://" + host + ":" + port, nil
	}
	return scheme + "://" + host, nil
}
