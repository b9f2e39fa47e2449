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
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/jeremyhahn/go-eid/pkg/pin"
)

// promptPIN reads the PIN from the terminal without echo and moves it into
// exclusively-owned material. The terminal's own buffer is wiped by
// pin.FromBytes.
func promptPIN(tokenName string) (*pin.Material, error) {
	fmt.Fprintf(os.Stderr, "Enter PIN for %s: ", tokenName)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading PIN: %w", err)
	}
	return pin.FromBytes(raw)
}
