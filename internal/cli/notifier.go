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
	"io"

	"github.com/jeremyhahn/go-eid/pkg/types"
)

// consoleNotifier renders PIN-failure notifications on the console. It is
// the CLI's stand-in for the graphical PIN dialog of a desktop deployment.
type consoleNotifier struct {
	w io.Writer
}

func newConsoleNotifier(w io.Writer) *consoleNotifier {
	return &consoleNotifier{w: w}
}

// PinVerifyDisabled implements types.Notifier.
func (n *consoleNotifier) PinVerifyDisabled() {
	fmt.Fprintln(n.w, "PIN verification is disabled on this token; unblock it with the card management tool")
}

// PinVerifyFailed implements types.Notifier.
func (n *consoleNotifier) PinVerifyFailed(status types.PinStatus, retries int) {
	switch {
	case status == types.PinStatusBlocked || retries == 0:
		fmt.Fprintln(n.w, "PIN is blocked")
	case retries > 0:
		fmt.Fprintf(n.w, "Wrong PIN, %d attempts left\n", retries)
	default:
		fmt.Fprintf(n.w, "PIN verification failed: %s\n", status)
	}
}
