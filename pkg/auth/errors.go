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

import "errors"

var (
	// ErrInputData indicates a malformed challenge nonce or origin supplied
	// by the caller. The attempt never reaches the signing step.
	ErrInputData = errors.New("auth: invalid input data")

	// ErrProgramming indicates a defect in this build, such as a signature
	// algorithm with no hash mapping. It must never be caught and retried.
	ErrProgramming = errors.New("auth: programming error")

	// ErrPinRetryAllowed indicates PIN verification failed but retries
	// remain; the caller may prompt for the PIN again. The UI has already
	// been notified when this is returned.
	ErrPinRetryAllowed = errors.New("auth: PIN verification failed, retry allowed")

	// ErrAttemptAbandoned indicates the user cancelled PIN entry or the PIN
	// pad timed out. Not a failure the caller should display; the attempt
	// simply ends.
	ErrAttemptAbandoned = errors.New("auth: attempt abandoned")
)
