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

// Package types defines the contracts between the authentication core and
// the security-token backends: the supported signature algorithms, the
// narrow interface a hardware token must expose, and the PIN-verification
// failure taxonomy every backend reports through.
package types

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-eid/pkg/pin"
)

var (
	// ErrUnsupportedAlgorithm indicates a signature algorithm outside the
	// supported set.
	ErrUnsupportedAlgorithm = errors.New("types: unsupported signature algorithm")
)

// PinStatus classifies the outcome of an on-token PIN verification attempt.
type PinStatus string

const (
	// PinStatusCancelled means the user cancelled PIN entry on the PIN pad
	// or dialog.
	PinStatusCancelled PinStatus = "PIN_ENTRY_CANCEL"

	// PinStatusTimeout means PIN entry on the PIN pad timed out.
	PinStatusTimeout PinStatus = "PIN_ENTRY_TIMEOUT"

	// PinStatusDisabled means PIN verification is disabled on the token and
	// the key cannot be used until it is re-enabled.
	PinStatusDisabled PinStatus = "PIN_ENTRY_DISABLED"

	// PinStatusWrongPin means the entered PIN was wrong; Retries carries the
	// number of attempts remaining.
	PinStatusWrongPin PinStatus = "PIN_INCORRECT"

	// PinStatusBlocked means the PIN is blocked after too many wrong
	// attempts.
	PinStatusBlocked PinStatus = "PIN_BLOCKED"

	// PinStatusInvalidLength means the token rejected the PIN before
	// verification because its length is outside the card's limits.
	PinStatusInvalidLength PinStatus = "PIN_INVALID_LENGTH"

	// PinStatusUnknown covers verification failures the backend could not
	// classify.
	PinStatusUnknown PinStatus = "UNKNOWN"
)

// String returns the status identifier.
func (s PinStatus) String() string {
	return string(s)
}

// RetriesUnknown is the Retries value used when the token does not report a
// remaining-attempt count.
const RetriesUnknown = -1

// VerifyPinError reports a failed on-token PIN verification. Token backends
// return it from SignWithAuthKey; the authentication core classifies it
// exactly once per attempt.
type VerifyPinError struct {
	// Status is the PIN failure classification.
	Status PinStatus

	// Retries is the number of verification attempts remaining, 0 when the
	// PIN is blocked, or RetriesUnknown when the token does not say.
	Retries int
}

// Error implements the error interface.
func (e *VerifyPinError) Error() string {
	if e.Retries >= 0 {
		return fmt.Sprintf("token: PIN verification failed: %s, %d retries left", e.Status, e.Retries)
	}
	return fmt.Sprintf("token: PIN verification failed: %s", e.Status)
}

// SecurityToken is the narrow surface a hardware security token exposes to
// the authentication core. The private key and the PIN never cross this
// boundary in the other direction: implementations verify the PIN and sign
// on-device.
type SecurityToken interface {
	// Name returns a human-readable token or card name for logging.
	Name() string

	// AuthSignatureAlgorithm returns the signature algorithm of the
	// authentication key held on the token.
	AuthSignatureAlgorithm() SignatureAlgorithm

	// AuthCertificate returns the DER-encoded authentication certificate.
	AuthCertificate() ([]byte, error)

	// SignWithAuthKey verifies the PIN and signs the digest with the
	// authentication key, both on-device. PIN failures are reported as
	// *VerifyPinError. The caller retains ownership of the PIN material and
	// is responsible for clearing it; implementations must not retain it
	// past the call.
	SignWithAuthKey(pin *pin.Material, digest []byte) ([]byte, error)
}

// Notifier receives the PIN-failure events the authentication core emits
// for the user interface. Notifications are delivered synchronously before
// control returns to the caller.
type Notifier interface {
	// PinVerifyDisabled signals that PIN verification is disabled on the
	// token and re-authentication will not succeed until it is re-enabled.
	PinVerifyDisabled()

	// PinVerifyFailed signals a failed PIN verification with the failure
	// status and the number of retries remaining.
	PinVerifyFailed(status PinStatus, retries int)
}

// NoopNotifier discards all notifications.
type NoopNotifier struct{}

// PinVerifyDisabled implements Notifier.
func (NoopNotifier) PinVerifyDisabled() {}

// PinVerifyFailed implements Notifier.
func (NoopNotifier) PinVerifyFailed(PinStatus, int) {}
