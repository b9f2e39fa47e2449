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

// Package pin provides the exclusively-owned buffer that holds the user's
// PIN for the duration of one signing attempt.
//
// The PIN is the only secret this application ever touches. The buffer is
// pre-allocated with room for the card transport envelope so the secret is
// never reallocated or copied while it is live, and Clear zeroizes it with
// a wipe the compiler cannot elide. Clearing on every exit path, success or
// failure, is the owner's obligation.
package pin

import (
	"crypto/subtle"
	"errors"
)

const (
	// MaxLength is the longest PIN accepted by any supported card profile.
	MaxLength = 12

	// MaxPadded is the largest padded PIN block a card transport produces.
	MaxPadded = 16

	// TransportOverhead is the number of envelope bytes a card transport
	// prepends to the padded PIN (ISO 7816 APDU header CLA INS P1 P2 Lc).
	TransportOverhead = 5
)

var (
	// ErrEmpty is returned when no PIN bytes were provided.
	ErrEmpty = errors.New("pin: empty PIN")

	// ErrTooLong is returned when the PIN exceeds MaxLength.
	ErrTooLong = errors.New("pin: PIN exceeds maximum length")

	// ErrCleared is returned when the material has already been zeroized.
	ErrCleared = errors.New("pin: material has been cleared")

	// ErrEnvelopeOverflow is returned when an envelope request does not fit
	// the pre-allocated capacity.
	ErrEnvelopeOverflow = errors.New("pin: envelope exceeds buffer capacity")
)

// Material holds the PIN in a single pre-allocated buffer. It has exactly
// one owner, the signing attempt in progress, and must be cleared by that
// owner on every exit path.
type Material struct {
	buf     []byte
	cleared bool
}

// FromBytes copies the PIN into freshly allocated material and wipes the
// source slice, so the caller's buffer does not linger as a second copy of
// the secret.
func FromBytes(src []byte) (*Material, error) {
	defer wipe(src)
	if len(src) == 0 {
		return nil, ErrEmpty
	}
	if len(src) > MaxLength {
		return nil, ErrTooLong
	}
	buf := make([]byte, 0, TransportOverhead+MaxPadded)
	buf = append(buf, src...)
	return &Material{buf: buf}, nil
}

// Len returns the PIN length in bytes.
func (m *Material) Len() int {
	return len(m.buf)
}

// Bytes returns the live PIN bytes. The returned slice aliases the internal
// buffer: it is a view, not a copy, and becomes zeros once Clear runs.
func (m *Material) Bytes() ([]byte, error) {
	if m.cleared {
		return nil, ErrCleared
	}
	return m.buf, nil
}

// Envelope builds header ‖ PIN ‖ padding in place and returns the full
// frame. The PIN is shifted within its own backing array; no second
// secret-bearing allocation is made. padTo is the padded PIN block length
// (0 for no padding), filler the padding byte.
//
// The frame aliases the internal buffer and is destroyed by Clear.
func (m *Material) Envelope(header []byte, padTo int, filler byte) ([]byte, error) {
	if m.cleared {
		return nil, ErrCleared
	}
	pinLen := len(m.buf)
	if padTo < pinLen {
		padTo = pinLen
	}
	total := len(header) + padTo
	if total > cap(m.buf) {
		return nil, ErrEnvelopeOverflow
	}
	frame := m.buf[:total]
	// Shift the PIN right to make room for the header, then fill the
	// header and padding around it. copy handles the overlap.
	copy(frame[len(header):], m.buf[:pinLen])
	copy(frame, header)
	for i := len(header) + pinLen; i < total; i++ {
		frame[i] = filler
	}
	m.buf = frame
	return frame, nil
}

// Clear zeroizes the entire backing array, including envelope bytes and
// spare capacity. Idempotent; the material is unusable afterwards.
func (m *Material) Clear() {
	if m == nil || m.cleared {
		return
	}
	wipe(m.buf[:cap(m.buf)])
	m.buf = m.buf[:0]
	m.cleared = true
}

// Cleared reports whether the material has been zeroized.
func (m *Material) Cleared() bool {
	return m.cleared
}

// wipe overwrites b with zeros. subtle.ConstantTimeCopy keeps the compiler
// from optimizing the store away.
func wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}
