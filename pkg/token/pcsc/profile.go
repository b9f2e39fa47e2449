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

package pcsc

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-eid/pkg/pin"
	"github.com/jeremyhahn/go-eid/pkg/types"
)

var (
	// ErrInvalidProfile indicates an incomplete or inconsistent card
	// profile.
	ErrInvalidProfile = errors.New("pcsc: invalid card profile")
)

// Profile describes how to talk to one card family: which applet holds the
// authentication key, where the certificate lives, and how the PIN block is
// framed. Values come from the card specification and are configured per
// deployment.
type Profile struct {
	// Name is the human-readable card family name.
	Name string

	// AID is the application identifier of the authentication applet.
	AID []byte

	// Algorithm is the signature algorithm of the authentication key.
	Algorithm types.SignatureAlgorithm

	// CertFilePath is the sequence of 16-bit file IDs selected, in order,
	// to reach the authentication certificate file.
	CertFilePath []uint16

	// PinReference is the VERIFY P2 reference of the authentication PIN.
	PinReference byte

	// KeyReference is the INTERNAL AUTHENTICATE P2 reference of the
	// authentication key.
	KeyReference byte

	// MinPinLength and MaxPinLength bound the PIN length the card accepts.
	MinPinLength int
	MaxPinLength int

	// PinPadLength is the padded PIN block length sent in VERIFY, or 0 when
	// the card takes the PIN unpadded.
	PinPadLength int

	// PinFiller is the padding byte, typically 0xFF.
	PinFiller byte
}

// Validate checks the profile for internal consistency.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProfile)
	}
	if len(p.AID) == 0 || len(p.AID) > 16 {
		return fmt.Errorf("%w: AID must be 1-16 bytes", ErrInvalidProfile)
	}
	if !p.Algorithm.IsValid() {
		return fmt.Errorf("%w: unsupported signature algorithm %q", ErrInvalidProfile, p.Algorithm)
	}
	if len(p.CertFilePath) == 0 {
		return fmt.Errorf("%w: missing certificate file path", ErrInvalidProfile)
	}
	if p.MinPinLength < 4 || p.MaxPinLength > pin.MaxLength || p.MinPinLength > p.MaxPinLength {
		return fmt.Errorf("%w: PIN length bounds %d-%d out of range", ErrInvalidProfile,
			p.MinPinLength, p.MaxPinLength)
	}
	if p.PinPadLength != 0 && (p.PinPadLength < p.MaxPinLength || p.PinPadLength > pin.MaxPadded) {
		return fmt.Errorf("%w: PIN pad length %d out of range", ErrInvalidProfile, p.PinPadLength)
	}
	return nil
}
