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
	"fmt"

	"github.com/jeremyhahn/go-eid/pkg/types"
)

// Card abstracts card transmit behavior for real PC/SC cards and test
// doubles.
type Card interface {
	Transmit(apdu []byte) ([]byte, error)
}

// SWError reports an unexpected ISO 7816 status word.
type SWError struct {
	Ins byte
	SW  uint16
}

// Error implements the error interface.
func (e *SWError) Error() string {
	return fmt.Sprintf("pcsc: command %02X failed with status %04X", e.Ins, e.SW)
}

const (
	swOK              = 0x9000
	swBytesRemaining  = 0x6100 // 61XX, XX bytes available via GET RESPONSE
	swWrongPinBase    = 0x63C0 // 63CX, wrong PIN with X retries left
	swPinPadTimeout   = 0x6400
	swPinPadCancel    = 0x6401
	swWrongLength     = 0x6700
	swSelectedInvalid = 0x6283
	swAuthBlocked     = 0x6983
	swRefDataInvalid  = 0x6984
)

// transmit sends an APDU and splits the status word off the response,
// following 61XX GET RESPONSE chaining for cards that return data in
// chunks.
func transmit(card Card, apdu []byte) ([]byte, uint16, error) {
	resp, err := card.Transmit(apdu)
	if err != nil {
		return nil, 0, fmt.Errorf("pcsc: transmit: %w", err)
	}
	if len(resp) < 2 {
		return nil, 0, fmt.Errorf("pcsc: short response: %d bytes", len(resp))
	}
	data := resp[:len(resp)-2]
	sw := uint16(resp[len(resp)-2])<<8 | uint16(resp[len(resp)-1])

	for sw&0xFF00 == swBytesRemaining {
		getResponse := []byte{0x00, 0xC0, 0x00, 0x00, byte(sw)}
		resp, err = card.Transmit(getResponse)
		if err != nil {
			return nil, 0, fmt.Errorf("pcsc: get response: %w", err)
		}
		if len(resp) < 2 {
			return nil, 0, fmt.Errorf("pcsc: short response: %d bytes", len(resp))
		}
		data = append(data, resp[:len(resp)-2]...)
		sw = uint16(resp[len(resp)-2])<<8 | uint16(resp[len(resp)-1])
	}
	return data, sw, nil
}

// selectAID selects an application by AID.
func selectAID(card Card, aid []byte) error {
	apdu := append([]byte{0x00, 0xA4, 0x04, 0x00, byte(len(aid))}, aid...)
	_, sw, err := transmit(card, apdu)
	if err != nil {
		return err
	}
	if sw != swOK {
		return &SWError{Ins: 0xA4, SW: sw}
	}
	return nil
}

// selectFile selects a file by its 16-bit ID using ISO 7816 SELECT FILE.
func selectFile(card Card, fileID uint16) error {
	apdu := []byte{0x00, 0xA4, 0x00, 0x0C, 0x02, byte(fileID >> 8), byte(fileID)}
	_, sw, err := transmit(card, apdu)
	if err != nil {
		return err
	}
	if sw != swOK {
		return &SWError{Ins: 0xA4, SW: sw}
	}
	return nil
}

// readBinary reads length bytes from the selected file with chunked READ
// BINARY commands.
func readBinary(card Card, length int) ([]byte, error) {
	out := make([]byte, 0, length)
	for offset := 0; offset < length; {
		chunk := length - offset
		if chunk > 0xB0 {
			chunk = 0xB0
		}
		apdu := []byte{0x00, 0xB0, byte(offset >> 8), byte(offset), byte(chunk)}
		data, sw, err := transmit(card, apdu)
		if err != nil {
			return nil, err
		}
		if sw != swOK {
			return nil, &SWError{Ins: 0xB0, SW: sw}
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("pcsc: READ BINARY returned no data at offset %d", offset)
		}
		out = append(out, data...)
		offset += len(data)
	}
	return out, nil
}

// decodeVerifyStatus maps the VERIFY status word onto the PIN failure
// taxonomy. Returns nil for 9000.
func decodeVerifyStatus(sw uint16) error {
	switch {
	case sw == swOK:
		return nil
	case sw&0xFFF0 == swWrongPinBase:
		retries := int(sw & 0x000F)
		if retries == 0 {
			return &types.VerifyPinError{Status: types.PinStatusBlocked, Retries: 0}
		}
		return &types.VerifyPinError{Status: types.PinStatusWrongPin, Retries: retries}
	case sw == swAuthBlocked:
		return &types.VerifyPinError{Status: types.PinStatusBlocked, Retries: 0}
	case sw == swPinPadTimeout:
		return &types.VerifyPinError{Status: types.PinStatusTimeout, Retries: types.RetriesUnknown}
	case sw == swPinPadCancel:
		return &types.VerifyPinError{Status: types.PinStatusCancelled, Retries: types.RetriesUnknown}
	case sw == swWrongLength:
		return &types.VerifyPinError{Status: types.PinStatusInvalidLength, Retries: types.RetriesUnknown}
	case sw == swRefDataInvalid, sw == swSelectedInvalid:
		return &types.VerifyPinError{Status: types.PinStatusDisabled, Retries: types.RetriesUnknown}
	default:
		return &types.VerifyPinError{Status: types.PinStatusUnknown, Retries: types.RetriesUnknown}
	}
}
