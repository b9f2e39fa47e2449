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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-eid/pkg/types"
)

// scriptedCard replays canned responses and records the APDUs it saw.
type scriptedCard struct {
	responses [][]byte
	sent      [][]byte
}

func (c *scriptedCard) Transmit(apdu []byte) ([]byte, error) {
	c.sent = append(c.sent, append([]byte(nil), apdu...))
	if len(c.responses) == 0 {
		return nil, assert.AnError
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func TestTransmit(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{{0x01, 0x02, 0x90, 0x00}}}
	data, sw, err := transmit(card, []byte{0x00, 0xB0, 0x00, 0x00, 0x02})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, data)
	assert.Equal(t, uint16(swOK), sw)
}

// TestTransmit_GetResponseChaining checks 61XX continuation: the remaining
// bytes are fetched with GET RESPONSE and concatenated.
func TestTransmit_GetResponseChaining(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{
		{0x01, 0x02, 0x61, 0x03},
		{0x03, 0x04, 0x61, 0x01},
		{0x05, 0x90, 0x00},
	}}
	data, sw, err := transmit(card, []byte{0x00, 0x88, 0x00, 0x81, 0x00})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05}, data)
	assert.Equal(t, uint16(swOK), sw)

	// Each continuation is a GET RESPONSE with Le from the status word.
	require.Len(t, card.sent, 3)
	assert.Equal(t, []byte{0x00, 0xC0, 0x00, 0x00, 0x03}, card.sent[1])
	assert.Equal(t, []byte{0x00, 0xC0, 0x00, 0x00, 0x01}, card.sent[2])
}

func TestTransmit_ShortResponse(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{{0x90}}}
	_, _, err := transmit(card, []byte{0x00, 0xA4, 0x04, 0x00, 0x00})
	assert.Error(t, err)
}

func TestSelectAID(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{{0x90, 0x00}}}
	aid := []byte{0xA0, 0x00, 0x00, 0x00, 0x77}
	require.NoError(t, selectAID(card, aid))
	assert.Equal(t, []byte{0x00, 0xA4, 0x04, 0x00, 0x05, 0xA0, 0x00, 0x00, 0x00, 0x77}, card.sent[0])
}

func TestSelectAID_NotFound(t *testing.T) {
	card := &scriptedCard{responses: [][]byte{{0x6A, 0x82}}}
	err := selectAID(card, []byte{0xA0, 0x00})

	var swErr *SWError
	require.ErrorAs(t, err, &swErr)
	assert.Equal(t, uint16(0x6A82), swErr.SW)
	assert.Equal(t, byte(0xA4), swErr.Ins)
}

func TestReadBinary_Chunked(t *testing.T) {
	// 0xB0 bytes in the first chunk, 0x10 in the second.
	first := make([]byte, 0xB0+2)
	for i := 0; i < 0xB0; i++ {
		first[i] = byte(i)
	}
	first[0xB0], first[0xB0+1] = 0x90, 0x00
	second := make([]byte, 0x10+2)
	for i := 0; i < 0x10; i++ {
		second[i] = byte(0xB0 + i)
	}
	second[0x10], second[0x10+1] = 0x90, 0x00

	card := &scriptedCard{responses: [][]byte{first, second}}
	data, err := readBinary(card, 0xC0)
	require.NoError(t, err)
	assert.Len(t, data, 0xC0)

	// Second READ BINARY starts at offset 0xB0.
	require.Len(t, card.sent, 2)
	assert.Equal(t, []byte{0x00, 0xB0, 0x00, 0xB0, 0x10}, card.sent[1])
}

// =============================================================================
// VERIFY Status Word Decoding Tests
// =============================================================================

func TestDecodeVerifyStatus(t *testing.T) {
	tests := []struct {
		name        string
		sw          uint16
		wantStatus  types.PinStatus
		wantRetries int
	}{
		{"WrongPinThreeLeft", 0x63C3, types.PinStatusWrongPin, 3},
		{"WrongPinOneLeft", 0x63C1, types.PinStatusWrongPin, 1},
		{"WrongPinNoneLeft", 0x63C0, types.PinStatusBlocked, 0},
		{"Blocked", 0x6983, types.PinStatusBlocked, 0},
		{"PinPadTimeout", 0x6400, types.PinStatusTimeout, types.RetriesUnknown},
		{"PinPadCancel", 0x6401, types.PinStatusCancelled, types.RetriesUnknown},
		{"WrongLength", 0x6700, types.PinStatusInvalidLength, types.RetriesUnknown},
		{"RefDataInvalid", 0x6984, types.PinStatusDisabled, types.RetriesUnknown},
		{"SelectedInvalid", 0x6283, types.PinStatusDisabled, types.RetriesUnknown},
		{"Unclassified", 0x6F00, types.PinStatusUnknown, types.RetriesUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeVerifyStatus(tt.sw)
			var pinErr *types.VerifyPinError
			require.ErrorAs(t, err, &pinErr)
			assert.Equal(t, tt.wantStatus, pinErr.Status)
			assert.Equal(t, tt.wantRetries, pinErr.Retries)
		})
	}
}

func TestDecodeVerifyStatus_OK(t *testing.T) {
	assert.NoError(t, decodeVerifyStatus(swOK))
}
