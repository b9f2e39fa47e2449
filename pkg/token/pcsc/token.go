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

// Package pcsc implements the security-token interface on top of PC/SC
// smart cards. PIN verification and signing happen on the card; this
// package only frames APDUs and decodes status words. Private key material
// never crosses the reader boundary.
package pcsc

import (
	"errors"
	"fmt"

	"github.com/ebfe/scard"

	"github.com/jeremyhahn/go-eid/pkg/logging"
	"github.com/jeremyhahn/go-eid/pkg/pin"
	"github.com/jeremyhahn/go-eid/pkg/types"
)

var (
	// ErrNoReader indicates no smart-card reader was found.
	ErrNoReader = errors.New("pcsc: no smart-card reader found")

	// ErrNoCard indicates no card is present in any matching reader.
	ErrNoCard = errors.New("pcsc: no card present")

	// ErrPinLength indicates the PIN length is outside the card profile's
	// bounds. Reported before the card sees the PIN.
	ErrPinLength = errors.New("pcsc: PIN length out of card bounds")
)

// Token is a PC/SC-backed security token. It holds an exclusive card
// connection for its lifetime; Close releases it.
type Token struct {
	ctx     *scard.Context
	conn    *scard.Card
	card    Card
	profile *Profile
	reader  string
	logger  *logging.Logger
	certDER []byte
}

// Connect establishes a PC/SC context, connects to the card in the named
// reader (or the first reader with a card when readerName is empty) and
// selects the authentication applet.
func Connect(readerName string, profile *Profile, logger *logging.Logger) (*Token, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("pcsc: establishing context: %w", err)
	}

	readers, err := ctx.ListReaders()
	if err != nil || len(readers) == 0 {
		ctx.Release()
		return nil, ErrNoReader
	}

	var card *scard.Card
	var reader string
	for _, r := range readers {
		if readerName != "" && r != readerName {
			continue
		}
		c, err := ctx.Connect(r, scard.ShareShared, scard.ProtocolAny)
		if err != nil {
			continue
		}
		card, reader = c, r
		break
	}
	if card == nil {
		ctx.Release()
		return nil, ErrNoCard
	}

	if err := selectAID(card, profile.AID); err != nil {
		card.Disconnect(scard.LeaveCard)
		ctx.Release()
		return nil, fmt.Errorf("pcsc: selecting applet %s: %w", profile.Name, err)
	}
	logger.Debug("connected to card", "reader", reader, "profile", profile.Name)

	return &Token{
		ctx:     ctx,
		conn:    card,
		card:    card,
		profile: profile,
		reader:  reader,
		logger:  logger,
	}, nil
}

// Name implements types.SecurityToken.
func (t *Token) Name() string {
	return t.profile.Name
}

// AuthSignatureAlgorithm implements types.SecurityToken.
func (t *Token) AuthSignatureAlgorithm() types.SignatureAlgorithm {
	return t.profile.Algorithm
}

// AuthCertificate implements types.SecurityToken. The DER certificate is
// read once and cached for the connection's lifetime.
func (t *Token) AuthCertificate() ([]byte, error) {
	if t.certDER != nil {
		return t.certDER, nil
	}
	for _, fileID := range t.profile.CertFilePath {
		if err := selectFile(t.card, fileID); err != nil {
			return nil, fmt.Errorf("pcsc: selecting certificate file %04X: %w", fileID, err)
		}
	}
	// Read the DER header first to learn the certificate length, then the
	// full value.
	header, err := readBinary(t.card, 4)
	if err != nil {
		return nil, fmt.Errorf("pcsc: reading certificate header: %w", err)
	}
	length, err := derLength(header)
	if err != nil {
		return nil, err
	}
	der, err := readBinary(t.card, length)
	if err != nil {
		return nil, fmt.Errorf("pcsc: reading certificate: %w", err)
	}
	t.certDER = der
	return der, nil
}

// SignWithAuthKey implements types.SecurityToken: VERIFY with the framed
// PIN block, then INTERNAL AUTHENTICATE over the digest. The PIN frame is
// built in place inside the caller's material; the caller clears it after
// this returns.
func (t *Token) SignWithAuthKey(material *pin.Material, digest []byte) ([]byte, error) {
	if material.Len() < t.profile.MinPinLength || material.Len() > t.profile.MaxPinLength {
		return nil, fmt.Errorf("%w: %d", ErrPinLength, material.Len())
	}

	padTo := t.profile.PinPadLength
	if padTo == 0 {
		padTo = material.Len()
	}
	header := []byte{0x00, 0x20, 0x00, t.profile.PinReference, byte(padTo)}
	frame, err := material.Envelope(header, padTo, t.profile.PinFiller)
	if err != nil {
		return nil, err
	}
	_, sw, err := transmit(t.card, frame)
	if err != nil {
		return nil, err
	}
	if err := decodeVerifyStatus(sw); err != nil {
		return nil, err
	}

	apdu := make([]byte, 0, 5+len(digest)+1)
	apdu = append(apdu, 0x00, 0x88, 0x00, t.profile.KeyReference, byte(len(digest)))
	apdu = append(apdu, digest...)
	apdu = append(apdu, 0x00)
	signature, sw, err := transmit(t.card, apdu)
	if err != nil {
		return nil, err
	}
	if sw != swOK {
		return nil, &SWError{Ins: 0x88, SW: sw}
	}
	if len(signature) == 0 {
		return nil, fmt.Errorf("pcsc: card returned empty signature")
	}
	return signature, nil
}

// Close disconnects from the card and releases the PC/SC context.
func (t *Token) Close() error {
	var firstErr error
	if t.conn != nil {
		if err := t.conn.Disconnect(scard.LeaveCard); err != nil {
			firstErr = fmt.Errorf("pcsc: disconnect: %w", err)
		}
		t.conn, t.card = nil, nil
	}
	if t.ctx != nil {
		if err := t.ctx.Release(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("pcsc: release context: %w", err)
		}
		t.ctx = nil
	}
	return firstErr
}

// derLength decodes the total length of a DER SEQUENCE from its first
// bytes (tag, length, and up to two length octets).
func derLength(header []byte) (int, error) {
	if len(header) < 2 || header[0] != 0x30 {
		return 0, fmt.Errorf("pcsc: certificate file does not start with a DER SEQUENCE")
	}
	switch b := header[1]; {
	case b < 0x80:
		return int(b) + 2, nil
	case b == 0x81 && len(header) >= 3:
		return int(header[2]) + 3, nil
	case b == 0x82 && len(header) >= 4:
		return (int(header[2])<<8 | int(header[3])) + 4, nil
	default:
		return 0, fmt.Errorf("pcsc: unsupported DER length encoding %02X", header[1])
	}
}
