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

// Package p11 implements the security-token interface on top of PKCS#11
// modules, for eID tokens that ship a vendor cryptoki library instead of a
// documented APDU interface. PIN verification happens inside C_Login and
// signing inside C_Sign; the private key never leaves the token.
package p11

import (
	"errors"
	"fmt"

	"github.com/miekg/pkcs11"

	"github.com/jeremyhahn/go-eid/pkg/logging"
	"github.com/jeremyhahn/go-eid/pkg/pin"
	"github.com/jeremyhahn/go-eid/pkg/types"
)

var (
	// ErrTokenNotFound indicates no usable PKCS#11 slot was found.
	ErrTokenNotFound = errors.New("p11: token not found")

	// ErrKeyNotFound indicates the authentication key object was not found.
	ErrKeyNotFound = errors.New("p11: authentication key not found")

	// ErrCertNotFound indicates the authentication certificate object was
	// not found.
	ErrCertNotFound = errors.New("p11: authentication certificate not found")
)

// Config describes the PKCS#11 module and the objects holding the
// authentication key and certificate.
type Config struct {
	// Module is the path to the vendor PKCS#11 library.
	Module string

	// Slot pins the slot ID; nil selects the first slot with a token.
	Slot *uint

	// KeyLabel is the CKA_LABEL of the authentication key and certificate
	// objects.
	KeyLabel string

	// Algorithm is the signature algorithm of the authentication key.
	Algorithm types.SignatureAlgorithm
}

// Token is a PKCS#11-backed security token.
type Token struct {
	ctx     *pkcs11.Ctx
	slot    uint
	label   string
	config  *Config
	logger  *logging.Logger
	certDER []byte
}

// Open loads the PKCS#11 module and locates the token slot.
func Open(config *Config, logger *logging.Logger) (*Token, error) {
	if config == nil || config.Module == "" {
		return nil, fmt.Errorf("p11: module path is required")
	}
	if !config.Algorithm.IsValid() {
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedAlgorithm, config.Algorithm)
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	ctx := pkcs11.New(config.Module)
	if ctx == nil {
		return nil, fmt.Errorf("p11: cannot load module %s", config.Module)
	}
	if err := ctx.Initialize(); err != nil {
		ctx.Destroy()
		return nil, fmt.Errorf("p11: initializing module: %w", err)
	}

	slots, err := ctx.GetSlotList(true)
	if err != nil || len(slots) == 0 {
		ctx.Finalize()
		ctx.Destroy()
		return nil, ErrTokenNotFound
	}
	slot := slots[0]
	if config.Slot != nil {
		slot = *config.Slot
	}

	tokenInfo, err := ctx.GetTokenInfo(slot)
	if err != nil {
		ctx.Finalize()
		ctx.Destroy()
		return nil, fmt.Errorf("p11: reading token info: %w", err)
	}
	logger.Debug("opened PKCS#11 token", "slot", slot, "label", tokenInfo.Label)

	return &Token{
		ctx:    ctx,
		slot:   slot,
		label:  tokenInfo.Label,
		config: config,
		logger: logger,
	}, nil
}

// Name implements types.SecurityToken.
func (t *Token) Name() string {
	return t.label
}

// AuthSignatureAlgorithm implements types.SecurityToken.
func (t *Token) AuthSignatureAlgorithm() types.SignatureAlgorithm {
	return t.config.Algorithm
}

// AuthCertificate implements types.SecurityToken.
func (t *Token) AuthCertificate() ([]byte, error) {
	if t.certDER != nil {
		return t.certDER, nil
	}
	session, err := t.ctx.OpenSession(t.slot, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		return nil, fmt.Errorf("p11: opening session: %w", err)
	}
	defer t.ctx.CloseSession(session)

	obj, err := t.findObject(session, pkcs11.CKO_CERTIFICATE)
	if err != nil {
		return nil, err
	}
	attrs, err := t.ctx.GetAttributeValue(session, obj, []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_VALUE, nil),
	})
	if err != nil {
		return nil, fmt.Errorf("p11: reading certificate value: %w", err)
	}
	if len(attrs) == 0 || len(attrs[0].Value) == 0 {
		return nil, ErrCertNotFound
	}
	t.certDER = attrs[0].Value
	return t.certDER, nil
}

// SignWithAuthKey implements types.SecurityToken. The PIN is passed to
// C_Login; cryptoki takes it as a string, so the one unavoidable copy is
// the library's, not ours, and our buffer is cleared by the caller.
func (t *Token) SignWithAuthKey(material *pin.Material, digest []byte) ([]byte, error) {
	pinBytes, err := material.Bytes()
	if err != nil {
		return nil, err
	}

	session, err := t.ctx.OpenSession(t.slot, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		return nil, fmt.Errorf("p11: opening session: %w", err)
	}
	defer t.ctx.CloseSession(session)

	if err := t.ctx.Login(session, pkcs11.CKU_USER, string(pinBytes)); err != nil {
		return nil, t.loginError(err)
	}
	defer t.ctx.Logout(session)

	key, err := t.findObject(session, pkcs11.CKO_PRIVATE_KEY)
	if err != nil {
		return nil, err
	}

	mech, data, err := signingMechanism(t.config.Algorithm, digest)
	if err != nil {
		return nil, err
	}
	if err := t.ctx.SignInit(session, []*pkcs11.Mechanism{mech}, key); err != nil {
		return nil, fmt.Errorf("p11: sign init: %w", err)
	}
	signature, err := t.ctx.Sign(session, data)
	if err != nil {
		return nil, fmt.Errorf("p11: sign: %w", err)
	}
	return signature, nil
}

// Close finalizes and unloads the module.
func (t *Token) Close() error {
	if t.ctx == nil {
		return nil
	}
	err := t.ctx.Finalize()
	t.ctx.Destroy()
	t.ctx = nil
	if err != nil {
		return fmt.Errorf("p11: finalize: %w", err)
	}
	return nil
}

// findObject locates the object of the given class carrying the configured
// label.
func (t *Token) findObject(session pkcs11.SessionHandle, class uint) (pkcs11.ObjectHandle, error) {
	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, class),
	}
	if t.config.KeyLabel != "" {
		template = append(template, pkcs11.NewAttribute(pkcs11.CKA_LABEL, t.config.KeyLabel))
	}
	if err := t.ctx.FindObjectsInit(session, template); err != nil {
		return 0, fmt.Errorf("p11: find objects init: %w", err)
	}
	defer t.ctx.FindObjectsFinal(session)

	handles, _, err := t.ctx.FindObjects(session, 1)
	if err != nil {
		return 0, fmt.Errorf("p11: find objects: %w", err)
	}
	if len(handles) == 0 {
		if class == pkcs11.CKO_PRIVATE_KEY {
			return 0, ErrKeyNotFound
		}
		return 0, ErrCertNotFound
	}
	return handles[0], nil
}

// loginError maps C_Login return values onto the PIN failure taxonomy.
// Cryptoki does not report a retry count directly; it is approximated from
// the token's user-PIN state flags.
func (t *Token) loginError(err error) error {
	var ckr pkcs11.Error
	if !errors.As(err, &ckr) {
		return fmt.Errorf("p11: login: %w", err)
	}
	switch uint(ckr) {
	case pkcs11.CKR_PIN_INCORRECT, pkcs11.CKR_PIN_INVALID:
		return &types.VerifyPinError{
			Status:  types.PinStatusWrongPin,
			Retries: t.retriesLeft(),
		}
	case pkcs11.CKR_PIN_LOCKED:
		return &types.VerifyPinError{Status: types.PinStatusBlocked, Retries: 0}
	case pkcs11.CKR_PIN_LEN_RANGE:
		return &types.VerifyPinError{
			Status:  types.PinStatusInvalidLength,
			Retries: types.RetriesUnknown,
		}
	case pkcs11.CKR_FUNCTION_CANCELED:
		return &types.VerifyPinError{
			Status:  types.PinStatusCancelled,
			Retries: types.RetriesUnknown,
		}
	default:
		return fmt.Errorf("p11: login: %w", err)
	}
}

// retriesLeft approximates the remaining PIN attempts from the token flags:
// locked means none, final-try means one, count-low means two, otherwise
// the count is treated as three, the usual initial retry counter on eID
// tokens.
func (t *Token) retriesLeft() int {
	tokenInfo, err := t.ctx.GetTokenInfo(t.slot)
	if err != nil {
		return types.RetriesUnknown
	}
	switch {
	case tokenInfo.Flags&pkcs11.CKF_USER_PIN_LOCKED != 0:
		return 0
	case tokenInfo.Flags&pkcs11.CKF_USER_PIN_FINAL_TRY != 0:
		return 1
	case tokenInfo.Flags&pkcs11.CKF_USER_PIN_COUNT_LOW != 0:
		return 2
	default:
		return 3
	}
}
