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

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-eid/pkg/pin"
	"github.com/jeremyhahn/go-eid/pkg/types"
)

// fakeToken implements types.SecurityToken in memory. signErr, when set, is
// returned from SignWithAuthKey instead of signing.
type fakeToken struct {
	algorithm   types.SignatureAlgorithm
	certificate []byte
	signature   []byte
	signErr     error

	signCalls  int
	signedData []byte
	pinSeen    []byte
}

func (f *fakeToken) Name() string { return "Fake eID Card" }

func (f *fakeToken) AuthSignatureAlgorithm() types.SignatureAlgorithm { return f.algorithm }

func (f *fakeToken) AuthCertificate() ([]byte, error) { return f.certificate, nil }

func (f *fakeToken) SignWithAuthKey(material *pin.Material, digest []byte) ([]byte, error) {
	f.signCalls++
	f.signedData = append([]byte(nil), digest...)
	pinBytes, err := material.Bytes()
	if err != nil {
		return nil, err
	}
	f.pinSeen = append([]byte(nil), pinBytes...)
	if f.signErr != nil {
		return nil, f.signErr
	}
	return f.signature, nil
}

func newFakeToken() *fakeToken {
	return &fakeToken{
		algorithm:   types.AlgES256,
		certificate: []byte{0x30, 0x82, 0x01, 0x0A, 0x02},
		signature:   []byte{0x5A, 0x5A, 0x5A, 0x5A},
	}
}

// recordingNotifier captures notification calls for assertions.
type recordingNotifier struct {
	disabledCalls int
	failedCalls   int
	lastStatus    types.PinStatus
	lastRetries   int
}

func (n *recordingNotifier) PinVerifyDisabled() { n.disabledCalls++ }

func (n *recordingNotifier) PinVerifyFailed(status types.PinStatus, retries int) {
	n.failedCalls++
	n.lastStatus = status
	n.lastRetries = retries
}

func mustPin(t *testing.T) *pin.Material {
	t.Helper()
	m, err := pin.FromBytes([]byte("1234"))
	require.NoError(t, err)
	return m
}

func newTestAuthenticator(t *testing.T, token types.SecurityToken, notifier types.Notifier) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator(token, notifier, nil, "")
	require.NoError(t, err)
	return a
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNewAuthenticator_NilToken(t *testing.T) {
	_, err := NewAuthenticator(nil, nil, nil, "")
	assert.ErrorIs(t, err, ErrTokenRequired)
}

func TestNewAuthenticator_Defaults(t *testing.T) {
	a, err := NewAuthenticator(newFakeToken(), nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultAppVersion, a.appVersion)
	assert.NotNil(t, a.notifier)
	assert.NotNil(t, a.logger)
}

// =============================================================================
// Authenticate Tests
// =============================================================================

func TestAuthenticate_Success(t *testing.T) {
	token := newFakeToken()
	a := newTestAuthenticator(t, token, nil)
	material := mustPin(t)

	got, err := a.Authenticate(context.Background(), testNonce, testOrigin, material)
	require.NoError(t, err)

	assert.Equal(t, base64.StdEncoding.EncodeToString(token.certificate), got.UnverifiedCertificate)
	assert.Equal(t, "ES256", got.Algorithm)
	assert.Equal(t, base64.StdEncoding.EncodeToString(token.signature), got.Signature)
	assert.Equal(t, TokenFormat, got.Format)
	assert.Equal(t, DefaultAppVersion, got.AppVersion)

	// The token signed exactly the protocol digest.
	wantDigest, err := DigestToSign(types.AlgES256, testOrigin, testNonce)
	require.NoError(t, err)
	assert.Equal(t, wantDigest, token.signedData)
	assert.Equal(t, []byte("1234"), token.pinSeen)

	// PIN material is zeroized after the attempt.
	assert.True(t, material.Cleared())
}

func TestAuthenticate_CanonicalizesOrigin(t *testing.T) {
	token := newFakeToken()
	a := newTestAuthenticator(t, token, nil)

	_, err := a.Authenticate(context.Background(), testNonce, "HTTPS://RIA.ee:443/", mustPin(t))
	require.NoError(t, err)

	// Digest is over the canonical origin serialization.
	wantDigest, err := DigestToSign(types.AlgES256, "https://ria.ee", testNonce)
	require.NoError(t, err)
	assert.Equal(t, wantDigest, token.signedData)
}

func TestAuthenticate_ShortNonce(t *testing.T) {
	token := newFakeToken()
	a := newTestAuthenticator(t, token, nil)
	material := mustPin(t)

	_, err := a.Authenticate(context.Background(), "too-short", testOrigin, material)
	assert.ErrorIs(t, err, ErrInputData)
	assert.Zero(t, token.signCalls)
	assert.True(t, material.Cleared())
}

func TestAuthenticate_BadOrigin(t *testing.T) {
	token := newFakeToken()
	a := newTestAuthenticator(t, token, nil)
	material := mustPin(t)

	_, err := a.Authenticate(context.Background(), testNonce, "http://insecure.example.com", material)
	assert.ErrorIs(t, err, ErrInputData)
	assert.Zero(t, token.signCalls)
	assert.True(t, material.Cleared())
}

func TestAuthenticate_UnsupportedAlgorithm(t *testing.T) {
	token := newFakeToken()
	token.algorithm = types.SignatureAlgorithm("HS256")
	a := newTestAuthenticator(t, token, nil)
	material := mustPin(t)

	_, err := a.Authenticate(context.Background(), testNonce, testOrigin, material)
	assert.ErrorIs(t, err, ErrProgramming)
	assert.Zero(t, token.signCalls)
	assert.True(t, material.Cleared())
}

// =============================================================================
// PIN Failure Classification Tests
// =============================================================================

func TestAuthenticate_WrongPinWithRetries(t *testing.T) {
	token := newFakeToken()
	token.signErr = &types.VerifyPinError{Status: types.PinStatusWrongPin, Retries: 2}
	notifier := &recordingNotifier{}
	a := newTestAuthenticator(t, token, notifier)
	material := mustPin(t)

	_, err := a.Authenticate(context.Background(), testNonce, testOrigin, material)
	assert.ErrorIs(t, err, ErrPinRetryAllowed)
	assert.Equal(t, 1, notifier.failedCalls)
	assert.Equal(t, types.PinStatusWrongPin, notifier.lastStatus)
	assert.Equal(t, 2, notifier.lastRetries)
	assert.True(t, material.Cleared())
}

func TestAuthenticate_LastRetryExhausted(t *testing.T) {
	pinErr := &types.VerifyPinError{Status: types.PinStatusWrongPin, Retries: 0}
	token := newFakeToken()
	token.signErr = pinErr
	notifier := &recordingNotifier{}
	a := newTestAuthenticator(t, token, notifier)

	_, err := a.Authenticate(context.Background(), testNonce, testOrigin, mustPin(t))

	// The original token error comes back unchanged, not wrapped in a
	// recoverable marker.
	assert.NotErrorIs(t, err, ErrPinRetryAllowed)
	var got *types.VerifyPinError
	require.ErrorAs(t, err, &got)
	assert.Same(t, pinErr, got)

	assert.Equal(t, 1, notifier.failedCalls)
	assert.Equal(t, 0, notifier.lastRetries)
}

func TestAuthenticate_Blocked(t *testing.T) {
	token := newFakeToken()
	token.signErr = &types.VerifyPinError{Status: types.PinStatusBlocked, Retries: 0}
	notifier := &recordingNotifier{}
	a := newTestAuthenticator(t, token, notifier)

	_, err := a.Authenticate(context.Background(), testNonce, testOrigin, mustPin(t))
	assert.NotErrorIs(t, err, ErrPinRetryAllowed)
	var got *types.VerifyPinError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, types.PinStatusBlocked, got.Status)
	assert.Equal(t, 1, notifier.failedCalls)
}

func TestAuthenticate_CancelAndTimeoutAreSilent(t *testing.T) {
	for _, status := range []types.PinStatus{types.PinStatusCancelled, types.PinStatusTimeout} {
		t.Run(string(status), func(t *testing.T) {
			token := newFakeToken()
			token.signErr = &types.VerifyPinError{Status: status, Retries: types.RetriesUnknown}
			notifier := &recordingNotifier{}
			a := newTestAuthenticator(t, token, notifier)
			material := mustPin(t)

			_, err := a.Authenticate(context.Background(), testNonce, testOrigin, material)
			assert.ErrorIs(t, err, ErrAttemptAbandoned)

			// No notification of any kind for an abandoned attempt.
			assert.Zero(t, notifier.failedCalls)
			assert.Zero(t, notifier.disabledCalls)
			assert.True(t, material.Cleared())
		})
	}
}

func TestAuthenticate_VerificationDisabled(t *testing.T) {
	pinErr := &types.VerifyPinError{Status: types.PinStatusDisabled, Retries: types.RetriesUnknown}
	token := newFakeToken()
	token.signErr = pinErr
	notifier := &recordingNotifier{}
	a := newTestAuthenticator(t, token, notifier)

	_, err := a.Authenticate(context.Background(), testNonce, testOrigin, mustPin(t))

	assert.Equal(t, 1, notifier.disabledCalls)
	assert.Zero(t, notifier.failedCalls)

	// No retries are possible; the original error propagates.
	var got *types.VerifyPinError
	require.ErrorAs(t, err, &got)
	assert.Same(t, pinErr, got)
}

func TestAuthenticate_TransportErrorPassesThrough(t *testing.T) {
	transportErr := errors.New("scard: card was removed")
	token := newFakeToken()
	token.signErr = transportErr
	notifier := &recordingNotifier{}
	a := newTestAuthenticator(t, token, notifier)
	material := mustPin(t)

	_, err := a.Authenticate(context.Background(), testNonce, testOrigin, material)
	assert.ErrorIs(t, err, transportErr)
	assert.Zero(t, notifier.failedCalls)
	assert.Zero(t, notifier.disabledCalls)
	assert.True(t, material.Cleared())
}
