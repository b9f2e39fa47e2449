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

// Package auth implements the authentication signing protocol: input
// validation, domain-separated digest construction, the on-token signing
// call, PIN-failure classification and token assembly.
//
// One Authenticate call is one attempt. The PIN material passed in is
// consumed by the call and zeroized on every exit path. At most one attempt
// runs against a given token at a time; the card hardware serializes access
// below this layer anyway.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jeremyhahn/go-eid/pkg/correlation"
	"github.com/jeremyhahn/go-eid/pkg/logging"
	"github.com/jeremyhahn/go-eid/pkg/metrics"
	"github.com/jeremyhahn/go-eid/pkg/origin"
	"github.com/jeremyhahn/go-eid/pkg/pin"
	"github.com/jeremyhahn/go-eid/pkg/types"
)

// DefaultAppVersion is the provenance string placed in tokens when the
// caller does not supply one. The version segment is replaced by the build
// version at wiring time.
const DefaultAppVersion = "https://web-eid.eu/web-eid-app/releases/dev"

// Authenticator produces signed authentication tokens proving possession of
// the authentication key held on a security token.
type Authenticator struct {
	token      types.SecurityToken
	notifier   types.Notifier
	logger     *logging.Logger
	appVersion string
}

var (
	// ErrTokenRequired indicates a nil security token was provided.
	ErrTokenRequired = errors.New("auth: security token is required")
)

// NewAuthenticator creates an authenticator for the given security token.
// notifier may be nil, in which case notifications are discarded; logger
// and appVersion fall back to defaults when zero.
func NewAuthenticator(token types.SecurityToken, notifier types.Notifier,
	logger *logging.Logger, appVersion string) (*Authenticator, error) {

	if token == nil {
		return nil, ErrTokenRequired
	}
	if notifier == nil {
		notifier = types.NoopNotifier{}
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if appVersion == "" {
		appVersion = DefaultAppVersion
	}
	return &Authenticator{
		token:      token,
		notifier:   notifier,
		logger:     logger,
		appVersion: appVersion,
	}, nil
}

// Authenticate runs one authentication attempt: validates the nonce and
// origin, derives the digest, has the token verify the PIN and sign
// on-device, and assembles the token.
//
// Authenticate takes ownership of the PIN material and zeroizes it before
// returning, on every path. On a PIN verification failure the outcome is
// classified exactly once: user cancel and PIN-pad timeout return
// ErrAttemptAbandoned without notification, recoverable failures notify the
// UI and return ErrPinRetryAllowed, and a failure with no retries left
// propagates the token's original error unchanged.
func (a *Authenticator) Authenticate(ctx context.Context, challengeNonce, rawOrigin string,
	material *pin.Material) (*Token, error) {

	defer material.Clear()

	if err := ValidateChallengeNonce(challengeNonce); err != nil {
		return nil, err
	}
	signedOrigin, err := origin.Validate(rawOrigin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputData, err)
	}

	alg := a.token.AuthSignatureAlgorithm()
	digest, err := DigestToSign(alg, signedOrigin, challengeNonce)
	if err != nil {
		return nil, err
	}

	certificate, err := a.token.AuthCertificate()
	if err != nil {
		return nil, fmt.Errorf("auth: reading authentication certificate: %w", err)
	}

	attemptID := correlation.GetOrGenerate(ctx)
	a.logger.Debug("starting authentication signing",
		"attempt", attemptID, "token", a.token.Name(), "algorithm", alg.String())

	start := time.Now()
	signature, err := a.token.SignWithAuthKey(material, digest)
	if err != nil {
		return nil, a.classifyPinFailure(attemptID, alg, err, time.Since(start))
	}
	metrics.RecordAuthentication(alg.String(), metrics.StatusSuccess, time.Since(start))
	a.logger.Info("authentication token signed",
		"attempt", attemptID, "algorithm", alg.String())

	return NewToken(alg, certificate, signature, a.appVersion), nil
}

// classifyPinFailure applies the PIN-failure disposition table once per
// failed signing attempt.
//
//	cancel, timeout            -> silent abort, no notification
//	verification disabled      -> notify "verification disabled", then retries rule
//	wrong PIN, blocked, other  -> notify "PIN failed" with status and count, then retries rule
//	retries rule: >0 -> ErrPinRetryAllowed; 0 -> original error unchanged
//
// Errors that are not PIN verification failures (transport faults, card
// removed) propagate unmodified.
func (a *Authenticator) classifyPinFailure(attemptID string, alg types.SignatureAlgorithm,
	err error, elapsed time.Duration) error {

	var pinErr *types.VerifyPinError
	if !errors.As(err, &pinErr) {
		metrics.RecordAuthentication(alg.String(), metrics.StatusError, elapsed)
		return err
	}
	metrics.RecordPinFailure(pinErr.Status.String())

	switch pinErr.Status {
	case types.PinStatusCancelled, types.PinStatusTimeout:
		metrics.RecordAuthentication(alg.String(), metrics.StatusAbandoned, elapsed)
		a.logger.Debug("PIN entry abandoned", "attempt", attemptID, "status", pinErr.Status.String())
		return ErrAttemptAbandoned
	case types.PinStatusDisabled:
		a.notifier.PinVerifyDisabled()
	default:
		a.notifier.PinVerifyFailed(pinErr.Status, pinErr.Retries)
	}

	metrics.RecordAuthentication(alg.String(), metrics.StatusError, elapsed)
	a.logger.Warn("PIN verification failed",
		"attempt", attemptID, "status", pinErr.Status.String(), "retries", pinErr.Retries)

	if pinErr.Retries > 0 {
		return fmt.Errorf("%w: %v", ErrPinRetryAllowed, pinErr)
	}
	// Retries exhausted: the attempt sequence is over. Propagate the
	// original failure, not a recoverable wrapper.
	return err
}
