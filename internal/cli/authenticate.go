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

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-eid/pkg/auth"
	"github.com/jeremyhahn/go-eid/pkg/correlation"
)

var (
	authNonce     string
	authOrigin    string
	authLang      string
	authFromStdin bool
)

// authenticateCmd produces a signed authentication token for a
// server-issued challenge nonce.
var authenticateCmd = &cobra.Command{
	Use:   "authenticate",
	Short: "Sign a Web eID authentication token",
	Long: `Authenticate signs a Web eID authentication token with the security
token in the reader, proving possession of the authentication key.

The challenge nonce and origin are taken from flags, or from a JSON command
envelope on stdin when --stdin is given:

  {"command": "authenticate",
   "arguments": {"challengeNonce": "<nonce>", "origin": "<origin URL>"}}

The PIN is requested interactively. A wrong PIN with retries remaining
prompts again; cancelling PIN entry ends the attempt quietly.`,
	RunE: runAuthenticate,
}

func init() {
	authenticateCmd.Flags().StringVar(&authNonce, "nonce", "",
		"server-issued challenge nonce (44-128 characters)")
	authenticateCmd.Flags().StringVar(&authOrigin, "origin", "",
		"origin URL of the relying party (https://host[:port])")
	authenticateCmd.Flags().StringVar(&authLang, "lang", "",
		"UI language hint (informational)")
	authenticateCmd.Flags().BoolVar(&authFromStdin, "stdin", false,
		"read the JSON command envelope from stdin")
}

func runAuthenticate(cmd *cobra.Command, args []string) error {
	nonce, originURL := authNonce, authOrigin
	if authFromStdin {
		env, err := decodeEnvelope(cmd.InOrStdin())
		if err != nil {
			return err
		}
		nonce, originURL = env.Arguments.ChallengeNonce, env.Arguments.Origin
	}
	if nonce == "" || originURL == "" {
		return fmt.Errorf("--nonce and --origin are required (or use --stdin)")
	}

	cfg, err := getConfig().loadAppConfig()
	if err != nil {
		return err
	}
	logger := getConfig().newLogger(cfg)

	token, closer, err := buildToken(cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	appVersion := cfg.AppVersion
	if appVersion == "" {
		appVersion = "https://web-eid.eu/web-eid-app/releases/" + Version
	}
	authenticator, err := auth.NewAuthenticator(token, newConsoleNotifier(os.Stderr), logger, appVersion)
	if err != nil {
		return err
	}

	ctx := correlation.WithAttemptID(context.Background(), correlation.NewID())
	for {
		material, err := promptPIN(token.Name())
		if err != nil {
			return err
		}
		authToken, err := authenticator.Authenticate(ctx, nonce, originURL, material)
		switch {
		case err == nil:
			return NewPrinter(getConfig().OutputFormat, os.Stdout).PrintToken(authToken)
		case errors.Is(err, auth.ErrPinRetryAllowed):
			continue
		case errors.Is(err, auth.ErrAttemptAbandoned):
			// User cancelled or the PIN pad timed out. Not a failure to
			// display; end the attempt quietly.
			return nil
		default:
			return err
		}
	}
}
