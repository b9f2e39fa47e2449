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
	"crypto/x509"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// certificateCmd prints the authentication certificate of the token in the
// reader, for enrolling the certificate with a relying party or inspecting
// its validity.
var certificateCmd = &cobra.Command{
	Use:   "certificate",
	Short: "Print the token's authentication certificate",
	Long: `Certificate reads the authentication certificate from the security token
in the reader and prints it: PEM with the text output format, subject and
validity fields with json. No PIN is required to read the certificate.`,
	RunE: runCertificate,
}

func runCertificate(cmd *cobra.Command, args []string) error {
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

	der, err := token.AuthCertificate()
	if err != nil {
		return err
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return fmt.Errorf("parsing authentication certificate: %w", err)
	}
	return NewPrinter(getConfig().OutputFormat, os.Stdout).PrintCertificate(cert)
}
