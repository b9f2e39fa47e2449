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

package p11

import (
	"fmt"

	"github.com/miekg/pkcs11"

	"github.com/jeremyhahn/go-eid/pkg/types"
)

// sha256DigestInfoPrefix is the DER DigestInfo header for SHA-256, required
// in front of the digest when signing with raw CKM_RSA_PKCS.
var sha256DigestInfoPrefix = []byte{
	0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
	0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
}

// signingMechanism selects the cryptoki mechanism for the signature
// algorithm and prepares the data C_Sign expects. The input is always a
// precomputed digest; mechanisms that hash internally are not used.
func signingMechanism(alg types.SignatureAlgorithm, digest []byte) (*pkcs11.Mechanism, []byte, error) {
	switch alg {
	case types.AlgES256, types.AlgES384, types.AlgES512:
		// CKM_ECDSA signs the digest directly and returns raw r ‖ s,
		// which is the signature format the token carries.
		return pkcs11.NewMechanism(pkcs11.CKM_ECDSA, nil), digest, nil
	case types.AlgRS256:
		// Raw CKM_RSA_PKCS needs the DigestInfo structure built here.
		data := make([]byte, 0, len(sha256DigestInfoPrefix)+len(digest))
		data = append(data, sha256DigestInfoPrefix...)
		data = append(data, digest...)
		return pkcs11.NewMechanism(pkcs11.CKM_RSA_PKCS, nil), data, nil
	case types.AlgPS256:
		params := pkcs11.NewPSSParams(pkcs11.CKM_SHA256, pkcs11.CKG_MGF1_SHA256, 32)
		return pkcs11.NewMechanism(pkcs11.CKM_RSA_PKCS_PSS, params), digest, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", types.ErrUnsupportedAlgorithm, alg)
	}
}
