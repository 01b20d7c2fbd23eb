package notarytypes

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v3/ecdsa"
)

// signCompact hashes digest with chainhash.HashB and signs the hash with
// priv, returning a recoverable compact signature, the same primitive the teacher's zpay32
// invoice codec uses for signing/verifying invoices.
func signCompact(priv *secp256k1.PrivateKey, digest []byte) []byte {
	h := chainhash.HashB(digest)

	return ecdsa.SignCompact(priv, h, true)
}

// VerifyCompact verifies a compact signature produced by signCompact
// against the given public key and digest.
func VerifyCompact(pub *secp256k1.PublicKey, digest, sig []byte) bool {
	h := chainhash.HashB(digest)

	recoveredPub, _, err := ecdsa.RecoverCompact(sig, h)
	if err != nil {
		return false
	}

	return recoveredPub.IsEqual(pub)
}
