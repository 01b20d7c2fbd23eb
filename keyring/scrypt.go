package keyring

import "golang.org/x/crypto/scrypt"

const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// DeriveKey exposes the package's scrypt parameters to callers outside
// keyring that need the same derivation (e.g. wallet's Nym export/import,
// which encrypts under a passphrase without holding a live MasterKey).
func DeriveKey(passphrase, salt []byte) ([32]byte, error) {
	return deriveKey(passphrase, salt)
}

func deriveKey(passphrase, salt []byte) ([32]byte, error) {
	var out [32]byte

	derived, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return out, err
	}

	copy(out[:], derived)

	return out, nil
}
