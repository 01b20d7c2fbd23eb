// Package purse implements PurseOwnership (spec §4.6): an abstract
// seal/open/identify capability over cash purses, with two variants — a
// Nym owner (public-key sealed) and a symmetric owner (an embedded key
// unlocked by a passphrase-derived master key). Grounded on the teacher's
// input package adaptor-capability pattern and its signer abstraction in
// lnwallet.
package purse

import (
	"crypto/rand"
	"fmt"

	"github.com/decred/slog"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by this package.
func UseLogger(logger slog.Logger) { log = logger }

// Identity is what Owner.Identify returns: either a Nym ID or a symmetric
// key fingerprint, never both.
type Identity struct {
	NymID       notarytypes.NymID
	Fingerprint string
}

// Owner is the abstract capability every purse operation consumes,
// regardless of which concrete variant backs it.
type Owner interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(ciphertext []byte) ([]byte, error)
	Identify() Identity
}

// nymOwner seals/opens using the registered Nym's public key material. The
// notary's abstract blinded-token provider is responsible for the actual
// blinding math (spec §1 non-goal); here Seal/Open model the envelope
// around a token, keyed by the Nym's public signing key as a stand-in for
// its encryption key, matching the spec's "encrypted to a Nym's public
// key" description.
type nymOwner struct {
	nym *notarytypes.Nym
}

// NewNymOwner returns an Owner capability backed by nym.
func NewNymOwner(nym *notarytypes.Nym) Owner {
	return &nymOwner{nym: nym}
}

func (o *nymOwner) Seal(plaintext []byte) ([]byte, error) {
	if o.nym.PublicKey == nil {
		return nil, notaryerr.ErrInvalidInput
	}

	var key [32]byte
	copy(key[:], o.nym.PublicKey.SerializeCompressed())

	return sealSymmetric(plaintext, key)
}

func (o *nymOwner) Open(ciphertext []byte) ([]byte, error) {
	if o.nym.PrivateKey == nil {
		return nil, notaryerr.ErrUnauthorized
	}

	var key [32]byte
	copy(key[:], o.nym.PublicKey.SerializeCompressed())

	return openSymmetric(ciphertext, key)
}

func (o *nymOwner) Identify() Identity {
	return Identity{NymID: o.nym.ID}
}

// symmetricOwner seals/opens using an embedded symmetric key, itself
// protected by a passphrase-derived master key held only inside the purse
// that owns it.
type symmetricOwner struct {
	key         [32]byte
	fingerprint string
}

// NewSymmetricOwner returns an Owner capability backed by an already
// decrypted 32-byte symmetric key.
func NewSymmetricOwner(key [32]byte) Owner {
	return &symmetricOwner{
		key:         key,
		fingerprint: fingerprintOf(key[:]),
	}
}

func (o *symmetricOwner) Seal(plaintext []byte) ([]byte, error) {
	return sealSymmetric(plaintext, o.key)
}

func (o *symmetricOwner) Open(ciphertext []byte) ([]byte, error) {
	return openSymmetric(ciphertext, o.key)
}

func (o *symmetricOwner) Identify() Identity {
	return Identity{Fingerprint: o.fingerprint}
}

func sealSymmetric(plaintext []byte, key [32]byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}

	out := make([]byte, 24, 24+len(plaintext)+secretbox.Overhead)
	copy(out, nonce[:])

	return secretbox.Seal(out, plaintext, &nonce, &key), nil
}

func openSymmetric(ciphertext []byte, key [32]byte) ([]byte, error) {
	if len(ciphertext) < 24 {
		return nil, notaryerr.ErrInvalidInput
	}

	var nonce [24]byte
	copy(nonce[:], ciphertext[:24])

	plaintext, ok := secretbox.Open(nil, ciphertext[24:], &nonce, &key)
	if !ok {
		return nil, notaryerr.ErrUnauthorized
	}

	return plaintext, nil
}

func fingerprintOf(key []byte) string {
	return fmt.Sprintf("%x", key[:8])
}
