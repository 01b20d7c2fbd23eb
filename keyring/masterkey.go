// Package keyring implements the wallet-wide PasswordRotation algorithm
// (spec §4.7) and the explicit MasterKey state machine replacing the
// original coroutine-like paused master key (DESIGN NOTES §9). Grounded
// on the teacher's keychain subsystem tag and decred.org/dcrwallet's
// passphrase-rotation idiom; the concrete key derivation is
// golang.org/x/crypto/scrypt.
package keyring

import (
	"crypto/rand"

	"github.com/decred/slog"

	"github.com/notaryclient/notaryclient/notaryerr"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by this package.
func UseLogger(logger slog.Logger) { log = logger }

// state discriminates the two MasterKey variants: exactly one may be
// active at a time. Key, Suspend and Regenerate require Active and Resume
// requires Suspended; each panics (an internal invariant violation)
// otherwise. IsSuspended and RestoreFromSnapshot check no state.
type state int

const (
	stateActive state = iota
	stateSuspended
)

// MasterKey models the explicit Active/Suspended state machine from
// DESIGN NOTES §9. Active holds the live derived key; Suspended holds the
// saved key while an external passphrase is in use during a Nym import.
type MasterKey struct {
	st    state
	key   [32]byte
	saved [32]byte
}

// NewMasterKey derives an Active master key from passphrase using scrypt,
// matching the concrete derivation the teacher's wallet layer uses.
func NewMasterKey(passphrase []byte, salt []byte) (*MasterKey, error) {
	key, err := deriveKey(passphrase, salt)
	if err != nil {
		return nil, err
	}

	return &MasterKey{st: stateActive, key: key}, nil
}

// Key returns the live key. It is an internal invariant violation to call
// this while suspended.
func (m *MasterKey) Key() [32]byte {
	if m.st != stateActive {
		panic(notaryerr.Internal("master key accessed while suspended"))
	}

	return m.key
}

// Suspend transitions Active -> Suspended, saving the current key so
// Resume can restore it. Used when importing a Nym whose credentials are
// encrypted under an external passphrase (spec §5). Exactly one pause may
// be active at a time: calling Suspend while already suspended is an
// internal invariant violation.
func (m *MasterKey) Suspend() {
	if m.st == stateSuspended {
		panic(notaryerr.Internal("master key suspended twice"))
	}

	m.saved = m.key
	m.st = stateSuspended
}

// Resume transitions Suspended -> Active, restoring the saved key.
func (m *MasterKey) Resume() {
	if m.st != stateSuspended {
		panic(notaryerr.Internal("master key resumed while not suspended"))
	}

	m.key = m.saved
	m.saved = [32]byte{}
	m.st = stateActive
}

// IsSuspended reports whether the key is currently suspended.
func (m *MasterKey) IsSuspended() bool { return m.st == stateSuspended }

// Regenerate replaces the Active key with one derived from a new
// passphrase, returning the prior key as a recovery snapshot. It is an
// internal invariant violation to call this while suspended.
func (m *MasterKey) Regenerate(passphrase, salt []byte) (snapshot [32]byte, err error) {
	if m.st != stateActive {
		panic(notaryerr.Internal("master key regenerated while suspended"))
	}

	snapshot = m.key

	newKey, err := deriveKey(passphrase, salt)
	if err != nil {
		return snapshot, err
	}

	m.key = newKey

	return snapshot, nil
}

// RestoreFromSnapshot restores the Active key to a prior snapshot, used
// when Regenerate's caller must abort and roll back (spec §4.7 step d).
func (m *MasterKey) RestoreFromSnapshot(snapshot [32]byte) {
	m.key = snapshot
}

// NewRandomPassphrase returns a cryptographically random temporary
// passphrase, held only in RAM per spec §4.7 step (b).
func NewRandomPassphrase() ([]byte, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	return buf, nil
}
