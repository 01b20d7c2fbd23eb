package keyring

import (
	"fmt"

	"github.com/notaryclient/notaryclient/notaryerr"
)

// CredentialedNym is the subset of wallet state PasswordRotation needs
// per Nym: a way to verify it currently loads under the wallet's master
// key, re-encrypt under an arbitrary key, and persist.
type CredentialedNym interface {
	// VerifyLoadsUnder checks that this Nym's stored credentials decrypt
	// under key, without mutating anything.
	VerifyLoadsUnder(key [32]byte) error

	// ReEncrypt re-encrypts this Nym's credentials from fromKey to toKey
	// in memory only; it does not persist.
	ReEncrypt(fromKey, toKey [32]byte) error

	// Persist writes the Nym's current in-memory encrypted state to
	// disk.
	Persist() error
}

// WalletSymmetricKeys is the wallet-level cache of symmetric keys that
// must also be re-encrypted under the new master key (spec §4.7 step f).
type WalletSymmetricKeys interface {
	ReEncryptAll(fromKey, toKey [32]byte) error
}

// WalletPersistence is the save/reload boundary PasswordRotation commits
// through (spec §4.7 steps g/h).
type WalletPersistence interface {
	Save() error
	Reload() error
}

// RotationRecovery is returned when step (e) or (f) fails: the Nyms are
// left at the temporary-passphrase state in memory, the old master key
// snapshot is logged and preserved for manual recovery, and the wallet
// file is not saved, per spec §4.7/§8 scenario 6. Nyms persisted before
// the failure stay on disk under the new key. It classifies as
// notaryerr.ErrInternal.
type RotationRecovery struct {
	OldKeySnapshot [32]byte
	FailedNymIndex int
	Cause          error
}

func (r *RotationRecovery) Error() string {
	return fmt.Sprintf("password rotation left inconsistent at nym index %d: %v (see OldKeySnapshot for manual recovery)",
		r.FailedNymIndex, r.Cause)
}

// Unwrap makes a RotationRecovery match notaryerr.ErrInternal.
func (r *RotationRecovery) Unwrap() error { return notaryerr.ErrInternal }

// Rotate implements spec §4.7's 8-step algorithm:
//
//	(a) verify every Nym loads under the current master key; any failure
//	    aborts with no state change.
//	(b) re-encrypt every Nym's credentials under a random temporary
//	    passphrase, held only in RAM.
//	(c) snapshot the current master key as an in-memory recovery buffer.
//	(d) regenerate the master key from the new passphrase; on failure,
//	    restore from the snapshot and abort.
//	(e) re-encrypt every Nym from the temporary passphrase to the new
//	    master key and persist; a save failure here is a fatal
//	    inconsistency, reported as RotationRecovery.
//	(f) re-encrypt any wallet-level symmetric keys.
//	(g) save the wallet.
//	(h) reload the wallet from disk.
func Rotate(
	mk *MasterKey,
	nyms []CredentialedNym,
	walletKeys WalletSymmetricKeys,
	wp WalletPersistence,
	newPassphrase, salt []byte,
) error {
	currentKey := mk.Key()

	// (a) verify every Nym loads under the current key.
	for i, nym := range nyms {
		if err := nym.VerifyLoadsUnder(currentKey); err != nil {
			return fmt.Errorf("nym %d failed to verify under current passphrase, aborting with no state change: %w",
				i, err)
		}
	}

	// (b) re-encrypt every Nym under a random temporary passphrase held
	// only in RAM.
	tempPassphrase, err := NewRandomPassphrase()
	if err != nil {
		return err
	}

	tempKey, err := deriveKey(tempPassphrase, salt)
	if err != nil {
		return err
	}

	for i, nym := range nyms {
		if err := nym.ReEncrypt(currentKey, tempKey); err != nil {
			for _, done := range nyms[:i] {
				_ = done.ReEncrypt(tempKey, currentKey)
			}

			return fmt.Errorf("nym %d failed temp re-encryption, aborting with no state change: %w",
				i, err)
		}
	}

	// (c) snapshot the current master key.
	snapshot := currentKey

	// (d) regenerate the master key from the new passphrase.
	_, err = mk.Regenerate(newPassphrase, salt)
	if err != nil {
		mk.RestoreFromSnapshot(snapshot)

		return fmt.Errorf("failed to regenerate master key, restored snapshot: %w", err)
	}

	newKey := mk.Key()

	// (e) re-encrypt every Nym from the temporary passphrase to the new
	// master key and persist. A failure here is a fatal inconsistency,
	// classified Internal: the in-memory Nyms are moved back to the
	// temp-passphrase state, the wallet file is NOT saved, and the old-key
	// snapshot is logged and surfaced for manual recovery (spec §8
	// scenario 6).
	recovery := func(failed, reEncrypted int, cause error) error {
		for _, done := range nyms[:reEncrypted] {
			_ = done.ReEncrypt(newKey, tempKey)
		}

		log.Criticalf("password rotation failed at nym index %d: %v (old master key snapshot %x)",
			failed, cause, snapshot)

		return &RotationRecovery{OldKeySnapshot: snapshot, FailedNymIndex: failed, Cause: cause}
	}

	for i, nym := range nyms {
		if err := nym.ReEncrypt(tempKey, newKey); err != nil {
			return recovery(i, i, err)
		}

		if err := nym.Persist(); err != nil {
			return recovery(i, i+1, err)
		}
	}

	// (f) re-encrypt wallet-level symmetric keys.
	if walletKeys != nil {
		if err := walletKeys.ReEncryptAll(tempKey, newKey); err != nil {
			return recovery(len(nyms), len(nyms), err)
		}
	}

	// (g) save the wallet.
	if err := wp.Save(); err != nil {
		return notaryerr.Internal(fmt.Sprintf("failed to save wallet after rotation: %v", err))
	}

	// (h) reload the wallet from disk.
	if err := wp.Reload(); err != nil {
		return notaryerr.Internal(fmt.Sprintf("failed to reload wallet after rotation: %v", err))
	}

	return nil
}
