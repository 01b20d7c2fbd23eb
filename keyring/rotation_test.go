package keyring_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/keyring"
)

type fakeNym struct {
	failPersist bool
	fromKey     [32]byte
	toKey       [32]byte
	persisted   bool
}

func (f *fakeNym) VerifyLoadsUnder([32]byte) error { return nil }

func (f *fakeNym) ReEncrypt(from, to [32]byte) error {
	f.fromKey, f.toKey = from, to

	return nil
}

func (f *fakeNym) Persist() error {
	if f.failPersist {
		return errors.New("disk full")
	}

	f.persisted = true

	return nil
}

type fakeWalletKeys struct{ called bool }

func (f *fakeWalletKeys) ReEncryptAll([32]byte, [32]byte) error {
	f.called = true

	return nil
}

type fakeWalletPersistence struct {
	saved    bool
	reloaded bool
}

func (f *fakeWalletPersistence) Save() error   { f.saved = true; return nil }
func (f *fakeWalletPersistence) Reload() error { f.reloaded = true; return nil }

// TestRotateThreeNymsOneFails is spec §8 scenario 6: 3 Nyms, the second
// fails to persist under the new key. The rotation must surface a
// RotationRecovery, and the wallet-level save/reload must never be
// reached.
func TestRotateThreeNymsOneFails(t *testing.T) {
	mk, err := keyring.NewMasterKey([]byte("old-pass"), []byte("salt"))
	require.NoError(t, err)

	nym1 := &fakeNym{}
	nym2 := &fakeNym{failPersist: true}
	nym3 := &fakeNym{}
	nyms := []keyring.CredentialedNym{nym1, nym2, nym3}

	wk := &fakeWalletKeys{}
	wp := &fakeWalletPersistence{}

	err = keyring.Rotate(mk, nyms, wk, wp, []byte("new-pass"), []byte("salt"))

	var recovery *keyring.RotationRecovery
	require.ErrorAs(t, err, &recovery)
	require.Equal(t, 1, recovery.FailedNymIndex)

	require.True(t, nym1.persisted)
	require.False(t, nym2.persisted)
	require.False(t, nym3.persisted)

	require.False(t, wk.called)
	require.False(t, wp.saved)
	require.False(t, wp.reloaded)
}

// TestRotateSuccess covers the happy path: all Nyms persist, wallet keys
// re-encrypt, and the wallet is saved then reloaded.
func TestRotateSuccess(t *testing.T) {
	mk, err := keyring.NewMasterKey([]byte("old-pass"), []byte("salt"))
	require.NoError(t, err)

	nym1 := &fakeNym{}
	nym2 := &fakeNym{}
	nyms := []keyring.CredentialedNym{nym1, nym2}

	wk := &fakeWalletKeys{}
	wp := &fakeWalletPersistence{}

	err = keyring.Rotate(mk, nyms, wk, wp, []byte("new-pass"), []byte("salt"))
	require.NoError(t, err)

	require.True(t, nym1.persisted)
	require.True(t, nym2.persisted)
	require.True(t, wk.called)
	require.True(t, wp.saved)
	require.True(t, wp.reloaded)
}

// TestMasterKeySuspendResume exercises the explicit Active/Suspended state
// machine from DESIGN NOTES §9.
func TestMasterKeySuspendResume(t *testing.T) {
	mk, err := keyring.NewMasterKey([]byte("pass"), []byte("salt"))
	require.NoError(t, err)

	key := mk.Key()

	mk.Suspend()
	require.True(t, mk.IsSuspended())
	require.Panics(t, func() { mk.Key() })

	mk.Resume()
	require.False(t, mk.IsSuspended())
	require.Equal(t, key, mk.Key())
}
