package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/wallet"
)

func openTestStore(t *testing.T) *wallet.BoltStore {
	t.Helper()

	store, err := wallet.OpenBoltStore(filepath.Join(t.TempDir(), "wallet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })

	return store
}

func TestAddNymRejectsDuplicate(t *testing.T) {
	w := wallet.New(openTestStore(t))
	nym := &notarytypes.Nym{ID: "alice"}

	require.NoError(t, w.AddNym(nym))
	require.ErrorIs(t, w.AddNym(nym), notaryerr.ErrAlreadyExists)

	got, err := w.Nym("alice")
	require.NoError(t, err)
	require.Equal(t, nym, got)
}

func TestNymNotFound(t *testing.T) {
	w := wallet.New(openTestStore(t))

	_, err := w.Nym("ghost")
	require.Error(t, err)
}

func TestRemoveNymRefusesWhileAccountReferencesIt(t *testing.T) {
	w := wallet.New(openTestStore(t))
	require.NoError(t, w.AddNym(&notarytypes.Nym{ID: "alice"}))
	require.NoError(t, w.AddAssetContract(&notarytypes.AssetContract{ID: "asset-1"}))
	require.NoError(t, w.AddServerContract(&notarytypes.ServerContract{ID: "server-1"}))

	acct := notarytypes.NewAssetAccount("acct-1", "alice", "asset-1", "server-1")
	require.NoError(t, w.AddAccount(acct))

	require.Error(t, w.RemoveNym("alice"))

	require.NoError(t, w.RemoveAccount("acct-1"))
	require.NoError(t, w.RemoveNym("alice"))
}

func TestRemoveAssetContractRefusesWhileAccountHoldsIt(t *testing.T) {
	w := wallet.New(openTestStore(t))
	require.NoError(t, w.AddAssetContract(&notarytypes.AssetContract{ID: "asset-1"}))
	require.NoError(t, w.AddServerContract(&notarytypes.ServerContract{ID: "server-1"}))

	acct := notarytypes.NewAssetAccount("acct-1", "alice", "asset-1", "server-1")
	require.NoError(t, w.AddAccount(acct))

	require.Error(t, w.RemoveAssetContract("asset-1"))
}

func TestRemoveAccountRefusesUnlessEmpty(t *testing.T) {
	w := wallet.New(openTestStore(t))
	acct := notarytypes.NewAssetAccount("acct-1", "alice", "asset-1", "server-1")
	acct.Balance = 5
	require.NoError(t, w.AddAccount(acct))

	require.Error(t, w.RemoveAccount("acct-1"))

	acct.Balance = 0
	require.NoError(t, w.RemoveAccount("acct-1"))

	_, err := w.Account("acct-1")
	require.Error(t, err)
}

func TestAccountsForNym(t *testing.T) {
	w := wallet.New(openTestStore(t))
	require.NoError(t, w.AddAccount(notarytypes.NewAssetAccount("a1", "alice", "asset-1", "server-1")))
	require.NoError(t, w.AddAccount(notarytypes.NewAssetAccount("a2", "alice", "asset-2", "server-1")))
	require.NoError(t, w.AddAccount(notarytypes.NewAssetAccount("b1", "bob", "asset-1", "server-1")))

	got := w.AccountsForNym("alice")
	require.Len(t, got, 2)
}

func TestPersistAndReloadNymThroughBoltStore(t *testing.T) {
	store := openTestStore(t)
	w := wallet.New(store)

	nym := &notarytypes.Nym{ID: "alice", Name: "Alice", Servers: map[notarytypes.ServerID]*notarytypes.ServerNumbers{}}
	require.NoError(t, w.AddNym(nym))

	reloaded, err := store.LoadNym("alice")
	require.NoError(t, err)
	require.Equal(t, nym.ID, reloaded.ID)
	require.Equal(t, nym.Name, reloaded.Name)
}
