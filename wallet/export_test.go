package wallet_test

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/wallet"
)

func newTestNym(t *testing.T, name string) *notarytypes.Nym {
	t.Helper()

	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	return notarytypes.NewNym(name, priv)
}

// TestExportImportNymRoundTrip exercises spec §8's round-trip property:
// export(nym) -> import(passphrase) -> export yields an equivalent Nym.
func TestExportImportNymRoundTrip(t *testing.T) {
	nym := newTestNym(t, "alice")
	passphrase := []byte("correct horse battery staple")

	armored, err := wallet.ExportNym(nym, passphrase)
	require.NoError(t, err)
	require.Contains(t, armored, "-----BEGIN EXPORTED NYM-----")
	require.Contains(t, armored, "-----END EXPORTED NYM-----")

	imported, err := wallet.ImportNym(armored, passphrase)
	require.NoError(t, err)
	require.Equal(t, nym.ID, imported.ID)
	require.Equal(t, nym.Name, imported.Name)
	require.True(t, nym.PublicKey.IsEqual(imported.PublicKey))

	reExported, err := wallet.ExportNym(imported, passphrase)
	require.NoError(t, err)

	reImported, err := wallet.ImportNym(reExported, passphrase)
	require.NoError(t, err)
	require.Equal(t, imported.ID, reImported.ID)
	require.Equal(t, imported.Name, reImported.Name)
}

func TestImportNymRejectsWrongPassphrase(t *testing.T) {
	nym := newTestNym(t, "bob")

	armored, err := wallet.ExportNym(nym, []byte("right passphrase"))
	require.NoError(t, err)

	_, err = wallet.ImportNym(armored, []byte("wrong passphrase"))
	require.Error(t, err)
}

func TestImportNymRejectsMalformedArmor(t *testing.T) {
	_, err := wallet.ImportNym("not an armored block", []byte("whatever"))
	require.Error(t, err)
}

func TestExportNymRejectsNymWithoutPrivateKey(t *testing.T) {
	_, err := wallet.ExportNym(&notarytypes.Nym{ID: "no-key"}, []byte("x"))
	require.Error(t, err)
}
