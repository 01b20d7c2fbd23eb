package txbuilder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
	"github.com/notaryclient/notaryclient/txbuilder"
)

const testServer = notarytypes.ServerID("server-1")

type fakeSigner struct{}

func (fakeSigner) Sign(digest []byte) []byte { return append([]byte{}, digest...) }

func newNym(avail ...notarytypes.TransactionNumber) *notarytypes.Nym {
	nym := &notarytypes.Nym{ID: "nym-a", Servers: make(map[notarytypes.ServerID]*notarytypes.ServerNumbers)}
	nym.ServerState(testServer).Available = notarytypes.NewNumberSet(avail...)

	return nym
}

// TestBasketExchangeExactlyEnough is spec §8 scenario 5: a basket with 2
// sub-accounts requires 1+2+1=4 numbers; with exactly 4 available, the
// exchange succeeds and leaves 0 available plus 4 issued.
func TestBasketExchangeExactlyEnough(t *testing.T) {
	nym := newNym(1, 2, 3, 4)
	mgr := numbers.NewManager(func(*notarytypes.Nym) error { return nil })

	acct := notarytypes.NewAssetAccount("acct-main", "nym-a", "basket-asset", testServer)
	legs := []notarytypes.SubAsset{
		{Asset: "sub-1", MinimumTransfer: 1},
		{Asset: "sub-2", MinimumTransfer: 1},
	}

	be, err := txbuilder.BuildBasketExchange(mgr, nym, testServer, acct, legs, fakeSigner{})
	require.NoError(t, err)
	require.Len(t, be.SubClosing, 2)

	state := nym.ServerState(testServer)
	require.Equal(t, 0, state.Available.Len())
	require.Equal(t, 4, state.Issued.Len())
}

// TestBasketExchangeOneShort covers the same scenario with 3 available:
// the request is refused and available is left unchanged.
func TestBasketExchangeOneShort(t *testing.T) {
	nym := newNym(1, 2, 3)
	mgr := numbers.NewManager(func(*notarytypes.Nym) error { return nil })

	acct := notarytypes.NewAssetAccount("acct-main", "nym-a", "basket-asset", testServer)
	legs := []notarytypes.SubAsset{
		{Asset: "sub-1", MinimumTransfer: 1},
		{Asset: "sub-2", MinimumTransfer: 1},
	}

	_, err := txbuilder.BuildBasketExchange(mgr, nym, testServer, acct, legs, fakeSigner{})
	require.ErrorIs(t, err, notaryerr.ErrInsufficientNumbers)

	state := nym.ServerState(testServer)
	require.Equal(t, 3, state.Available.Len())
	require.Equal(t, 0, state.Issued.Len())
}
