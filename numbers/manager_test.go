package numbers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
)

const testServer = notarytypes.ServerID("server-1")

func newTestNym(t *testing.T, avail ...notarytypes.TransactionNumber) *notarytypes.Nym {
	t.Helper()

	nym := &notarytypes.Nym{
		ID:      "nym-a",
		Servers: make(map[notarytypes.ServerID]*notarytypes.ServerNumbers),
	}
	state := nym.ServerState(testServer)
	state.Available = notarytypes.NewNumberSet(avail...)

	return nym
}

func noopPersist(*notarytypes.Nym) error { return nil }

// TestDrawInsufficientNumbers covers the basket-exchange accounting
// scenario with one number fewer than required: the draw is refused and
// available is unchanged. TestDrawNExactlyEnough covers the exact-count
// success case.
func TestDrawInsufficientNumbers(t *testing.T) {
	nym := newTestNym(t, 1, 2, 3)
	mgr := numbers.NewManager(noopPersist)

	mark := numbers.MarkBasketExchange(2) // 2 sub-accounts: needs 2+2=4

	_, err := mgr.DrawN(nym, testServer, 4, mark)
	require.ErrorIs(t, err, notaryerr.ErrInsufficientNumbers)

	state := nym.ServerState(testServer)
	require.Equal(t, 3, state.Available.Len())
	require.Equal(t, 0, state.Issued.Len())
}

// TestDrawNExactlyEnough covers the case with exactly enough numbers: the
// exchange succeeds and leaves 0 available, all drawn numbers issued.
func TestDrawNExactlyEnough(t *testing.T) {
	nym := newTestNym(t, 1, 2, 3, 4)
	mgr := numbers.NewManager(noopPersist)

	drawn, err := mgr.DrawN(nym, testServer, 4, numbers.LowWaterMark(4))
	require.NoError(t, err)
	require.Len(t, drawn, 4)

	state := nym.ServerState(testServer)
	require.Equal(t, 0, state.Available.Len())
	require.Equal(t, 4, state.Issued.Len())
}

// TestHarvestSoundness is the invariant from spec §8: after ReturnUnused
// decides to harvest, the number satisfies isIssued before and
// !isIssued && isAvailable after.
func TestHarvestSoundness(t *testing.T) {
	nym := newTestNym(t, 101, 102, 103)
	mgr := numbers.NewManager(noopPersist)

	n, err := mgr.Draw(nym, testServer, numbers.MarkSingleTransaction)
	require.NoError(t, err)
	require.True(t, mgr.IsIssued(nym, testServer, n))

	mgr.ReturnUnused(nym, testServer, n)

	require.False(t, mgr.IsIssued(nym, testServer, n))
	state := nym.ServerState(testServer)
	require.True(t, state.Available.Has(n))
}

// TestReturnUnusedNoOpWhenAlreadyConsumed covers the "silent no-op" clause:
// returning a number no longer in Issued (already validly closed) must not
// re-add it to Available.
func TestReturnUnusedNoOpWhenAlreadyConsumed(t *testing.T) {
	nym := newTestNym(t, 201)
	mgr := numbers.NewManager(noopPersist)

	n, err := mgr.Draw(nym, testServer, numbers.MarkSingleTransaction)
	require.NoError(t, err)

	require.NoError(t, mgr.Close(nym, testServer, n))
	require.False(t, mgr.IsIssued(nym, testServer, n))

	mgr.ReturnUnused(nym, testServer, n)

	state := nym.ServerState(testServer)
	require.False(t, state.Available.Has(n))
}
