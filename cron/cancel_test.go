package cron_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/cron"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
)

type fakeSigner struct{}

func (fakeSigner) Sign(digest []byte) []byte {
	return append([]byte{0xAA}, digest...)
}

// TestBuildCancelCronItem covers spec §4.10: a cancel request draws one
// fresh number for itself and carries a transaction statement referencing
// the original item's number, not its own.
func TestBuildCancelCronItem(t *testing.T) {
	mgr := numbers.NewManager(noopPersist)
	nym := newTestNym("alice", 1, 2)

	const originalNum notarytypes.TransactionNumber = 999

	req, err := cron.BuildCancelCronItem(mgr, nym, testServer, originalNum, fakeSigner{})
	require.NoError(t, err)
	require.NotZero(t, req.CancelNumber)
	require.Equal(t, originalNum, req.References)
	require.Len(t, req.NumbersUsed, 1)
	require.Equal(t, req.CancelNumber, req.NumbersUsed[0])
	require.True(t, mgr.IsIssued(nym, testServer, req.CancelNumber))
	require.NotEmpty(t, req.Signature)
}
