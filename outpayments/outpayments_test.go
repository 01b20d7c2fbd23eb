package outpayments_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
	"github.com/notaryclient/notaryclient/outbuffer"
	"github.com/notaryclient/notaryclient/outpayments"
)

const testServer = notarytypes.ServerID("server-1")

func noopPersist(*notarytypes.Nym) error { return nil }

func newTestNym(avail ...notarytypes.TransactionNumber) *notarytypes.Nym {
	nym := &notarytypes.Nym{ID: "nym-a", Servers: make(map[notarytypes.ServerID]*notarytypes.ServerNumbers)}
	nym.ServerState(testServer).Available = notarytypes.NewNumberSet(avail...)

	return nym
}

type fakeReplies map[uint64]outpayments.ReplyStatus

func (f fakeReplies) ReplyFor(notarytypes.NymID, notarytypes.ServerID, uint64) outpayments.ReplyStatus {
	return outpayments.ReplyPending
}

type lookupReplies struct {
	statuses map[uint64]outpayments.ReplyStatus
}

func (l lookupReplies) ReplyFor(_ notarytypes.NymID, _ notarytypes.ServerID, reqNum uint64) outpayments.ReplyStatus {
	if s, ok := l.statuses[reqNum]; ok {
		return s
	}

	return outpayments.ReplyPending
}

// TestNymboxNoticeClosesWithoutHarvest covers the first half of spec §4.5:
// a reply-notice receipt closes the matching sent entry directly, with no
// harvest decision at all.
func TestNymboxNoticeClosesWithoutHarvest(t *testing.T) {
	nym := newTestNym(201, 202)
	mgr := numbers.NewManager(noopPersist)

	primary, err := mgr.Draw(nym, testServer, numbers.MarkSingleTransaction)
	require.NoError(t, err)

	buf := outbuffer.New()
	buf.Add(&outbuffer.Entry{Nym: nym.ID, Server: testServer, RequestNum: 7, Primary: primary})

	removed := outpayments.ProcessNymboxNotices(buf, nym.ID, testServer, []outpayments.ReplyNotice{{RequestNum: 7}})
	require.Equal(t, 1, removed)
	require.Equal(t, 0, buf.Len())

	// No harvest happened: the number is still issued.
	require.True(t, mgr.IsIssued(nym, testServer, primary))
}

// TestFlushMessageFailureHarvestsAll covers spec §4.5: a message-level
// failure reply makes every attached number (primary + closing) fully
// harvestable.
func TestFlushMessageFailureHarvestsAll(t *testing.T) {
	nym := newTestNym(301, 302, 303)
	mgr := numbers.NewManager(noopPersist)

	nums, err := mgr.DrawN(nym, testServer, 2, numbers.MarkSingleTransaction)
	require.NoError(t, err)

	buf := outbuffer.New()
	buf.Add(&outbuffer.Entry{
		Nym: nym.ID, Server: testServer, RequestNum: 11,
		Primary: nums[0], Closing: nums[1:],
	})

	replies := lookupReplies{statuses: map[uint64]outpayments.ReplyStatus{11: outpayments.ReplyMessageFailure}}

	n := outpayments.Flush(buf, mgr, nym, testServer, replies)
	require.Equal(t, 1, n)
	require.Equal(t, 0, buf.Len())

	for _, num := range nums {
		require.False(t, mgr.IsIssued(nym, testServer, num))
		require.True(t, nym.ServerState(testServer).Available.Has(num))
	}
}

// TestFlushTransactionFailureBurnsPrimaryOnly covers spec §4.5: a
// transaction-level failure burns the primary number (never returned to
// available) but still harvests auxiliary closing numbers.
func TestFlushTransactionFailureBurnsPrimaryOnly(t *testing.T) {
	nym := newTestNym(401, 402, 403)
	mgr := numbers.NewManager(noopPersist)

	nums, err := mgr.DrawN(nym, testServer, 2, numbers.MarkSingleTransaction)
	require.NoError(t, err)
	primary, closing := nums[0], nums[1]

	buf := outbuffer.New()
	buf.Add(&outbuffer.Entry{
		Nym: nym.ID, Server: testServer, RequestNum: 12,
		Primary: primary, Closing: []notarytypes.TransactionNumber{closing},
	})

	replies := lookupReplies{statuses: map[uint64]outpayments.ReplyStatus{12: outpayments.ReplyTransactionFailure}}

	n := outpayments.Flush(buf, mgr, nym, testServer, replies)
	require.Equal(t, 1, n)

	require.True(t, mgr.IsIssued(nym, testServer, primary), "primary stays burned, never harvested")
	require.False(t, mgr.IsIssued(nym, testServer, closing))
	require.True(t, nym.ServerState(testServer).Available.Has(closing))
}

// TestFlushPendingLeavesNumbersIssued covers spec §4.5's retry-policy
// carve-out: with no reply at all yet, numbers stay issued and the entry
// stays in the buffer for the next reconciliation cycle.
func TestFlushPendingLeavesNumbersIssued(t *testing.T) {
	nym := newTestNym(501, 502)
	mgr := numbers.NewManager(noopPersist)

	primary, err := mgr.Draw(nym, testServer, numbers.MarkSingleTransaction)
	require.NoError(t, err)

	buf := outbuffer.New()
	buf.Add(&outbuffer.Entry{Nym: nym.ID, Server: testServer, RequestNum: 13, Primary: primary})

	n := outpayments.Flush(buf, mgr, nym, testServer, fakeReplies{})
	require.Equal(t, 0, n)
	require.Equal(t, 1, buf.Len())
	require.True(t, mgr.IsIssued(nym, testServer, primary))
}
