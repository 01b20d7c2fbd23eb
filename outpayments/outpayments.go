// Package outpayments implements the Outpayments & SentOutbuffer
// reconciliation rules (spec §4.5): after a nymbox fetch, every reply-
// notice receipt removes its matching sent entry with no harvest; every
// remaining sent entry is then classified against whatever server reply
// exists (or doesn't) to decide which numbers, if any, can be harvested.
// This is the only subsystem allowed to burn an opening number without a
// corresponding server receipt. Grounded on the same htlcswitch-style
// in-flight bookkeeping idiom as package outbuffer.
package outpayments

import (
	"github.com/decred/slog"

	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
	"github.com/notaryclient/notaryclient/outbuffer"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by this package.
func UseLogger(logger slog.Logger) { log = logger }

// ReplyStatus classifies the server's reply to a sent request, or its
// absence.
type ReplyStatus int

const (
	// ReplyPending means no reply has been seen yet; retry policy
	// applies and the numbers stay issued until the next cycle.
	ReplyPending ReplyStatus = iota
	// ReplyMessageFailure means the reply indicated a message-level
	// failure (the request never reached transaction processing): every
	// attached number, primary and closing, is fully harvestable.
	ReplyMessageFailure
	// ReplyTransactionFailure means the reply indicated a transaction-
	// level failure: the primary number is burned (the server consumed
	// it even though the transaction failed), but auxiliary closing
	// numbers are harvestable.
	ReplyTransactionFailure
	// ReplySuccess means the request succeeded; ordinarily this entry
	// would already have been removed by a reply-notice in the nymbox,
	// so seeing this here just means "stop tracking, no harvest".
	ReplySuccess
)

// ReplySource looks up whether a reply exists for a given sent request,
// used by Flush to decide each remaining entry's fate.
type ReplySource interface {
	ReplyFor(nym notarytypes.NymID, server notarytypes.ServerID, requestNum uint64) ReplyStatus
}

// ReplyNotice is one reply-notice receipt found in a nymbox fetch: it
// names the request number the notice is delivering the reply for.
type ReplyNotice struct {
	RequestNum uint64
}

// ProcessNymboxNotices removes, for each notice, any matching entry from
// buffer — the reply was delivered through the nymbox directly, so no
// harvest decision is needed, per spec §4.5.
func ProcessNymboxNotices(buffer *outbuffer.Buffer, nym notarytypes.NymID, server notarytypes.ServerID, notices []ReplyNotice) int {
	removed := 0

	for _, n := range notices {
		if _, ok := buffer.RemoveByReplyNotice(nym, server, n.RequestNum); ok {
			removed++
		}
	}

	if removed > 0 {
		log.Tracef("outpayments: %d entries closed via nymbox reply notice for nym %s/server %s",
			removed, nym, server)
	}

	return removed
}

// Flush processes every entry still in buffer for (nym, server) after
// ProcessNymboxNotices has already run, classifying each by ReplySource
// and harvesting numbers accordingly. It returns the number of entries
// harvested in whole or in part.
func Flush(
	buffer *outbuffer.Buffer,
	mgr *numbers.Manager,
	nym *notarytypes.Nym,
	server notarytypes.ServerID,
	replies ReplySource,
) int {
	harvested := 0

	for _, entry := range buffer.All(nym.ID, server) {
		status := replies.ReplyFor(nym.ID, server, entry.RequestNum)

		switch status {
		case ReplyMessageFailure:
			nums := append([]notarytypes.TransactionNumber{entry.Primary}, entry.Closing...)
			mgr.ReturnUnused(nym, server, nums...)
			buffer.Remove(nym.ID, server, entry.RequestNum)
			harvested++

			log.Tracef("outpayments: request #%d message-level failure, harvested %d numbers",
				entry.RequestNum, len(nums))

		case ReplyTransactionFailure:
			// The primary number is burned — the server consumed it even
			// though the transaction itself failed — but auxiliary
			// closing numbers are still harvestable.
			mgr.ReturnUnused(nym, server, entry.Closing...)
			buffer.Remove(nym.ID, server, entry.RequestNum)
			harvested++

			log.Tracef("outpayments: request #%d transaction-level failure, burned primary %d, harvested %d closing numbers",
				entry.RequestNum, entry.Primary, len(entry.Closing))

		case ReplySuccess:
			// Already succeeded; nothing to harvest, just stop tracking.
			buffer.Remove(nym.ID, server, entry.RequestNum)

		case ReplyPending:
			// Retry policy applies elsewhere; numbers remain issued until
			// the next reconciliation cycle classifies them.
		}
	}

	return harvested
}
