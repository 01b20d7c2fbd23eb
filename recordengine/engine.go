// Package recordengine implements RecordEngine (spec §4.4), the hardest
// subsystem in the notary client: an 8-step decision table that decides,
// per outpayment or payment-inbox entry, whether to harvest transaction
// numbers, archive the instrument to the record or expired box, or leave
// it live. Grounded on the teacher's contractcourt resolver idiom — a
// decision-table resolver that classifies state and then acts, tested the
// way commit_sweep_resolver_test.go tests commitSweepResolver.
package recordengine

import (
	"time"

	"github.com/decred/slog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by this package.
func UseLogger(logger slog.Logger) { log = logger }

var decisionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "notaryclient",
	Subsystem: "recordengine",
	Name:      "decisions_total",
}, []string{"decision"})

func init() {
	prometheus.MustRegister(decisionCounter)
}

// Decision is the outcome RecordEngine reaches for a single entry.
type Decision int

const (
	// DecisionHarvestExpire harvests the instrument's numbers and moves
	// it to the expired box.
	DecisionHarvestExpire Decision = iota
	// DecisionExpireNoHarvest moves the instrument to the expired box
	// without touching its numbers.
	DecisionExpireNoHarvest
	// DecisionRecord moves the instrument to the record box.
	DecisionRecord
	// DecisionRefuse leaves the instrument untouched; the caller must
	// resolve the blocking condition (cancel with the server, wait for
	// expiry, etc) before retrying.
	DecisionRefuse
	// DecisionDiscard removes the instrument from its source box without
	// archiving it anywhere, used when the caller passed keepRecord=false.
	DecisionDiscard
)

func (d Decision) String() string {
	switch d {
	case DecisionHarvestExpire:
		return "harvest-expire"
	case DecisionExpireNoHarvest:
		return "expire-no-harvest"
	case DecisionRecord:
		return "record"
	case DecisionRefuse:
		return "refuse"
	case DecisionDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// Source discriminates which box the entry being processed lives in.
type Source int

const (
	// SourceOutpayment is an instrument the local Nym sent.
	SourceOutpayment Source = iota
	// SourcePaymentInbox is an instrument the local Nym received.
	SourcePaymentInbox
)

// AccountLookup resolves an AccountID to its AssetAccount, used to walk a
// related account's inbox for a receipt (spec §4.4 step 6).
type AccountLookup interface {
	Account(id notarytypes.AccountID) (*notarytypes.AssetAccount, error)
}

// PersistFunc saves nym's mutated box/number state, called once at the end
// of a successful decision, on the same all-or-nothing boundary as the box
// mutation (spec §4.4 failure semantics).
type PersistFunc func(nym *notarytypes.Nym) error

// Engine is RecordEngine, bound to a NumberManager, an account lookup, and
// a persistence callback.
type Engine struct {
	numbers  *numbers.Manager
	accounts AccountLookup
	persist  PersistFunc
	now      func() time.Time
}

// NewEngine returns an Engine. now defaults to time.Now if nil, overridable
// for deterministic tests.
func NewEngine(mgr *numbers.Manager, accounts AccountLookup, persist PersistFunc, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}

	return &Engine{numbers: mgr, accounts: accounts, persist: persist, now: now}
}

// Record runs the full decision table against the entry at index in the
// given source box of nym, at the given server (relevant only for
// outpayment numbers; payment-inbox entries never touch numbers). keepRecord
// false discards the entry outright rather than archiving it, used by the
// CLI's discard_cheque surface; keepRecord true is the ordinary
// record_payment path.
//
// The box removal, box insertion, any number harvest, and the Nym
// persistence happen as a single staged operation: the destination write
// is staged in memory, the source entry is removed, and only then is the
// Nym persisted. A persistence failure here is surfaced to the caller
// with the in-memory mutation already applied — callers that cannot
// tolerate that should treat a persist error as fatal and reload the Nym
// from disk, since a partial commit at this boundary is the one failure
// mode spec §4.4 explicitly rules out in memory (the persist step is the
// last one, after both the destination stage and the source removal have
// already succeeded).
func (e *Engine) Record(nym *notarytypes.Nym, server notarytypes.ServerID, source Source, index int, keepRecord bool) (Decision, error) {
	entry, err := e.entryAt(nym, source, index)
	if err != nil {
		return DecisionRefuse, err
	}

	instrument := entry.Instrument
	expired := instrument.Common().Expired(e.now())

	var decision Decision

	switch source {
	case SourcePaymentInbox:
		// Step 2: incoming entries are never harvested — the number, if
		// any, is not ours to harvest.
		if expired {
			decision = DecisionExpireNoHarvest
		} else {
			decision = DecisionRecord
		}

	case SourceOutpayment:
		decision, err = e.classifyOutgoing(nym, server, instrument, expired)
		if err != nil {
			return DecisionRefuse, err
		}

	default:
		return DecisionRefuse, notaryerr.Internal("unknown recordengine source")
	}

	if decision == DecisionRefuse {
		return decision, notaryerr.ErrConflict
	}

	if !keepRecord {
		decision = DecisionDiscard
	}

	if err := e.commit(nym, server, source, index, instrument, decision); err != nil {
		return decision, err
	}

	decisionCounter.WithLabelValues(decision.String()).Inc()
	log.Tracef("recordengine: nym %s entry %d (%v) -> %v", nym.ID, index, source, decision)

	return decision, nil
}

// classifyOutgoing implements spec §4.4 steps 3-8 for an entry the local
// Nym sent.
func (e *Engine) classifyOutgoing(
	nym *notarytypes.Nym,
	server notarytypes.ServerID,
	instrument notarytypes.PaymentInstrument,
	expired bool,
) (Decision, error) {
	opening := instrument.OpeningNumber()
	senderIsMe := instrument.SenderNym() == nym.ID

	// Step 8: sender-role is the server or another party (cash/voucher I
	// received into my own outpayments tracking, e.g. withdrawn cash not
	// yet spent).
	if !senderIsMe {
		if expired {
			return DecisionRecord, nil
		}

		return DecisionRefuse, nil
	}

	// Step 5: an instrument whose number is still tentative should never
	// have been recorded as sent.
	if e.numbers.IsTentative(nym, server, opening) {
		return DecisionRefuse, notaryerr.Internal(
			"outpayment entry recorded with a still-tentative transaction number")
	}

	issued := e.numbers.IsIssued(nym, server, opening)

	if expired {
		// Step 6.
		if issued {
			if e.relatedReceiptExists(nym, instrument) {
				// Used — do not harvest, just archive.
				return DecisionExpireNoHarvest, nil
			}

			return DecisionHarvestExpire, nil
		}

		// Number already closed out by some earlier path.
		return DecisionExpireNoHarvest, nil
	}

	// Step 7: not expired.
	if issued {
		// A recipient could still redeem it; the caller must cancel with
		// the server first.
		return DecisionRefuse, nil
	}

	return DecisionRecord, nil
}

// relatedReceiptExists walks every account RelevantAccounts names, looking
// for a receipt-kind transaction referencing the instrument's transaction
// number, per spec §4.4 step 6.
func (e *Engine) relatedReceiptExists(nym *notarytypes.Nym, instrument notarytypes.PaymentInstrument) bool {
	num := instrument.OpeningNumber()

	for _, acctID := range instrument.RelevantAccounts(nym.ID) {
		acct, err := e.accounts.Account(acctID)
		if err != nil {
			continue
		}

		if acct.Inbox.FindReceiptFor(num) != nil {
			return true
		}
	}

	return false
}

func (e *Engine) entryAt(nym *notarytypes.Nym, source Source, index int) (*notarytypes.BoxEntry, error) {
	switch source {
	case SourceOutpayment:
		if index < 0 || index >= len(nym.Outpayments) {
			return nil, notaryerr.ErrNotFound
		}

		op := nym.Outpayments[index]

		return &notarytypes.BoxEntry{Instrument: op.Instrument}, nil

	case SourcePaymentInbox:
		if index < 0 || index >= len(nym.PaymentInbox) {
			return nil, notaryerr.ErrNotFound
		}

		return nym.PaymentInbox[index], nil

	default:
		return nil, notaryerr.Internal("unknown recordengine source")
	}
}

// commit performs the staged all-or-nothing write: the destination entry
// is staged, the source is removed from its slice, a harvest is applied if
// the decision calls for one, and only then is the Nym persisted. If
// persistence fails the in-memory state already reflects the decision;
// callers must treat that as fatal and reload from disk rather than retry,
// since retrying risks double-harvesting.
func (e *Engine) commit(
	nym *notarytypes.Nym,
	server notarytypes.ServerID,
	source Source,
	index int,
	instrument notarytypes.PaymentInstrument,
	decision Decision,
) error {
	// Stage the destination entry before touching the source, per spec
	// §4.4 failure semantics ("staging the destination write, performing
	// the source removal, and only persisting after both succeed").
	var staged *notarytypes.BoxEntry

	switch decision {
	case DecisionRecord, DecisionHarvestExpire, DecisionExpireNoHarvest:
		key := instrument.OpeningNumber()
		if key == 0 {
			// Cash purse: synthesize a record key from valid_to,
			// incrementing until no collision exists in the destination
			// box, per spec §4.4.
			var dest []*notarytypes.BoxEntry
			if decision == DecisionRecord {
				dest = nym.RecordBox
			} else {
				dest = nym.ExpiredBox
			}

			key = synthesizeKey(dest, instrument.Common().ValidTo)
		}

		staged = &notarytypes.BoxEntry{Instrument: instrument, RecordKey: key}
	}

	// Remove from source.
	switch source {
	case SourceOutpayment:
		nym.Outpayments = append(nym.Outpayments[:index], nym.Outpayments[index+1:]...)
	case SourcePaymentInbox:
		nym.PaymentInbox = append(nym.PaymentInbox[:index], nym.PaymentInbox[index+1:]...)
	}

	// Insert into destination.
	switch decision {
	case DecisionRecord:
		nym.RecordBox = append(nym.RecordBox, staged)
	case DecisionExpireNoHarvest:
		nym.ExpiredBox = append(nym.ExpiredBox, staged)
	case DecisionHarvestExpire:
		nym.ExpiredBox = append(nym.ExpiredBox, staged)
	case DecisionDiscard:
		// Nothing to insert; the source removal above is the whole
		// effect.
	}

	// Harvest, if called for. This happens after the box mutation is
	// staged in memory but before persistence, so a persisted Nym always
	// reflects both the box state and the number state together.
	if decision == DecisionHarvestExpire {
		nums := append([]notarytypes.TransactionNumber{instrument.OpeningNumber()}, instrument.ClosingNumbers()...)
		e.numbers.ReturnUnused(nym, server, nums...)
	}

	if e.persist == nil {
		return nil
	}

	return e.persist(nym)
}

// synthesizeKey returns base if no entry in dest already uses it as a
// RecordKey, otherwise increments until a free key is found, per spec
// §4.4's cash-purse carve-out.
func synthesizeKey(dest []*notarytypes.BoxEntry, base time.Time) notarytypes.TransactionNumber {
	key := notarytypes.TransactionNumber(base.Unix())

	for {
		collision := false
		for _, e := range dest {
			if e.RecordKey == key {
				collision = true
				break
			}
		}

		if !collision {
			return key
		}

		key++
	}
}
