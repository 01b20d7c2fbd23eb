package notarytypes

// BoxEntry is one payment instrument sitting in a Nym's PaymentInbox,
// RecordBox, or ExpiredBox — the instrument-bearing boxes RecordEngine
// moves entries between, per spec §4.4. Unlike the raw receipt Ledger
// (nymbox, account inbox/outbox), these boxes hold the decoded
// instrument directly rather than an abbreviated Transaction, since
// RecordEngine's decision table dispatches on instrument fields.
type BoxEntry struct {
	Instrument PaymentInstrument

	// RecordKey is the key this entry is stored under in RecordBox or
	// ExpiredBox. For instruments with a transaction number this is just
	// that number; cash purses have none, so RecordEngine synthesizes one
	// from valid_to, per spec §4.4.
	RecordKey TransactionNumber
}
