package notarytypes

// TransactionType enumerates the kinds of entries a Ledger can hold. The
// *Receipt kinds are the ones RecordEngine looks for when deciding whether
// a sent instrument's number can be harvested (spec §4.4).
type TransactionType int

const (
	TxUnknown TransactionType = iota
	TxChequeReceipt
	TxVoucherReceipt
	TxPaymentReceipt
	TxFinalReceipt
	TxTransferReceipt
	TxBasketReceipt
	TxReplyNotice
	TxPending
	TxMarketReceipt
)

// IsReceipt reports whether t is one of the four receipt kinds RecordEngine
// step 6's "related receipt" search matches against.
func (t TransactionType) IsReceipt() bool {
	switch t {
	case TxChequeReceipt, TxVoucherReceipt, TxPaymentReceipt, TxFinalReceipt:
		return true
	default:
		return false
	}
}

// Transaction is one entry in a Ledger. It may be abbreviated (Full is nil,
// only the hash is known locally, and the full body lives in the box-
// receipt folder) or carry its full payload inline.
type Transaction struct {
	Number          TransactionNumber
	Type            TransactionType
	ReferenceToNum  TransactionNumber
	ReferenceString string

	// Abbreviated is true when Full is not populated; the caller must
	// fetch the full body from the box-receipt store by Number.
	Abbreviated bool
	Full        []byte
	Hash        []byte
}

// Ledger is a typed container of transactions. The same type backs every
// box kind spec §3 names (nymbox, inbox, outbox, paymentInbox, recordBox,
// expiredBox); the box kind itself is just which Ledger a caller reaches
// for on an AssetAccount or Nym.
type Ledger struct {
	entries map[TransactionNumber]*Transaction
	order   []TransactionNumber
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[TransactionNumber]*Transaction)}
}

// Add inserts tx, replacing any existing entry with the same number.
func (l *Ledger) Add(tx *Transaction) {
	if _, exists := l.entries[tx.Number]; !exists {
		l.order = append(l.order, tx.Number)
	}

	l.entries[tx.Number] = tx
}

// Remove deletes the entry for number, if present.
func (l *Ledger) Remove(number TransactionNumber) {
	if _, ok := l.entries[number]; !ok {
		return
	}

	delete(l.entries, number)
	for i, n := range l.order {
		if n == number {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Get returns the entry for number, or nil if absent.
func (l *Ledger) Get(number TransactionNumber) *Transaction {
	return l.entries[number]
}

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// All returns every entry, in insertion order.
func (l *Ledger) All() []*Transaction {
	out := make([]*Transaction, 0, len(l.order))
	for _, n := range l.order {
		out = append(out, l.entries[n])
	}

	return out
}

// FindReceiptFor returns the first receipt-kind transaction in the ledger
// whose ReferenceToNum equals number, or nil if none exists. This is the
// "related receipt" search RecordEngine step 6 performs.
func (l *Ledger) FindReceiptFor(number TransactionNumber) *Transaction {
	for _, n := range l.order {
		tx := l.entries[n]
		if tx.Type.IsReceipt() && tx.ReferenceToNum == number {
			return tx
		}
	}

	return nil
}

// AbbreviatedSnapshot returns the hash of every entry, used by
// TransactionBuilder to build the exact "set of abbreviated receipts
// currently in inbox + outbox" the balance statement must attest to.
func (l *Ledger) AbbreviatedSnapshot() [][]byte {
	out := make([][]byte, 0, len(l.order))
	for _, n := range l.order {
		out = append(out, l.entries[n].Hash)
	}

	return out
}
