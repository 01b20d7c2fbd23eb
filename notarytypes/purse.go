package notarytypes

// Token is one opaque blinded cash token. The notary client treats its
// contents as an abstract blob; the blinding/unblinding cryptography is
// out of scope (spec §1 non-goals: cash-token protocol design).
type Token []byte

// OwnerKind discriminates a purse's owner capability: a registered Nym, or
// an embedded symmetric key unlocked by a passphrase-derived master key.
type OwnerKind int

const (
	OwnerNym OwnerKind = iota
	OwnerSymmetric
)

// CashPurse is an ordered sequence of opaque tokens, either Nym-owned or
// password-owned, per spec §3. OwnerNymID is set only when Owner ==
// OwnerNym; EmbeddedKey is set only when Owner == OwnerSymmetric. It also
// implements PaymentInstrument (KindPurse) so RecordEngine can dispatch
// on it like any other sent/received instrument, even though it carries
// no transaction number of its own.
type CashPurse struct {
	CommonFields
	Server ServerID
	Asset  AssetID

	Owner      OwnerKind
	OwnerNymID NymID

	// EmbeddedKey is the purse's own symmetric key ciphertext, present
	// only for password-owned purses. Its plaintext is never stored here;
	// see package purse for the seal/open capability that uses it.
	EmbeddedKey []byte

	Tokens []Token
}

// NewCashPurse returns an empty purse declared for (server, asset).
func NewCashPurse(server ServerID, asset AssetID) *CashPurse {
	return &CashPurse{Server: server, Asset: asset}
}

func (p *CashPurse) Kind() InstrumentKind { return KindPurse }
func (p *CashPurse) Common() CommonFields { return p.CommonFields }

// OpeningNumber is always zero: a cash purse has no transaction number,
// per spec §4.4's cash-purse synthetic record-key carve-out.
func (p *CashPurse) OpeningNumber() TransactionNumber { return 0 }

// SenderNym for a Nym-owned purse is its declared owner; password-owned
// purses have no Nym sender.
func (p *CashPurse) SenderNym() NymID {
	if p.Owner == OwnerNym {
		return p.OwnerNymID
	}

	return ""
}

// RelevantAccounts is empty: purses have no account-ledger receipts to
// search, only the synthetic record-key collision check RecordEngine
// performs directly against the destination box.
func (p *CashPurse) RelevantAccounts(NymID) []AccountID { return nil }

// ClosingNumbers is always empty: a cash purse carries no numbers beyond
// the synthetic opening key RecordEngine fabricates for it.
func (p *CashPurse) ClosingNumbers() []TransactionNumber { return nil }

// Push appends a token to the end of the purse.
func (p *CashPurse) Push(t Token) { p.Tokens = append(p.Tokens, t) }

// Pop removes and returns the last token, or (nil, false) if empty.
func (p *CashPurse) Pop() (Token, bool) {
	if len(p.Tokens) == 0 {
		return nil, false
	}

	last := p.Tokens[len(p.Tokens)-1]
	p.Tokens = p.Tokens[:len(p.Tokens)-1]

	return last, true
}

// Peek returns the last token without removing it.
func (p *CashPurse) Peek() (Token, bool) {
	if len(p.Tokens) == 0 {
		return nil, false
	}

	return p.Tokens[len(p.Tokens)-1], true
}

// Empty reports whether the purse has no tokens.
func (p *CashPurse) Empty() bool { return len(p.Tokens) == 0 }

// OutpaymentEntry is an instrument the local Nym has sent and must
// reconcile, per spec §3/§4.5. It is kept until closed by a matching
// receipt, canceled, or irrevocably expired with its number clawed back.
type OutpaymentEntry struct {
	Instrument PaymentInstrument

	// Canceled is set once the local Nym explicitly cancels the
	// instrument rather than waiting for it to be redeemed or expire.
	Canceled bool
}
