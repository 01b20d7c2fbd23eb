package notarytypes

import "time"

// InstrumentKind discriminates the tagged sum PaymentInstrument replaces
// the original Contract <- Scriptable <- Instrument <- Trackable
// inheritance chain with, per DESIGN NOTES §9.
type InstrumentKind int

const (
	KindCheque InstrumentKind = iota
	KindVoucher
	KindInvoice
	KindPaymentPlan
	KindSmartContract
	KindNotice
	KindPurse
)

// CommonFields holds the attributes every payment instrument shares, per
// spec §3.
type CommonFields struct {
	Asset     AssetID
	Server    ServerID
	ValidFrom time.Time
	ValidTo   time.Time
	Memo      string
}

// InWindow reports whether now falls within [ValidFrom, ValidTo].
func (c CommonFields) InWindow(now time.Time) bool {
	return !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}

// Expired reports whether now is after ValidTo.
func (c CommonFields) Expired(now time.Time) bool {
	return now.After(c.ValidTo)
}

// PaymentInstrument is the tagged-sum interface every concrete instrument
// kind implements. RecordEngine and Outpayments dispatch on Kind rather
// than on a class hierarchy.
type PaymentInstrument interface {
	Kind() InstrumentKind
	Common() CommonFields
	// OpeningNumber returns the transaction number that keeps this
	// instrument "live" — for simple instruments this is the same as the
	// primary transaction number; for payment plans and smart contracts
	// it is the sender/activator's opening number specifically.
	OpeningNumber() TransactionNumber
	// SenderNym returns the Nym whose role is "sender" for purposes of
	// RecordEngine step 4: for vouchers this is the remitter, for
	// cheques/plans/contracts it is the signer whose opening number is on
	// the instrument.
	SenderNym() NymID
	// RelevantAccounts returns the accounts of local that RecordEngine's
	// "related receipt" search (spec §4.4 step 6) should walk for this
	// instrument. For a smart contract this is local's own party
	// attachment, since that is the only party local has signing
	// authority over.
	RelevantAccounts(local NymID) []AccountID
	// ClosingNumbers returns the sender-role's own closing numbers, the
	// auxiliary numbers RecordEngine harvests alongside OpeningNumber.
	// Simple instruments (cheque/voucher/invoice) have none.
	ClosingNumbers() []TransactionNumber
}

// Cheque is a simple signed instrument drawing against the sender's
// account. A negative Amount means the instrument is functionally an
// invoice (spec §4.3 numeric semantics).
type Cheque struct {
	CommonFields
	SenderAccount    AccountID
	SenderNymID      NymID
	RecipientNymID   NymID
	RecipientAccount AccountID
	TransactionNum   TransactionNumber
	Amount           int64
}

func (c *Cheque) Kind() InstrumentKind          { return KindCheque }
func (c *Cheque) Common() CommonFields          { return c.CommonFields }
func (c *Cheque) OpeningNumber() TransactionNumber { return c.TransactionNum }
func (c *Cheque) SenderNym() NymID              { return c.SenderNymID }

// IsInvoice reports whether this cheque is functionally an invoice
// (negative amount), per spec §4.3.
func (c *Cheque) IsInvoice() bool { return c.Amount < 0 }

// RelevantAccounts for a cheque is just the sender's drawing account.
func (c *Cheque) RelevantAccounts(NymID) []AccountID {
	return []AccountID{c.SenderAccount}
}

// ClosingNumbers is empty: a cheque carries only its single transaction
// number.
func (c *Cheque) ClosingNumbers() []TransactionNumber { return nil }

// Voucher is a cheque-like instrument issued by the server on behalf of a
// remitter. Per spec §9 Open Question #2, a voucher with a remitter field
// is only valid once it participates in the voucherReceipt state machine;
// see recordengine and the deposit flow.
type Voucher struct {
	CommonFields
	RemitterNymID    NymID
	RemitterAccount  AccountID
	RecipientNymID   NymID
	RecipientAccount AccountID
	TransactionNum   TransactionNumber
	Amount           int64
}

func (v *Voucher) Kind() InstrumentKind          { return KindVoucher }
func (v *Voucher) Common() CommonFields          { return v.CommonFields }
func (v *Voucher) OpeningNumber() TransactionNumber { return v.TransactionNum }

// SenderNym for a voucher is the remitter, per spec §4.4 step 4.
func (v *Voucher) SenderNym() NymID { return v.RemitterNymID }

// HasRemitter reports whether this voucher names a remitter at all.
func (v *Voucher) HasRemitter() bool { return v.RemitterNymID != "" }

// RelevantAccounts for a voucher is the remitter's account, since the
// remitter is the sender-role per spec §4.4 step 4.
func (v *Voucher) RelevantAccounts(NymID) []AccountID {
	return []AccountID{v.RemitterAccount}
}

func (v *Voucher) ClosingNumbers() []TransactionNumber { return nil }

// Invoice is a negative-amount request for payment; modeled distinctly
// from Cheque.IsInvoice for instruments constructed directly as invoices
// rather than as negative cheques.
type Invoice struct {
	CommonFields
	IssuerNymID    NymID
	IssuerAccount  AccountID
	TransactionNum TransactionNumber
	Amount         int64
}

func (i *Invoice) Kind() InstrumentKind          { return KindInvoice }
func (i *Invoice) Common() CommonFields          { return i.CommonFields }
func (i *Invoice) OpeningNumber() TransactionNumber { return i.TransactionNum }
func (i *Invoice) SenderNym() NymID              { return i.IssuerNymID }
func (i *Invoice) RelevantAccounts(NymID) []AccountID {
	return []AccountID{i.IssuerAccount}
}

func (i *Invoice) ClosingNumbers() []TransactionNumber { return nil }

// PartyNumberPair is the opening/closing transaction number pair one party
// of a recurring item has attached.
type PartyNumberPair struct {
	Opening TransactionNumber
	Closing TransactionNumber
}

// PaymentPlan is created by the recipient (merchant), who draws two
// numbers and sets opening+closing; the payer confirms with two of their
// own, per spec §4.8.
type PaymentPlan struct {
	CommonFields
	MerchantNymID NymID
	MerchantAcct  AccountID
	PayerNymID    NymID
	PayerAcct     AccountID

	MerchantNumbers PartyNumberPair
	PayerNumbers    PartyNumberPair

	// Confirmed is true once the payer has attached their numbers.
	Confirmed bool

	// Canceler is set if either party submitted a cancel-before-
	// activation request themselves.
	Canceler NymID
}

func (p *PaymentPlan) Kind() InstrumentKind { return KindPaymentPlan }
func (p *PaymentPlan) Common() CommonFields { return p.CommonFields }

// OpeningNumber for a payment plan is the activator's (payer's) opening
// number, since the payer is the one who submits to the server.
func (p *PaymentPlan) OpeningNumber() TransactionNumber {
	return p.PayerNumbers.Opening
}

// SenderNym for a payment plan is the payer, whose opening number is on
// the instrument, per spec §4.4 step 4.
func (p *PaymentPlan) SenderNym() NymID { return p.PayerNymID }

// RelevantAccounts for a payment plan is the payer's account.
func (p *PaymentPlan) RelevantAccounts(NymID) []AccountID {
	return []AccountID{p.PayerAcct}
}

// ClosingNumbers for a payment plan is the payer's own closing number;
// the merchant's closing number belongs to the merchant, not to whichever
// Nym is running RecordEngine here.
func (p *PaymentPlan) ClosingNumbers() []TransactionNumber {
	return []TransactionNumber{p.PayerNumbers.Closing}
}

// SmartContractParty is one party's state within a smart contract: whether
// they have confirmed, their account attachments, and — for the activator
// only — the cron opening/closing pair.
type SmartContractParty struct {
	NymID     NymID
	Confirmed bool
	Accounts  []AccountID
	Numbers   PartyNumberPair
}

// SmartContract has N parties, each of whom confirms in turn, per spec
// §4.8. The final activator must be the authorizing agent for at least one
// party and the authorized agent for at least one of that party's
// accounts.
//
// Bylaws/Clauses/Variables/Hooks/Callbacks hold the opaque scripting
// surface the CLI's smart_contract_add_bylaw/add_clause/add_variable/
// add_hook/add_callback bindings populate. The scripting language itself
// is out of scope (spec §1): these are carried as named opaque blobs the
// core never interprets, only transports and signs, per spec §9's
// "specified only as the contracts the core expects from them".
type SmartContract struct {
	CommonFields
	Parties   []*SmartContractParty
	Activator NymID

	Bylaws    map[string][]byte
	Clauses   map[string]string
	Variables map[string]string
	Hooks     map[string][]string
	Callbacks map[string]string

	// Canceler is set if a party submitted a cancel-before-activation
	// request before every party had confirmed, per spec §8 scenario 4.
	Canceler NymID
}

func (s *SmartContract) Kind() InstrumentKind { return KindSmartContract }
func (s *SmartContract) Common() CommonFields { return s.CommonFields }

// OpeningNumber for a smart contract is the activator's cron opening
// number.
func (s *SmartContract) OpeningNumber() TransactionNumber {
	for _, p := range s.Parties {
		if p.NymID == s.Activator {
			return p.Numbers.Opening
		}
	}

	return 0
}

func (s *SmartContract) SenderNym() NymID { return s.Activator }

// RelevantAccounts for a smart contract is local's own party attachment —
// the only accounts local has signing authority over, per spec §4.4 step
// 6's "every account of every party the local Nym has signing authority
// over".
func (s *SmartContract) RelevantAccounts(local NymID) []AccountID {
	p := s.Party(local)
	if p == nil {
		return nil
	}

	return p.Accounts
}

// ClosingNumbers for a smart contract is the activator's own cron closing
// number.
func (s *SmartContract) ClosingNumbers() []TransactionNumber {
	p := s.Party(s.Activator)
	if p == nil {
		return nil
	}

	return []TransactionNumber{p.Numbers.Closing}
}

// AllConfirmed reports whether every party has confirmed.
func (s *SmartContract) AllConfirmed() bool {
	for _, p := range s.Parties {
		if !p.Confirmed {
			return false
		}
	}

	return true
}

// Party looks up a party by NymID.
func (s *SmartContract) Party(id NymID) *SmartContractParty {
	for _, p := range s.Parties {
		if p.NymID == id {
			return p
		}
	}

	return nil
}

// Notice is a server-originated informational instrument with no
// transaction number of its own (reply notices, etc).
type Notice struct {
	CommonFields
	ReferenceToNum TransactionNumber
	Text           string
}

func (n *Notice) Kind() InstrumentKind             { return KindNotice }
func (n *Notice) Common() CommonFields             { return n.CommonFields }
func (n *Notice) OpeningNumber() TransactionNumber { return n.ReferenceToNum }
func (n *Notice) SenderNym() NymID                 { return "" }
func (n *Notice) RelevantAccounts(NymID) []AccountID { return nil }
func (n *Notice) ClosingNumbers() []TransactionNumber { return nil }
