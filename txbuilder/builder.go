package txbuilder

import (
	"github.com/decred/slog"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by this package.
func UseLogger(logger slog.Logger) { log = logger }

// Item is the operation-specific payload attached to a built transaction:
// a deposited cheque, a voucher request, a market trade, a smart
// contract, etc. Its Signature is computed inner-first, before the
// enclosing ledger's signature, per spec §4.3 ordering rule.
type Item struct {
	Kind      string
	Payload   []byte
	Signature []byte
}

// Built is the output of TransactionBuilder: a one-transaction ledger
// carrying the primary transaction number, its items, and either a
// balance or a transaction statement.
type Built struct {
	Primary        notarytypes.TransactionNumber
	Closing        []notarytypes.TransactionNumber
	Items          []*Item
	Balance        *BalanceStatement
	TxStatement    *TransactionStatement
	LedgerSignature []byte
}

// Signer signs item and ledger digests with the acting Nym's key.
type Signer interface {
	Sign(digest []byte) []byte
}

// BuildBalanceChanging builds a one-transaction ledger for an operation
// that changes acct's balance by change, attaching items and a
// BalanceStatement. closingCount auxiliary closing numbers are drawn
// alongside the primary number. On any failure after numbers are drawn,
// every drawn number is returned to Available before the error
// propagates, per spec §4.3.
func BuildBalanceChanging(
	mgr *numbers.Manager,
	nym *notarytypes.Nym,
	server notarytypes.ServerID,
	acct *notarytypes.AssetAccount,
	change int64,
	closingCount int,
	itemBuilder func(primary notarytypes.TransactionNumber, closing []notarytypes.TransactionNumber) (*Item, error),
	signer Signer,
) (*Built, error) {
	nums, err := mgr.DrawN(nym, server, 1+closingCount, numbers.MarkSingleTransaction)
	if err != nil {
		return nil, err
	}

	primary := nums[0]
	closing := nums[1:]

	item, err := itemBuilder(primary, closing)
	if err != nil {
		mgr.ReturnUnused(nym, server, nums...)

		return nil, err
	}

	// Item signatures are computed inner-first.
	item.Signature = signer.Sign(item.Payload)

	stmt := NewBalanceStatement(acct, change)
	if !stmt.Valid() {
		mgr.ReturnUnused(nym, server, nums...)

		return nil, notaryerr.Internal("balance statement failed local verification")
	}
	stmt.Signature = signer.Sign(statementDigest(stmt))

	built := &Built{
		Primary: primary,
		Closing: closing,
		Items:   []*Item{item},
		Balance: stmt,
	}

	// The ledger signature is outermost, over everything already signed.
	built.LedgerSignature = signer.Sign(ledgerDigest(built))

	return built, nil
}

// BuildNumberCommitting builds a one-transaction ledger for an operation
// that only commits numbers (market offers, smart contracts), attaching a
// TransactionStatement instead of a balance statement.
func BuildNumberCommitting(
	mgr *numbers.Manager,
	nym *notarytypes.Nym,
	server notarytypes.ServerID,
	closingCount int,
	mark numbers.LowWaterMark,
	itemBuilder func(primary notarytypes.TransactionNumber, closing []notarytypes.TransactionNumber) (*Item, error),
	signer Signer,
) (*Built, error) {
	nums, err := mgr.DrawN(nym, server, 1+closingCount, mark)
	if err != nil {
		return nil, err
	}

	primary := nums[0]
	closing := nums[1:]

	item, err := itemBuilder(primary, closing)
	if err != nil {
		mgr.ReturnUnused(nym, server, nums...)

		return nil, err
	}
	item.Signature = signer.Sign(item.Payload)

	stmt := &TransactionStatement{
		Nym:         nym.ID,
		Server:      server,
		NumbersUsed: nums,
	}
	stmt.Signature = signer.Sign(txStatementDigest(stmt))

	built := &Built{
		Primary:     primary,
		Closing:     closing,
		Items:       []*Item{item},
		TxStatement: stmt,
	}
	built.LedgerSignature = signer.Sign(ledgerDigest(built))

	return built, nil
}

func statementDigest(s *BalanceStatement) []byte {
	var out []byte
	out = append(out, []byte(s.Account)...)
	out = append(out, int64ToBytes(s.PriorBalance)...)
	out = append(out, int64ToBytes(s.Change)...)
	out = append(out, int64ToBytes(s.ResultBalance)...)
	for _, h := range s.InboxSnapshot {
		out = append(out, h...)
	}
	for _, h := range s.OutboxSnapshot {
		out = append(out, h...)
	}

	return out
}

func txStatementDigest(s *TransactionStatement) []byte {
	var out []byte
	out = append(out, []byte(s.Nym)...)
	out = append(out, []byte(s.Server)...)
	for _, n := range s.NumbersUsed {
		out = append(out, int64ToBytes(int64(n))...)
	}

	return out
}

func ledgerDigest(b *Built) []byte {
	var out []byte
	out = append(out, int64ToBytes(int64(b.Primary))...)
	for _, item := range b.Items {
		out = append(out, item.Signature...)
	}
	if b.Balance != nil {
		out = append(out, b.Balance.Signature...)
	}
	if b.TxStatement != nil {
		out = append(out, b.TxStatement.Signature...)
	}

	return out
}

func int64ToBytes(v int64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}

	return b
}

// DividendTotal computes |issuerBalance| x amountPerShare, per spec §4.3's
// literal numeric semantics ("dividend total = |issuer_balance| ×
// amount_per_share"), rejecting the payout if that total exceeds the
// issuer's own balance (sourceBalance) — the source account paying the
// dividend.
func DividendTotal(issuerBalance, amountPerShare, sourceBalance int64) (int64, error) {
	abs := issuerBalance
	if abs < 0 {
		abs = -abs
	}

	total := abs * amountPerShare
	if total > sourceBalance {
		return 0, notaryerr.ErrInsufficientFunds
	}

	return total, nil
}
