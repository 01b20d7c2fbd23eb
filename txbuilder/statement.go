// Package txbuilder implements TransactionBuilder (spec §4.3): building a
// one-transaction ledger for a transaction request, attaching either a
// BalanceStatement or a TransactionStatement, and enforcing the ordering
// and numeric semantics the spec requires. Also hosts basket exchange
// (§4.9), which is a TransactionBuilder operation over a composite
// payload. Grounded on the teacher's lnwallet TX-construction pattern and
// lnwallet/chanfunding/coin_select.go's multi-input accounting for the
// basket's multi-sub-account draw.
package txbuilder

import (
	"github.com/notaryclient/notaryclient/notarytypes"
)

// BalanceStatement signs off on the account's balance transition and the
// exact set of abbreviated receipts in inbox+outbox at signing time, so
// the server can prove either side cheated, per spec §4.3.
type BalanceStatement struct {
	Account         notarytypes.AccountID
	PriorBalance    int64
	Change          int64
	ResultBalance   int64
	InboxSnapshot   [][]byte
	OutboxSnapshot  [][]byte
	Signature       []byte
}

// Valid checks the statement's internal arithmetic: ResultBalance must
// equal PriorBalance+Change. TransactionBuilder verifies this locally
// before signing, per spec §4.3.
func (s *BalanceStatement) Valid() bool {
	return s.PriorBalance+s.Change == s.ResultBalance
}

// NewBalanceStatement builds a statement from an account's current state
// and ledgers, snapshotting the exact abbreviated receipt set the server
// must be able to verify against.
func NewBalanceStatement(acct *notarytypes.AssetAccount, change int64) *BalanceStatement {
	return &BalanceStatement{
		Account:        acct.ID,
		PriorBalance:   acct.Balance,
		Change:         change,
		ResultBalance:  acct.Balance + change,
		InboxSnapshot:  acct.Inbox.AbbreviatedSnapshot(),
		OutboxSnapshot: acct.Outbox.AbbreviatedSnapshot(),
	}
}

// TransactionStatement is attached to operations that only commit numbers
// without changing a balance (market offers, smart contracts), per spec
// §4.3.
type TransactionStatement struct {
	Nym          notarytypes.NymID
	Server       notarytypes.ServerID
	NumbersUsed  []notarytypes.TransactionNumber
	Signature    []byte
}
