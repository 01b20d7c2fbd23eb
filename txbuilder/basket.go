package txbuilder

import (
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
)

// BasketExchange is the result of a basket exchange draw (spec §4.9): the
// main transaction number, one closing number per sub-account, and one
// closing number for the main account.
type BasketExchange struct {
	MainTxNumber    notarytypes.TransactionNumber
	SubClosing      []notarytypes.TransactionNumber
	MainClosing     notarytypes.TransactionNumber
	Payload         []byte
	Balance         *BalanceStatement
	LedgerSignature []byte
}

// BuildBasketExchange draws the numbers required for exchanging a basket
// of assets atomically, per spec §4.9: subCount+2 numbers total (one main
// transaction number, one closing per sub-account, one closing for the
// main account; see DESIGN.md for why this count, not the spec's internally
// inconsistent "1+2x(sub-count)" phrasing, is authoritative). The balance
// statement covers a zero net change on the main account, since basket
// receipts account for the per-sub-account movement.
func BuildBasketExchange(
	mgr *numbers.Manager,
	nym *notarytypes.Nym,
	server notarytypes.ServerID,
	mainAcct *notarytypes.AssetAccount,
	legs []notarytypes.SubAsset,
	signer Signer,
) (*BasketExchange, error) {
	subCount := len(legs)
	mark := numbers.MarkBasketExchange(subCount)

	nums, err := mgr.DrawN(nym, server, subCount+2, mark)
	if err != nil {
		return nil, err
	}

	mainTx := nums[0]
	subClosing := nums[1 : 1+subCount]
	mainClosing := nums[1+subCount]

	payload, err := notarytypes.EncodeBasketPayload(legs)
	if err != nil {
		mgr.ReturnUnused(nym, server, nums...)

		return nil, err
	}

	// Zero net change on the main account: the per-sub-account movement
	// is accounted for by the individual basket receipts, not the main
	// account's own balance statement.
	stmt := NewBalanceStatement(mainAcct, 0)
	stmt.Signature = signer.Sign(statementDigest(stmt))

	be := &BasketExchange{
		MainTxNumber: mainTx,
		SubClosing:   subClosing,
		MainClosing:  mainClosing,
		Payload:      payload,
		Balance:      stmt,
	}
	be.LedgerSignature = signer.Sign(basketDigest(be))

	return be, nil
}

func basketDigest(b *BasketExchange) []byte {
	var out []byte
	out = append(out, int64ToBytes(int64(b.MainTxNumber))...)
	for _, n := range b.SubClosing {
		out = append(out, int64ToBytes(int64(n))...)
	}
	out = append(out, int64ToBytes(int64(b.MainClosing))...)
	out = append(out, b.Payload...)
	out = append(out, b.Balance.Signature...)

	return out
}
