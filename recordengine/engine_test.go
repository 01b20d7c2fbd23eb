package recordengine_test

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
	"github.com/notaryclient/notaryclient/recordengine"
)

const testServer = notarytypes.ServerID("server-1")

type fakeAccounts struct {
	accounts map[notarytypes.AccountID]*notarytypes.AssetAccount
}

func (f *fakeAccounts) Account(id notarytypes.AccountID) (*notarytypes.AssetAccount, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, notAccountFoundErr{}
	}

	return a, nil
}

type notAccountFoundErr struct{}

func (notAccountFoundErr) Error() string { return "not found" }

func newTestNym(avail ...notarytypes.TransactionNumber) *notarytypes.Nym {
	nym := &notarytypes.Nym{
		ID:      "nym-a",
		Servers: make(map[notarytypes.ServerID]*notarytypes.ServerNumbers),
	}
	nym.ServerState(testServer).Available = notarytypes.NewNumberSet(avail...)

	return nym
}

func noopPersist(*notarytypes.Nym) error { return nil }

func newCheque(sender notarytypes.NymID, acct notarytypes.AccountID, num notarytypes.TransactionNumber, validTo time.Time) *notarytypes.Cheque {
	return &notarytypes.Cheque{
		CommonFields: notarytypes.CommonFields{
			ValidFrom: validTo.Add(-time.Hour),
			ValidTo:   validTo,
		},
		SenderAccount:  acct,
		SenderNymID:    sender,
		TransactionNum: num,
		Amount:         100,
	}
}

// TestChequeHappyPath covers spec §8 scenario 1: a cheque is deposited and
// a chequeReceipt lands in the sender's account inbox before expiry; record
// moves the entry to the record box without harvesting.
func TestChequeHappyPath(t *testing.T) {
	nym := newTestNym(101, 102, 103)
	mgr := numbers.NewManager(noopPersist)

	n, err := mgr.Draw(nym, testServer, numbers.MarkSingleTransaction)
	require.NoError(t, err)
	require.Equal(t, notarytypes.TransactionNumber(101), n)

	acct := notarytypes.NewAssetAccount("acct-a", nym.ID, "asset-1", testServer)
	acct.Inbox.Add(&notarytypes.Transaction{
		Number:         1,
		Type:           notarytypes.TxChequeReceipt,
		ReferenceToNum: n,
	})

	cheque := newCheque(nym.ID, acct.ID, n, time.Now().Add(time.Hour))
	nym.Outpayments = append(nym.Outpayments, &notarytypes.OutpaymentEntry{Instrument: cheque})

	// The Nym has already processed the receipt, closing the number.
	require.NoError(t, mgr.Close(nym, testServer, n))

	accounts := &fakeAccounts{accounts: map[notarytypes.AccountID]*notarytypes.AssetAccount{acct.ID: acct}}
	engine := recordengine.NewEngine(mgr, accounts, noopPersist, nil)

	decision, err := engine.Record(nym, testServer, recordengine.SourceOutpayment, 0, true)
	require.NoError(t, err)
	require.Equal(t, recordengine.DecisionRecord, decision)
	require.Len(t, nym.RecordBox, 1)
	require.Empty(t, nym.Outpayments)
	require.Equal(t, cheque, nym.RecordBox[0].Instrument,
		"archived instrument mismatch:\n%s", spew.Sdump(nym.RecordBox[0]))
}

// TestChequeExpiresUnused covers spec §8 scenario 2: the cheque's valid_to
// passes with no receipt ever landing in the inbox; record_payment harvests
// the number and moves the entry to the expired box.
func TestChequeExpiresUnused(t *testing.T) {
	nym := newTestNym(101, 102, 103)
	mgr := numbers.NewManager(noopPersist)

	n, err := mgr.Draw(nym, testServer, numbers.MarkSingleTransaction)
	require.NoError(t, err)

	acct := notarytypes.NewAssetAccount("acct-a", nym.ID, "asset-1", testServer)
	cheque := newCheque(nym.ID, acct.ID, n, time.Now().Add(-time.Minute))
	nym.Outpayments = append(nym.Outpayments, &notarytypes.OutpaymentEntry{Instrument: cheque})

	accounts := &fakeAccounts{accounts: map[notarytypes.AccountID]*notarytypes.AssetAccount{acct.ID: acct}}
	engine := recordengine.NewEngine(mgr, accounts, noopPersist, nil)

	decision, err := engine.Record(nym, testServer, recordengine.SourceOutpayment, 0, true)
	require.NoError(t, err)
	require.Equal(t, recordengine.DecisionHarvestExpire, decision)
	require.Len(t, nym.ExpiredBox, 1)
	require.Empty(t, nym.Outpayments)

	require.True(t, nym.ServerState(testServer).Available.Has(n))
	require.False(t, mgr.IsIssued(nym, testServer, n))
}

// TestChequeExpiresButCashedWhileInOutpayments covers spec §8 scenario 3: a
// chequeReceipt for the number is present when valid_to passes; record
// must NOT harvest, even though it still archives to the expired box.
func TestChequeExpiresButCashedWhileInOutpayments(t *testing.T) {
	nym := newTestNym(101, 102, 103)
	mgr := numbers.NewManager(noopPersist)

	n, err := mgr.Draw(nym, testServer, numbers.MarkSingleTransaction)
	require.NoError(t, err)

	acct := notarytypes.NewAssetAccount("acct-a", nym.ID, "asset-1", testServer)
	acct.Inbox.Add(&notarytypes.Transaction{
		Number:         1,
		Type:           notarytypes.TxChequeReceipt,
		ReferenceToNum: n,
	})

	cheque := newCheque(nym.ID, acct.ID, n, time.Now().Add(-time.Minute))
	nym.Outpayments = append(nym.Outpayments, &notarytypes.OutpaymentEntry{Instrument: cheque})

	accounts := &fakeAccounts{accounts: map[notarytypes.AccountID]*notarytypes.AssetAccount{acct.ID: acct}}
	engine := recordengine.NewEngine(mgr, accounts, noopPersist, nil)

	decision, err := engine.Record(nym, testServer, recordengine.SourceOutpayment, 0, true)
	require.NoError(t, err)
	require.Equal(t, recordengine.DecisionExpireNoHarvest, decision)
	require.Len(t, nym.ExpiredBox, 1)

	// The number remains issued until the receipt is separately processed.
	require.True(t, mgr.IsIssued(nym, testServer, n))
}

// TestNotExpiredStillIssuedRefuses covers spec §4.4 step 7: a live,
// unexpired cheque whose number is still issued must be refused, since a
// recipient could still redeem it.
func TestNotExpiredStillIssuedRefuses(t *testing.T) {
	nym := newTestNym(101, 102, 103)
	mgr := numbers.NewManager(noopPersist)

	n, err := mgr.Draw(nym, testServer, numbers.MarkSingleTransaction)
	require.NoError(t, err)

	acct := notarytypes.NewAssetAccount("acct-a", nym.ID, "asset-1", testServer)
	cheque := newCheque(nym.ID, acct.ID, n, time.Now().Add(time.Hour))
	nym.Outpayments = append(nym.Outpayments, &notarytypes.OutpaymentEntry{Instrument: cheque})

	accounts := &fakeAccounts{accounts: map[notarytypes.AccountID]*notarytypes.AssetAccount{acct.ID: acct}}
	engine := recordengine.NewEngine(mgr, accounts, noopPersist, nil)

	_, err = engine.Record(nym, testServer, recordengine.SourceOutpayment, 0, true)
	require.Error(t, err)
	require.Len(t, nym.Outpayments, 1, "refused entries stay untouched")
}

// TestPaymentInboxNeverHarvests covers spec §4.4 step 2: incoming entries
// move straight to record/expired without ever touching the number pools.
func TestPaymentInboxNeverHarvests(t *testing.T) {
	nym := newTestNym(101)
	mgr := numbers.NewManager(noopPersist)

	cheque := newCheque("nym-remote", "acct-remote", 999, time.Now().Add(-time.Minute))
	nym.PaymentInbox = append(nym.PaymentInbox, &notarytypes.BoxEntry{Instrument: cheque})

	accounts := &fakeAccounts{accounts: map[notarytypes.AccountID]*notarytypes.AssetAccount{}}
	engine := recordengine.NewEngine(mgr, accounts, noopPersist, nil)

	decision, err := engine.Record(nym, testServer, recordengine.SourcePaymentInbox, 0, true)
	require.NoError(t, err)
	require.Equal(t, recordengine.DecisionExpireNoHarvest, decision)
	require.Len(t, nym.ExpiredBox, 1)
	require.Equal(t, 1, nym.ServerState(testServer).Available.Len(), "payment inbox entries never touch numbers")
}

// TestDiscardRemovesWithoutArchiving covers the keepRecord=false discard path used by
// the CLI's discard_cheque surface: the entry is removed from its source
// box without being archived anywhere.
func TestDiscardRemovesWithoutArchiving(t *testing.T) {
	nym := newTestNym(101, 102, 103)
	mgr := numbers.NewManager(noopPersist)

	n, err := mgr.Draw(nym, testServer, numbers.MarkSingleTransaction)
	require.NoError(t, err)

	acct := notarytypes.NewAssetAccount("acct-a", nym.ID, "asset-1", testServer)
	cheque := newCheque(nym.ID, acct.ID, n, time.Now().Add(-time.Minute))
	nym.Outpayments = append(nym.Outpayments, &notarytypes.OutpaymentEntry{Instrument: cheque})

	accounts := &fakeAccounts{accounts: map[notarytypes.AccountID]*notarytypes.AssetAccount{acct.ID: acct}}
	engine := recordengine.NewEngine(mgr, accounts, noopPersist, nil)

	decision, err := engine.Record(nym, testServer, recordengine.SourceOutpayment, 0, false)
	require.NoError(t, err)
	require.Equal(t, recordengine.DecisionDiscard, decision)
	require.Empty(t, nym.RecordBox)
	require.Empty(t, nym.ExpiredBox)
	require.Empty(t, nym.Outpayments)
}
