package cron_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/cron"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
)

const testServer = notarytypes.ServerID("server-1")

func noopPersist(*notarytypes.Nym) error { return nil }

func newTestNym(id notarytypes.NymID, avail ...notarytypes.TransactionNumber) *notarytypes.Nym {
	nym := &notarytypes.Nym{ID: id, Servers: make(map[notarytypes.ServerID]*notarytypes.ServerNumbers)}
	nym.ServerState(testServer).Available = notarytypes.NewNumberSet(avail...)

	return nym
}

// TestPaymentPlanProposeConfirm covers the propose/confirm half of spec
// §4.8: the merchant draws its opening/closing pair on propose, the payer
// draws its own on confirm, and the plan becomes Confirmed.
func TestPaymentPlanProposeConfirm(t *testing.T) {
	mgr := numbers.NewManager(noopPersist)
	merchant := newTestNym("merchant", 1, 2)
	payer := newTestNym("payer", 101, 102)

	plan, err := cron.ProposePaymentPlan(mgr, merchant, testServer, "merchant-acct", payer.ID, "payer-acct", notarytypes.CommonFields{})
	require.NoError(t, err)
	require.False(t, plan.Confirmed)
	require.NotZero(t, plan.MerchantNumbers.Opening)
	require.NotZero(t, plan.MerchantNumbers.Closing)

	require.True(t, mgr.IsIssued(merchant, testServer, plan.MerchantNumbers.Opening))

	err = cron.ConfirmPaymentPlan(mgr, payer, testServer, plan)
	require.NoError(t, err)
	require.True(t, plan.Confirmed)
	require.NotZero(t, plan.PayerNumbers.Opening)
	require.True(t, mgr.IsIssued(payer, testServer, plan.PayerNumbers.Opening))
}

// TestConfirmPaymentPlanWrongPayerRejected ensures only the named payer can
// confirm.
func TestConfirmPaymentPlanWrongPayerRejected(t *testing.T) {
	mgr := numbers.NewManager(noopPersist)
	merchant := newTestNym("merchant", 1, 2)
	payer := newTestNym("payer", 101, 102)
	impostor := newTestNym("impostor", 201, 202)

	plan, err := cron.ProposePaymentPlan(mgr, merchant, testServer, "merchant-acct", payer.ID, "payer-acct", notarytypes.CommonFields{})
	require.NoError(t, err)

	err = cron.ConfirmPaymentPlan(mgr, impostor, testServer, plan)
	require.Error(t, err)
	require.False(t, plan.Confirmed)
}

// TestCancelPaymentPlanBeforeActivation covers either party being able to
// submit a cancel themselves before the plan is activated.
func TestCancelPaymentPlanBeforeActivation(t *testing.T) {
	plan := &notarytypes.PaymentPlan{MerchantNymID: "merchant", PayerNymID: "payer"}
	merchant := &notarytypes.Nym{ID: "merchant"}

	err := cron.CancelBeforeActivation(merchant, plan)
	require.NoError(t, err)
	require.Equal(t, notarytypes.NymID("merchant"), plan.Canceler)
}

func TestCancelPaymentPlanUnauthorized(t *testing.T) {
	plan := &notarytypes.PaymentPlan{MerchantNymID: "merchant", PayerNymID: "payer"}
	stranger := &notarytypes.Nym{ID: "stranger"}

	err := cron.CancelBeforeActivation(stranger, plan)
	require.Error(t, err)
	require.Empty(t, plan.Canceler)
}

// TestSmartContractActivateHappyPath covers spec §4.8: once every party has
// confirmed, the activator (who must hold at least one account on their own
// party) draws a cron opening/closing pair and the contract activates.
func TestSmartContractActivateHappyPath(t *testing.T) {
	mgr := numbers.NewManager(noopPersist)
	alice := newTestNym("alice", 1, 2, 3)

	contract := cron.NewSmartContract(notarytypes.CommonFields{}, "alice", "bob")
	require.NoError(t, cron.AddAccount(contract, "alice", "alice-acct"))
	require.NoError(t, cron.ConfirmParty(contract, "alice"))
	require.NoError(t, cron.ConfirmParty(contract, "bob"))

	result, err := cron.Activate(mgr, alice, testServer, contract)
	require.NoError(t, err)
	require.True(t, result.Activated)
	require.Equal(t, notarytypes.NymID("alice"), contract.Activator)

	party := contract.Party("alice")
	require.NotZero(t, party.Numbers.Opening)
	require.NotZero(t, party.Numbers.Closing)
	require.True(t, mgr.IsIssued(alice, testServer, party.Numbers.Opening))
}

// TestSmartContractActivateWithoutAccountUnauthorized covers the rule that
// the activator must be the authorized agent for at least one of their
// party's asset accounts.
func TestSmartContractActivateWithoutAccountUnauthorized(t *testing.T) {
	mgr := numbers.NewManager(noopPersist)
	alice := newTestNym("alice", 1, 2)

	contract := cron.NewSmartContract(notarytypes.CommonFields{}, "alice", "bob")
	require.NoError(t, cron.ConfirmParty(contract, "alice"))
	require.NoError(t, cron.ConfirmParty(contract, "bob"))

	_, err := cron.Activate(mgr, alice, testServer, contract)
	require.Error(t, err)
}

// TestSmartContractActivateBeforeAllConfirmedCancels covers spec §8 scenario
// 4: activation attempted before every party has confirmed instead routes
// to cancel-before-activation, marking the caller as canceler and drawing
// no numbers at all.
func TestSmartContractActivateBeforeAllConfirmedCancels(t *testing.T) {
	mgr := numbers.NewManager(noopPersist)
	alice := newTestNym("alice", 1, 2)

	contract := cron.NewSmartContract(notarytypes.CommonFields{}, "alice", "bob")
	require.NoError(t, cron.AddAccount(contract, "alice", "alice-acct"))
	require.NoError(t, cron.ConfirmParty(contract, "alice"))
	// bob never confirms.

	result, err := cron.Activate(mgr, alice, testServer, contract)
	require.NoError(t, err)
	require.False(t, result.Activated)
	require.Equal(t, notarytypes.NymID("alice"), contract.Canceler)
	require.Empty(t, contract.Activator)

	party := contract.Party("alice")
	require.Zero(t, party.Numbers.Opening, "no numbers drawn on cancel-before-activation")
}

// TestCloseFinalReceiptHarvestsPair covers spec §4.10: closing the
// finalReceipt for a canceled or completed cron item frees its opening and
// closing numbers back to available.
func TestCloseFinalReceiptHarvestsPair(t *testing.T) {
	mgr := numbers.NewManager(noopPersist)
	alice := newTestNym("alice", 1, 2)

	nums, err := mgr.DrawN(alice, testServer, 2, numbers.MarkSingleTransaction)
	require.NoError(t, err)
	opening, closing := nums[0], nums[1]

	cron.CloseFinalReceipt(mgr, alice, testServer, opening, closing)

	require.False(t, mgr.IsIssued(alice, testServer, opening))
	require.False(t, mgr.IsIssued(alice, testServer, closing))
	require.True(t, alice.ServerState(testServer).Available.Has(opening))
	require.True(t, alice.ServerState(testServer).Available.Has(closing))
}
