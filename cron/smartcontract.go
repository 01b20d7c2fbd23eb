package cron

import (
	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
)

// NewSmartContract returns an unconfirmed contract over the given parties.
func NewSmartContract(common notarytypes.CommonFields, partyIDs ...notarytypes.NymID) *notarytypes.SmartContract {
	parties := make([]*notarytypes.SmartContractParty, 0, len(partyIDs))
	for _, id := range partyIDs {
		parties = append(parties, &notarytypes.SmartContractParty{NymID: id})
	}

	return &notarytypes.SmartContract{CommonFields: common, Parties: parties}
}

// AddAccount attaches acct to party's signing authority before that party
// confirms, per spec §4.8 ("activator... authorized agent for at least one
// asset account of that party").
func AddAccount(contract *notarytypes.SmartContract, party notarytypes.NymID, acct notarytypes.AccountID) error {
	p := contract.Party(party)
	if p == nil {
		return notaryerr.ErrNotFound
	}

	p.Accounts = append(p.Accounts, acct)

	return nil
}

// ConfirmParty marks party as having confirmed the contract. Each party
// confirms in turn and signs, per spec §4.8; the signature itself is
// produced by the caller's Signer and is out of this function's scope —
// it only flips the confirmation bit the rest of the package checks.
func ConfirmParty(contract *notarytypes.SmartContract, party notarytypes.NymID) error {
	p := contract.Party(party)
	if p == nil {
		return notaryerr.ErrNotFound
	}

	p.Confirmed = true

	return nil
}

// ActivationResult is the outcome of Activate: either the contract is
// ready to submit with a freshly drawn cron opening/closing pair, or not
// every party had confirmed and the contract was instead routed to
// cancel-before-activation, per spec §8 scenario 4.
type ActivationResult struct {
	Activated bool
	Contract  *notarytypes.SmartContract
}

// Activate implements spec §4.8's activation rule: the final activator
// must be the authorizing agent for at least one party and the authorized
// agent for at least one asset account of that party, supplying the cron
// opening+closing pair from their own account. If not every party has
// confirmed, activation instead marks the canceler and returns the
// cancel-before-activation form (spec §8 scenario 4); harvesting each
// confirming party's opening number happens later, when the server's
// rejection delivers the corresponding finalReceipt (see CloseFinalReceipt).
func Activate(
	mgr *numbers.Manager,
	activator *notarytypes.Nym,
	server notarytypes.ServerID,
	contract *notarytypes.SmartContract,
) (*ActivationResult, error) {
	if !contract.AllConfirmed() {
		contract.Canceler = activator.ID

		return &ActivationResult{Activated: false, Contract: contract}, nil
	}

	party := contract.Party(activator.ID)
	if party == nil {
		return nil, notaryerr.ErrUnauthorized
	}
	if len(party.Accounts) == 0 {
		return nil, notaryerr.ErrUnauthorized
	}

	nums, err := mgr.DrawN(activator, server, 2, numbers.MarkSingleTransaction)
	if err != nil {
		return nil, err
	}

	party.Numbers = notarytypes.PartyNumberPair{Opening: nums[0], Closing: nums[1]}
	contract.Activator = activator.ID

	log.Tracef("cron: activated smart contract by %s, cron numbers %d/%d", activator.ID, nums[0], nums[1])

	return &ActivationResult{Activated: true, Contract: contract}, nil
}

// CloseFinalReceipt harvests the opening and closing numbers a cron item
// held once its finalReceipt has been processed, per spec §4.10: the
// cancel request itself only references the original transaction number;
// it is closing the resulting finalReceipt that actually frees the
// opening/closing pair.
func CloseFinalReceipt(mgr *numbers.Manager, nym *notarytypes.Nym, server notarytypes.ServerID, opening, closing notarytypes.TransactionNumber) {
	mgr.ReturnUnused(nym, server, opening, closing)
}
