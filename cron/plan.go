// Package cron implements RecurringBuilder (spec §4.8): payment-plan and
// smart-contract confirmation/activation, plus cancel-cron-item (spec
// §4.10). Grounded on the teacher's watchtower/wtpolicy session/policy
// negotiation idiom (multi-party parameters agreed before activation) and
// routing/unified_policies.go's merging of several parties' policies into
// one.
package cron

import (
	"github.com/decred/slog"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by this package.
func UseLogger(logger slog.Logger) { log = logger }

// Signer signs a digest with the acting Nym's key.
type Signer interface {
	Sign(digest []byte) []byte
}

// ProposePaymentPlan is called by the recipient (merchant), who draws two
// numbers and sets opening+closing on the instrument before transmitting
// it to the payer, per spec §4.8.
func ProposePaymentPlan(
	mgr *numbers.Manager,
	merchant *notarytypes.Nym,
	server notarytypes.ServerID,
	merchantAcct notarytypes.AccountID,
	payer notarytypes.NymID,
	payerAcct notarytypes.AccountID,
	common notarytypes.CommonFields,
) (*notarytypes.PaymentPlan, error) {
	nums, err := mgr.DrawN(merchant, server, 2, numbers.MarkSingleTransaction)
	if err != nil {
		return nil, err
	}

	plan := &notarytypes.PaymentPlan{
		CommonFields:  common,
		MerchantNymID: merchant.ID,
		MerchantAcct:  merchantAcct,
		PayerNymID:    payer,
		PayerAcct:     payerAcct,
		MerchantNumbers: notarytypes.PartyNumberPair{
			Opening: nums[0],
			Closing: nums[1],
		},
	}

	log.Tracef("cron: proposed payment plan for merchant %s, payer %s (merchant numbers %d/%d)",
		merchant.ID, payer, nums[0], nums[1])

	return plan, nil
}

// ConfirmPaymentPlan is called by the payer, who draws two of their own
// numbers and attaches them; the payer becomes the activator who submits
// the plan to the server, per spec §4.8.
func ConfirmPaymentPlan(
	mgr *numbers.Manager,
	payer *notarytypes.Nym,
	server notarytypes.ServerID,
	plan *notarytypes.PaymentPlan,
) error {
	if plan.PayerNymID != payer.ID {
		return notaryerr.ErrUnauthorized
	}

	nums, err := mgr.DrawN(payer, server, 2, numbers.MarkSingleTransaction)
	if err != nil {
		return err
	}

	plan.PayerNumbers = notarytypes.PartyNumberPair{Opening: nums[0], Closing: nums[1]}
	plan.Confirmed = true

	log.Tracef("cron: confirmed payment plan, payer %s numbers %d/%d", payer.ID, nums[0], nums[1])

	return nil
}

// CancelBeforeActivation lets either party submit the plan themselves with
// the canceler marker set, before it has been activated, per spec §4.8.
func CancelBeforeActivation(canceler *notarytypes.Nym, plan *notarytypes.PaymentPlan) error {
	if canceler.ID != plan.MerchantNymID && canceler.ID != plan.PayerNymID {
		return notaryerr.ErrUnauthorized
	}

	plan.Canceler = canceler.ID

	return nil
}
