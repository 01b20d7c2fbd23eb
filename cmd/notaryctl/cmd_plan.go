package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli"

	"github.com/notaryclient/notaryclient/notarytypes"
)

var proposePaymentPlanCommand = cli.Command{
	Name:      "propose_payment_plan",
	Category:  "Recurring",
	Usage:     "Propose a payment plan as the merchant.",
	ArgsUsage: "merchant-nym-id server-id merchant-account payer-nym-id payer-account",
	Action:    actionDecorator(proposePaymentPlan),
}

func proposePaymentPlan(c *cli.Context) error {
	args := c.Args()
	if len(args) != 5 {
		return cli.ShowCommandHelp(c, "propose_payment_plan")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	merchant, err := rt.Wallet.Nym(notarytypes.NymID(args.Get(0)))
	if err != nil {
		return err
	}

	plan, err := rt.ProposePaymentPlan(
		merchant,
		notarytypes.ServerID(args.Get(1)),
		notarytypes.AccountID(args.Get(2)),
		notarytypes.NymID(args.Get(3)),
		notarytypes.AccountID(args.Get(4)),
		notarytypes.CommonFields{},
	)
	if err != nil {
		return err
	}

	printJSON(plan)

	return nil
}

var confirmPaymentPlanCommand = cli.Command{
	Name:      "confirm_payment_plan",
	Category:  "Recurring",
	Usage:     "Confirm a proposed payment plan as the payer.",
	ArgsUsage: "payer-nym-id server-id merchant-nym-id merchant-account payer-account",
	Action:    actionDecorator(confirmPaymentPlan),
}

func confirmPaymentPlan(c *cli.Context) error {
	args := c.Args()
	if len(args) != 5 {
		return cli.ShowCommandHelp(c, "confirm_payment_plan")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	payer, err := rt.Wallet.Nym(notarytypes.NymID(args.Get(0)))
	if err != nil {
		return err
	}

	plan := &notarytypes.PaymentPlan{
		MerchantNymID: notarytypes.NymID(args.Get(2)),
		MerchantAcct:  notarytypes.AccountID(args.Get(3)),
		PayerNymID:    payer.ID,
		PayerAcct:     notarytypes.AccountID(args.Get(4)),
	}

	if err := rt.ConfirmPaymentPlan(payer, notarytypes.ServerID(args.Get(1)), plan); err != nil {
		return err
	}

	printJSON(plan)

	return nil
}

var depositPaymentPlanCommand = cli.Command{
	Name:      "deposit_payment_plan",
	Category:  "Recurring",
	Usage:     "Submit a confirmed payment plan to the server.",
	ArgsUsage: "payer-nym-id server-id",
	Action:    actionDecorator(depositPaymentPlan),
}

func depositPaymentPlan(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "deposit_payment_plan")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	payer, err := rt.Wallet.Nym(notarytypes.NymID(args.Get(0)))
	if err != nil {
		return err
	}

	plan := &notarytypes.PaymentPlan{Confirmed: true, PayerNymID: payer.ID}

	req, err := rt.DepositPaymentPlan(context.Background(), payer, notarytypes.ServerID(args.Get(1)), plan)
	if err != nil {
		return err
	}

	printJSON(req)

	return nil
}

var cancelCronItemCommand = cli.Command{
	Name:      "cancel_cron_item",
	Category:  "Recurring",
	Usage:     "Cancel a live recurring item (payment plan, smart contract, market offer).",
	ArgsUsage: "nym-id server-id original-number",
	Action:    actionDecorator(cancelCronItem),
}

func cancelCronItem(c *cli.Context) error {
	args := c.Args()
	if len(args) != 3 {
		return cli.ShowCommandHelp(c, "cancel_cron_item")
	}

	original, err := strconv.ParseUint(args.Get(2), 10, 64)
	if err != nil {
		return err
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	nym, err := rt.Wallet.Nym(notarytypes.NymID(args.Get(0)))
	if err != nil {
		return err
	}

	req, err := rt.CancelCronItem(nym, notarytypes.ServerID(args.Get(1)), notarytypes.TransactionNumber(original))
	if err != nil {
		return err
	}

	printJSON(req)

	return nil
}
