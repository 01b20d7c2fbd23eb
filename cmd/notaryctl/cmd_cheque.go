package main

import (
	"strconv"

	"github.com/urfave/cli"

	"github.com/notaryclient/notaryclient/notarytypes"
)

var writeChequeCommand = cli.Command{
	Name:      "write_cheque",
	Category:  "Cheques",
	Usage:     "Draft a cheque against a local account; drawn entirely offline.",
	ArgsUsage: "nym-id server-id sender-account amount recipient-nym recipient-account",
	Action:    actionDecorator(writeCheque),
}

func writeCheque(c *cli.Context) error {
	args := c.Args()
	if len(args) != 6 {
		return cli.ShowCommandHelp(c, "write_cheque")
	}

	amount, err := strconv.ParseInt(args.Get(3), 10, 64)
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

	cheque, err := rt.WriteCheque(
		nym,
		notarytypes.ServerID(args.Get(1)),
		notarytypes.AccountID(args.Get(2)),
		amount,
		notarytypes.NymID(args.Get(4)),
		notarytypes.AccountID(args.Get(5)),
		notarytypes.CommonFields{},
	)
	if err != nil {
		return err
	}

	printJSON(cheque)

	return nil
}

var depositChequeCommand = cli.Command{
	Name:      "deposit_cheque",
	Category:  "Cheques",
	Usage:     "Deposit a previously received cheque into an account.",
	ArgsUsage: "nym-id server-id account-id amount",
	Action:    actionDecorator(depositCheque),
}

func depositCheque(c *cli.Context) error {
	args := c.Args()
	if len(args) != 4 {
		return cli.ShowCommandHelp(c, "deposit_cheque")
	}

	amount, err := strconv.ParseInt(args.Get(3), 10, 64)
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

	acct, err := rt.Wallet.Account(notarytypes.AccountID(args.Get(2)))
	if err != nil {
		return err
	}

	cheque := &notarytypes.Cheque{
		TransactionNum: 0,
		Amount:         amount,
	}

	built, err := rt.DepositCheque(nym, notarytypes.ServerID(args.Get(1)), acct, cheque)
	if err != nil {
		return err
	}

	printJSON(built)

	return nil
}

var discardChequeCommand = cli.Command{
	Name:      "discard_cheque",
	Category:  "Cheques",
	Usage:     "Discard an outpayment entry that was never transmitted.",
	ArgsUsage: "nym-id server-id outpayment-index",
	Action:    actionDecorator(discardCheque),
}

func discardCheque(c *cli.Context) error {
	args := c.Args()
	if len(args) != 3 {
		return cli.ShowCommandHelp(c, "discard_cheque")
	}

	index, err := strconv.Atoi(args.Get(2))
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

	decision, err := rt.DiscardCheque(nym, notarytypes.ServerID(args.Get(1)), index)
	if err != nil {
		return err
	}

	printJSON(decision)

	return nil
}
