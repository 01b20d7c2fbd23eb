package main

import (
	"strconv"

	"github.com/urfave/cli"

	"github.com/notaryclient/notaryclient/notarytypes"
)

var withdrawVoucherCommand = cli.Command{
	Name:      "withdraw_voucher",
	Category:  "Cash",
	Usage:     "Withdraw a voucher against an account, optionally naming a remitter.",
	ArgsUsage: "nym-id server-id account-id amount [remitter-nym-id remitter-account]",
	Action:    actionDecorator(withdrawVoucher),
}

func withdrawVoucher(c *cli.Context) error {
	args := c.Args()
	if len(args) != 4 && len(args) != 6 {
		return cli.ShowCommandHelp(c, "withdraw_voucher")
	}

	amount, err := strconv.ParseInt(args.Get(3), 10, 64)
	if err != nil {
		return err
	}

	var remitter notarytypes.NymID
	var remitterAcct notarytypes.AccountID
	if len(args) == 6 {
		remitter = notarytypes.NymID(args.Get(4))
		remitterAcct = notarytypes.AccountID(args.Get(5))
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

	voucher, err := rt.WithdrawVoucher(nym, notarytypes.ServerID(args.Get(1)), acct, amount, remitter, remitterAcct, notarytypes.CommonFields{})
	if err != nil {
		return err
	}

	printJSON(voucher)

	return nil
}

var withdrawCashCommand = cli.Command{
	Name:      "withdraw_cash",
	Category:  "Cash",
	Usage:     "Withdraw cash into a new Nym-owned purse.",
	ArgsUsage: "nym-id server-id account-id amount",
	Action:    actionDecorator(withdrawCash),
}

func withdrawCash(c *cli.Context) error {
	args := c.Args()
	if len(args) != 4 {
		return cli.ShowCommandHelp(c, "withdraw_cash")
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

	purse, err := rt.WithdrawCash(nym, notarytypes.ServerID(args.Get(1)), acct, amount, notarytypes.CommonFields{})
	if err != nil {
		return err
	}

	printJSON(purse)

	return nil
}

var depositCashCommand = cli.Command{
	Name:      "deposit_cash",
	Category:  "Cash",
	Usage:     "Deposit a purse's tokens, reassigning each to the server's Nym.",
	ArgsUsage: "nym-id server-id account-id server-nym-id",
	Action:    actionDecorator(depositCash),
}

func depositCash(c *cli.Context) error {
	args := c.Args()
	if len(args) != 4 {
		return cli.ShowCommandHelp(c, "deposit_cash")
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

	serverNym, err := rt.Wallet.Nym(notarytypes.NymID(args.Get(3)))
	if err != nil {
		return err
	}

	server := notarytypes.ServerID(args.Get(1))
	p := notarytypes.NewCashPurse(server, acct.Asset)

	built, err := rt.DepositCash(nym, server, acct, p, serverNym)
	if err != nil {
		return err
	}

	printJSON(built)

	return nil
}
