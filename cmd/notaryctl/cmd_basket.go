package main

import (
	"strconv"

	"github.com/urfave/cli"

	"github.com/notaryclient/notaryclient/notarytypes"
)

var exchangeBasketCommand = cli.Command{
	Name:      "exchange_basket",
	Category:  "Baskets",
	Usage:     "Exchange a basket against its sub-asset legs.",
	ArgsUsage: "nym-id server-id main-account-id leg-asset:leg-minimum...",
	Action:    actionDecorator(exchangeBasket),
}

func exchangeBasket(c *cli.Context) error {
	args := c.Args()
	if len(args) < 4 {
		return cli.ShowCommandHelp(c, "exchange_basket")
	}

	var legs []notarytypes.SubAsset
	for _, arg := range args[3:] {
		asset, minStr, err := splitLeg(arg)
		if err != nil {
			return err
		}
		minTransfer, err := strconv.ParseInt(minStr, 10, 64)
		if err != nil {
			return err
		}
		legs = append(legs, notarytypes.SubAsset{Asset: notarytypes.AssetID(asset), MinimumTransfer: minTransfer})
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

	mainAcct, err := rt.Wallet.Account(notarytypes.AccountID(args.Get(2)))
	if err != nil {
		return err
	}

	exchange, err := rt.ExchangeBasket(nym, notarytypes.ServerID(args.Get(1)), mainAcct, legs)
	if err != nil {
		return err
	}

	printJSON(exchange)

	return nil
}

var payDividendCommand = cli.Command{
	Name:      "pay_dividend",
	Category:  "Baskets",
	Usage:     "Pay a per-share dividend out of a source account.",
	ArgsUsage: "nym-id server-id issuer-account source-account amount-per-share",
	Action:    actionDecorator(payDividend),
}

func payDividend(c *cli.Context) error {
	args := c.Args()
	if len(args) != 5 {
		return cli.ShowCommandHelp(c, "pay_dividend")
	}

	amountPerShare, err := strconv.ParseInt(args.Get(4), 10, 64)
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

	issuerAcct, err := rt.Wallet.Account(notarytypes.AccountID(args.Get(2)))
	if err != nil {
		return err
	}

	sourceAcct, err := rt.Wallet.Account(notarytypes.AccountID(args.Get(3)))
	if err != nil {
		return err
	}

	total, built, err := rt.PayDividend(nym, notarytypes.ServerID(args.Get(1)), issuerAcct, sourceAcct, amountPerShare)
	if err != nil {
		return err
	}

	printJSON(struct {
		Total int64
		Built interface{}
	}{Total: total, Built: built})

	return nil
}
