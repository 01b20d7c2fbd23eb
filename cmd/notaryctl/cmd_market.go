package main

import (
	"context"
	"strconv"

	"github.com/jedib0t/go-pretty/table"
	"github.com/urfave/cli"

	"github.com/notaryclient/notaryclient/notarytypes"
)

var issueMarketOfferCommand = cli.Command{
	Name:      "issue_market_offer",
	Category:  "Market",
	Usage:     "Submit a bid or ask offer.",
	ArgsUsage: "nym-id server-id account-id asset-offered asset-wanted scale price-per-scale total-assets sell|buy",
	Action:    actionDecorator(issueMarketOffer),
}

func issueMarketOffer(c *cli.Context) error {
	args := c.Args()
	if len(args) != 9 {
		return cli.ShowCommandHelp(c, "issue_market_offer")
	}

	scale, err := strconv.ParseInt(args.Get(5), 10, 64)
	if err != nil {
		return err
	}
	price, err := strconv.ParseInt(args.Get(6), 10, 64)
	if err != nil {
		return err
	}
	total, err := strconv.ParseInt(args.Get(7), 10, 64)
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

	offer := &notarytypes.MarketOffer{
		Server:        notarytypes.ServerID(args.Get(1)),
		AssetOffered:  notarytypes.AssetID(args.Get(3)),
		AssetWanted:   notarytypes.AssetID(args.Get(4)),
		Scale:         scale,
		PricePerScale: price,
		TotalAssets:   total,
		Selling:       args.Get(8) == "sell",
	}

	built, err := rt.IssueMarketOffer(nym, acct, offer)
	if err != nil {
		return err
	}

	printJSON(struct {
		Offer *notarytypes.MarketOffer
		Built interface{}
	}{Offer: offer, Built: built})

	return nil
}

var getMarketListCommand = cli.Command{
	Name:      "get_market_list",
	Category:  "Market",
	Usage:     "List the asset pairs a server is matching offers for.",
	ArgsUsage: "nym-id server-id",
	Action:    actionDecorator(getMarketList),
}

func getMarketList(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "get_market_list")
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

	payload, err := rt.GetMarketList(context.Background(), nym, notarytypes.ServerID(args.Get(1)))
	if err != nil {
		return err
	}

	var listings []notarytypes.MarketListing
	if err := unmarshalIfNonEmpty(payload, &listings); err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Offered", "Wanted", "Scale", "Bids", "Asks", "Last Sale"})
	for _, l := range listings {
		t.AppendRow(table.Row{l.AssetOffered, l.AssetWanted, l.Scale, l.NumBids, l.NumAsks, l.LastSalePrice})
	}
	fmtPrintln(t.Render())

	return nil
}

var getMarketOffersCommand = cli.Command{
	Name:      "get_market_offers",
	Category:  "Market",
	Usage:     "List live offers for one asset pair.",
	ArgsUsage: "nym-id server-id asset-offered asset-wanted",
	Action:    actionDecorator(getMarketOffers),
}

func getMarketOffers(c *cli.Context) error {
	args := c.Args()
	if len(args) != 4 {
		return cli.ShowCommandHelp(c, "get_market_offers")
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

	payload, err := rt.GetMarketOffers(
		context.Background(), nym, notarytypes.ServerID(args.Get(1)),
		notarytypes.AssetID(args.Get(2)), notarytypes.AssetID(args.Get(3)),
	)
	if err != nil {
		return err
	}

	var offers []notarytypes.MarketOffer
	if err := unmarshalIfNonEmpty(payload, &offers); err != nil {
		return err
	}

	printJSON(offers)

	return nil
}

var getMarketRecentTradesCommand = cli.Command{
	Name:      "get_market_recent_trades",
	Category:  "Market",
	Usage:     "List recent fills for one asset pair.",
	ArgsUsage: "nym-id server-id asset-offered asset-wanted",
	Action:    actionDecorator(getMarketRecentTrades),
}

func getMarketRecentTrades(c *cli.Context) error {
	args := c.Args()
	if len(args) != 4 {
		return cli.ShowCommandHelp(c, "get_market_recent_trades")
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

	payload, err := rt.GetMarketRecentTrades(
		context.Background(), nym, notarytypes.ServerID(args.Get(1)),
		notarytypes.AssetID(args.Get(2)), notarytypes.AssetID(args.Get(3)),
	)
	if err != nil {
		return err
	}

	var trades []notarytypes.MarketTrade
	if err := unmarshalIfNonEmpty(payload, &trades); err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Pair", "Price", "Amount", "Time"})
	for _, tr := range trades {
		t.AppendRow(table.Row{tr.OfferAssetPair, tr.Price, tr.Amount, tr.UnixTime})
	}
	fmtPrintln(t.Render())

	return nil
}
