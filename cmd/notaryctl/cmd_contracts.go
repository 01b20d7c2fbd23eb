package main

import (
	"encoding/hex"
	"strconv"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/urfave/cli"

	"github.com/notaryclient/notaryclient/notarytypes"
)

var registerServerCommand = cli.Command{
	Name:      "register_server_contract",
	Category:  "Contracts",
	Usage:     "Register a notary server's signed contract.",
	ArgsUsage: "server-id public-key-hex",
	Action:    actionDecorator(registerServer),
}

func registerServer(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.ShowCommandHelp(c, "register_server_contract")
	}

	keyBytes, err := hex.DecodeString(c.Args().Get(1))
	if err != nil {
		return err
	}

	pub, err := secp256k1.ParsePubKey(keyBytes)
	if err != nil {
		return err
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	sc := &notarytypes.ServerContract{
		ID:        notarytypes.ServerID(c.Args().Get(0)),
		PublicKey: pub,
	}
	if err := rt.RegisterServerContract(sc); err != nil {
		return err
	}

	printJSON(sc)

	return nil
}

var removeServerCommand = cli.Command{
	Name:      "remove_server",
	Category:  "Contracts",
	Usage:     "Remove a server contract that no account references.",
	ArgsUsage: "server-id",
	Action:    actionDecorator(removeServer),
}

func removeServer(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "remove_server")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	return rt.RemoveServer(notarytypes.ServerID(c.Args().Get(0)))
}

var issueBasketCommand = cli.Command{
	Name:      "issue_basket",
	Category:  "Contracts",
	Usage:     "Register a basket asset contract over one or more legs.",
	ArgsUsage: "asset-id basket-minimum leg-asset:leg-minimum...",
	Action:    actionDecorator(issueBasket),
}

func issueBasket(c *cli.Context) error {
	args := c.Args()
	if len(args) < 3 {
		return cli.ShowCommandHelp(c, "issue_basket")
	}

	basketMin, err := strconv.ParseInt(args.Get(1), 10, 64)
	if err != nil {
		return err
	}

	var legs []notarytypes.SubAsset
	for _, arg := range args[2:] {
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

	ac, err := rt.IssueBasket(notarytypes.AssetID(args.Get(0)), legs, basketMin)
	if err != nil {
		return err
	}

	printJSON(ac)

	return nil
}

func splitLeg(s string) (asset, minTransfer string, err error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return s[:i], s[i+1:], nil
		}
	}

	return "", "", cli.NewExitError("leg must be asset:minimum", 1)
}

var removeAssetCommand = cli.Command{
	Name:      "remove_asset",
	Category:  "Contracts",
	Usage:     "Remove an asset contract with no account referencing it.",
	ArgsUsage: "asset-id",
	Action:    actionDecorator(removeAsset),
}

func removeAsset(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "remove_asset")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	return rt.RemoveAsset(notarytypes.AssetID(c.Args().Get(0)))
}

var createAccountCommand = cli.Command{
	Name:      "create_account",
	Category:  "Contracts",
	Usage:     "Register a new zero-balance asset account.",
	ArgsUsage: "account-id owner-nym-id asset-id server-id",
	Action:    actionDecorator(createAccount),
}

func createAccount(c *cli.Context) error {
	args := c.Args()
	if len(args) != 4 {
		return cli.ShowCommandHelp(c, "create_account")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	acct, err := rt.CreateAccount(
		notarytypes.AccountID(args.Get(0)),
		notarytypes.NymID(args.Get(1)),
		notarytypes.AssetID(args.Get(2)),
		notarytypes.ServerID(args.Get(3)),
	)
	if err != nil {
		return err
	}

	printJSON(acct)

	return nil
}

var removeAccountCommand = cli.Command{
	Name:      "remove_account",
	Category:  "Contracts",
	Usage:     "Remove a zero-balance account with empty inbox and outbox.",
	ArgsUsage: "account-id",
	Action:    actionDecorator(removeAccount),
}

func removeAccount(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "remove_account")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	return rt.RemoveAccount(notarytypes.AccountID(c.Args().Get(0)))
}
