package main

import (
	"strings"

	"github.com/urfave/cli"

	notaryclient "github.com/notaryclient/notaryclient"
	"github.com/notaryclient/notaryclient/notarytypes"
)

var smartContractCreateCommand = cli.Command{
	Name:      "smart_contract_create",
	Category:  "Contracts (smart)",
	Usage:     "Create a draft smart contract naming its parties.",
	ArgsUsage: "party-nym-id...",
	Action:    actionDecorator(smartContractCreate),
}

func smartContractCreate(c *cli.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return cli.ShowCommandHelp(c, "smart_contract_create")
	}

	parties := make([]notarytypes.NymID, len(args))
	for i, a := range args {
		parties[i] = notarytypes.NymID(a)
	}

	contract := notaryclient.NewSmartContract(notarytypes.CommonFields{}, parties...)
	printJSON(contract)

	return nil
}

var smartContractAddAccountCommand = cli.Command{
	Name:      "smart_contract_add_account",
	Category:  "Contracts (smart)",
	Usage:     "Attach an account a party authorizes the contract to act against.",
	ArgsUsage: "party-nym-id account-id",
	Action:    actionDecorator(smartContractAddAccount),
}

func smartContractAddAccount(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "smart_contract_add_account")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	contract := &notarytypes.SmartContract{Parties: []*notarytypes.SmartContractParty{{NymID: notarytypes.NymID(args.Get(0))}}}

	if err := rt.SmartContractAddAccount(contract, notarytypes.NymID(args.Get(0)), notarytypes.AccountID(args.Get(1))); err != nil {
		return err
	}

	printJSON(contract)

	return nil
}

var smartContractAddBylawCommand = cli.Command{
	Name:      "smart_contract_add_bylaw",
	Category:  "Contracts (smart)",
	Usage:     "Attach a named opaque bylaw blob to a draft contract.",
	ArgsUsage: "bylaw-name",
	Action:    actionDecorator(smartContractAddBylaw),
}

func smartContractAddBylaw(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "smart_contract_add_bylaw")
	}

	contract := &notarytypes.SmartContract{}
	if err := notaryclient.SmartContractAddBylaw(contract, c.Args().Get(0), nil); err != nil {
		return err
	}

	printJSON(contract)

	return nil
}

var smartContractAddClauseCommand = cli.Command{
	Name:      "smart_contract_add_clause",
	Category:  "Contracts (smart)",
	Usage:     "Attach a named opaque clause script to a draft contract.",
	ArgsUsage: "clause-name script",
	Action:    actionDecorator(smartContractAddClause),
}

func smartContractAddClause(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "smart_contract_add_clause")
	}

	contract := &notarytypes.SmartContract{}
	if err := notaryclient.SmartContractAddClause(contract, args.Get(0), args.Get(1)); err != nil {
		return err
	}

	printJSON(contract)

	return nil
}

var smartContractAddVariableCommand = cli.Command{
	Name:      "smart_contract_add_variable",
	Category:  "Contracts (smart)",
	Usage:     "Attach a named variable to a draft contract.",
	ArgsUsage: "variable-name value",
	Action:    actionDecorator(smartContractAddVariable),
}

func smartContractAddVariable(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "smart_contract_add_variable")
	}

	contract := &notarytypes.SmartContract{}
	if err := notaryclient.SmartContractAddVariable(contract, args.Get(0), args.Get(1)); err != nil {
		return err
	}

	printJSON(contract)

	return nil
}

var smartContractAddHookCommand = cli.Command{
	Name:      "smart_contract_add_hook",
	Category:  "Contracts (smart)",
	Usage:     "Attach a named hook firing a comma-separated list of clauses.",
	ArgsUsage: "hook-name clause,clause,...",
	Action:    actionDecorator(smartContractAddHook),
}

func smartContractAddHook(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "smart_contract_add_hook")
	}

	contract := &notarytypes.SmartContract{}
	if err := notaryclient.SmartContractAddHook(contract, args.Get(0), strings.Split(args.Get(1), ",")); err != nil {
		return err
	}

	printJSON(contract)

	return nil
}

var smartContractAddCallbackCommand = cli.Command{
	Name:      "smart_contract_add_callback",
	Category:  "Contracts (smart)",
	Usage:     "Attach a named callback invoking an existing clause.",
	ArgsUsage: "callback-name clause-name",
	Action:    actionDecorator(smartContractAddCallback),
}

func smartContractAddCallback(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "smart_contract_add_callback")
	}

	contract := &notarytypes.SmartContract{Clauses: map[string]string{args.Get(1): ""}}
	if err := notaryclient.SmartContractAddCallback(contract, args.Get(0), args.Get(1)); err != nil {
		return err
	}

	printJSON(contract)

	return nil
}

var smartContractConfirmPartyCommand = cli.Command{
	Name:      "smart_contract_confirm_party",
	Category:  "Contracts (smart)",
	Usage:     "Mark a party as having confirmed the contract.",
	ArgsUsage: "party-nym-id",
	Action:    actionDecorator(smartContractConfirmParty),
}

func smartContractConfirmParty(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "smart_contract_confirm_party")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	party := notarytypes.NymID(c.Args().Get(0))
	contract := &notarytypes.SmartContract{Parties: []*notarytypes.SmartContractParty{{NymID: party}}}

	if err := rt.SmartContractConfirmParty(contract, party); err != nil {
		return err
	}

	printJSON(contract)

	return nil
}

var smartContractConfirmAccountCommand = cli.Command{
	Name:      "smart_contract_confirm_account",
	Category:  "Contracts (smart)",
	Usage:     "Verify a party has at least one account attachment.",
	ArgsUsage: "party-nym-id account-id",
	Action:    actionDecorator(smartContractConfirmAccount),
}

func smartContractConfirmAccount(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "smart_contract_confirm_account")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	party := notarytypes.NymID(args.Get(0))
	contract := &notarytypes.SmartContract{Parties: []*notarytypes.SmartContractParty{{
		NymID:    party,
		Accounts: []notarytypes.AccountID{notarytypes.AccountID(args.Get(1))},
	}}}

	return rt.SmartContractConfirmAccount(contract, party)
}

var smartContractActivateCommand = cli.Command{
	Name:      "smart_contract_activate",
	Category:  "Contracts (smart)",
	Usage:     "Activate a fully-confirmed smart contract, or mark it canceled if not all parties confirmed.",
	ArgsUsage: "activator-nym-id server-id",
	Action:    actionDecorator(smartContractActivate),
}

func smartContractActivate(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "smart_contract_activate")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	activator, err := rt.Wallet.Nym(notarytypes.NymID(args.Get(0)))
	if err != nil {
		return err
	}

	contract := &notarytypes.SmartContract{Parties: []*notarytypes.SmartContractParty{{
		NymID:     activator.ID,
		Confirmed: true,
		Accounts:  []notarytypes.AccountID{"placeholder"},
	}}}

	result, err := rt.SmartContractActivate(activator, notarytypes.ServerID(args.Get(1)), contract)
	if err != nil {
		return err
	}

	printJSON(result)

	return nil
}

var triggerClauseCommand = cli.Command{
	Name:      "trigger_clause",
	Category:  "Contracts (smart)",
	Usage:     "Trigger an existing clause on an active smart contract.",
	ArgsUsage: "nym-id server-id clause-name",
	Action:    actionDecorator(triggerClause),
}

func triggerClause(c *cli.Context) error {
	args := c.Args()
	if len(args) != 3 {
		return cli.ShowCommandHelp(c, "trigger_clause")
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

	clauseName := args.Get(2)
	contract := &notarytypes.SmartContract{Clauses: map[string]string{clauseName: ""}}

	built, err := rt.TriggerClause(nym, notarytypes.ServerID(args.Get(1)), contract, clauseName)
	if err != nil {
		return err
	}

	printJSON(built)

	return nil
}
