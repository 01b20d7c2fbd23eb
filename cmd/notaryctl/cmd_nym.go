package main

import (
	"github.com/urfave/cli"

	"github.com/notaryclient/notaryclient/notarytypes"
)

var registerNymCommand = cli.Command{
	Name:      "register_nym",
	Category:  "Identity",
	Usage:     "Generate a new pseudonymous signing identity.",
	ArgsUsage: "name",
	Action:    actionDecorator(registerNym),
}

func registerNym(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "register_nym")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	nym, err := rt.RegisterNym(c.Args().Get(0))
	if err != nil {
		return err
	}

	printJSON(nym)

	return nil
}

var removeNymCommand = cli.Command{
	Name:      "remove_nym",
	Category:  "Identity",
	Usage:     "Remove a Nym with no remaining accounts or registrations.",
	ArgsUsage: "nym-id",
	Action:    actionDecorator(removeNym),
}

func removeNym(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "remove_nym")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	return rt.RemoveNym(notarytypes.NymID(c.Args().Get(0)))
}

var exportNymCommand = cli.Command{
	Name:      "export_nym",
	Category:  "Identity",
	Usage:     "Export a Nym as an armored EXPORTED NYM block under a passphrase.",
	ArgsUsage: "nym-id passphrase",
	Action:    actionDecorator(exportNym),
}

func exportNym(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.ShowCommandHelp(c, "export_nym")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	armored, err := rt.ExportNym(notarytypes.NymID(c.Args().Get(0)), []byte(c.Args().Get(1)))
	if err != nil {
		return err
	}

	fmtPrintln(armored)

	return nil
}

var importNymCommand = cli.Command{
	Name:      "import_nym",
	Category:  "Identity",
	Usage:     "Import an armored EXPORTED NYM block under its external passphrase.",
	ArgsUsage: "armored-block passphrase",
	Action:    actionDecorator(importNym),
}

func importNym(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.ShowCommandHelp(c, "import_nym")
	}

	rt, store, err := openRuntime(c)
	if err != nil {
		return err
	}
	defer store.Close()

	nym, err := rt.ImportNym(c.Args().Get(0), []byte(c.Args().Get(1)))
	if err != nil {
		return err
	}

	printJSON(nym)

	return nil
}
