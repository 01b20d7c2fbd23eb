package main

import (
	"strconv"

	"github.com/urfave/cli"

	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/recordengine"
)

var recordPaymentCommand = cli.Command{
	Name:      "record_payment",
	Category:  "Records",
	Usage:     "Run the record-payment decision table over one outpayment or payment-inbox entry.",
	ArgsUsage: "nym-id server-id outpayment|paymentinbox index",
	Action:    actionDecorator(recordPayment),
}

func recordPayment(c *cli.Context) error {
	args := c.Args()
	if len(args) != 4 {
		return cli.ShowCommandHelp(c, "record_payment")
	}

	var source recordengine.Source
	switch args.Get(2) {
	case "outpayment":
		source = recordengine.SourceOutpayment
	case "paymentinbox":
		source = recordengine.SourcePaymentInbox
	default:
		return cli.NewExitError("source must be outpayment or paymentinbox", 1)
	}

	index, err := strconv.Atoi(args.Get(3))
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

	decision, err := rt.RecordPayment(nym, notarytypes.ServerID(args.Get(1)), source, index)
	if err != nil {
		return err
	}

	printJSON(decision)

	return nil
}

var clearRecordCommand = cli.Command{
	Name:      "clear_record",
	Category:  "Records",
	Usage:     "Remove an archived entry from the record box.",
	ArgsUsage: "nym-id index",
	Action:    actionDecorator(clearRecord),
}

func clearRecord(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "clear_record")
	}

	index, err := strconv.Atoi(args.Get(1))
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

	return rt.ClearRecord(nym, index)
}

var clearExpiredCommand = cli.Command{
	Name:      "clear_expired",
	Category:  "Records",
	Usage:     "Remove an archived entry from the expired box.",
	ArgsUsage: "nym-id index",
	Action:    actionDecorator(clearExpired),
}

func clearExpired(c *cli.Context) error {
	args := c.Args()
	if len(args) != 2 {
		return cli.ShowCommandHelp(c, "clear_expired")
	}

	index, err := strconv.Atoi(args.Get(1))
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

	return rt.ClearExpired(nym, index)
}
