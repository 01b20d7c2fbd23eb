// notaryctl is the command-line control surface for the notary client
// core, binding each spec §6 operation to one urfave/cli command, grounded
// on the teacher's lncli idiom (cmd/dcrlncli/cmd_query_probability.go).
// Unlike lncli, notaryctl talks to no daemon: the wallet file is the
// entire durable state, and every command opens it directly, runs a
// single operation, and persists the result before exiting.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/urfave/cli"

	notaryclient "github.com/notaryclient/notaryclient"
	"github.com/notaryclient/notaryclient/config"
	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/transport"
	"github.com/notaryclient/notaryclient/wallet"
)

var defaultAppDataDir = dcrutil.AppDataDir("notaryclient", false)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[notaryctl] %v\n", err)
	os.Exit(1)
}

// actionDecorator wraps a command action so a returned error is reported
// the way the teacher's lncli reports RPC errors, instead of urfave/cli's
// default stack-trace dump, and the process exits with the error's
// notaryerr.Kind exit code.
func actionDecorator(f func(*cli.Context) error) func(*cli.Context) error {
	return func(c *cli.Context) error {
		if err := f(c); err != nil {
			return cli.NewExitError(err.Error(), notaryerr.Classify(err).ExitCode())
		}

		return nil
	}
}

// openRuntime loads the Config and Wallet named by the global --datadir
// flag and constructs a Runtime over them. Every command calls this
// exactly once; no gRPC-style long-lived client connection exists here,
// since the wire protocol to a notary server is out of this core's scope
// (spec §1) — session holds only for the lifetime of one invocation.
func openRuntime(c *cli.Context) (*notaryclient.Runtime, *wallet.BoltStore, error) {
	appDataDir := c.GlobalString("datadir")
	if appDataDir == "" {
		appDataDir = defaultAppDataDir
	}

	cfg, err := config.Load(appDataDir, os.Args[1:])
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(cfg.Wallet.DataDir, 0700); err != nil {
		return nil, nil, fmt.Errorf("creating wallet datadir: %w", err)
	}

	store, err := wallet.OpenBoltStore(filepath.Join(cfg.Wallet.DataDir, "wallet.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("opening wallet: %w", err)
	}

	w := wallet.New(store)

	dial := func(server notarytypes.ServerID) (transport.Dialer, error) {
		return nil, fmt.Errorf("no transport configured for server %s: this build talks to no live daemon", server)
	}

	return notaryclient.New(cfg, w, dial), store, nil
}

// printJSON pretty-prints v the way the teacher's lncli prints RPC
// responses, since every notaryctl command reports the structured result
// of the single operation it just performed.
func printJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(b))
}

func main() {
	app := cli.NewApp()
	app.Name = "notaryctl"
	app.Usage = "control plane for the notary client core"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "datadir",
			Value: defaultAppDataDir,
			Usage: "directory holding the wallet file and config",
		},
	}
	app.Commands = []cli.Command{
		registerNymCommand,
		removeNymCommand,
		exportNymCommand,
		importNymCommand,
		registerServerCommand,
		removeServerCommand,
		issueBasketCommand,
		removeAssetCommand,
		createAccountCommand,
		removeAccountCommand,
		writeChequeCommand,
		depositChequeCommand,
		discardChequeCommand,
		withdrawVoucherCommand,
		withdrawCashCommand,
		depositCashCommand,
		exchangeBasketCommand,
		payDividendCommand,
		proposePaymentPlanCommand,
		confirmPaymentPlanCommand,
		depositPaymentPlanCommand,
		smartContractCreateCommand,
		smartContractAddAccountCommand,
		smartContractAddBylawCommand,
		smartContractAddClauseCommand,
		smartContractAddVariableCommand,
		smartContractAddHookCommand,
		smartContractAddCallbackCommand,
		smartContractConfirmPartyCommand,
		smartContractConfirmAccountCommand,
		smartContractActivateCommand,
		triggerClauseCommand,
		cancelCronItemCommand,
		issueMarketOfferCommand,
		getMarketListCommand,
		getMarketOffersCommand,
		getMarketRecentTradesCommand,
		recordPaymentCommand,
		clearRecordCommand,
		clearExpiredCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
