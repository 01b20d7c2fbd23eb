// Package notaryclient ties every subsystem package together into one
// Runtime, and wires their package-level loggers the way the teacher's
// root log.go wires lnd's: each subsystem gets a tagged sub-logger
// registered against one shared rotating log writer.
package notaryclient

import (
	"github.com/decred/slog"

	"github.com/notaryclient/notaryclient/build"
	"github.com/notaryclient/notaryclient/cron"
	"github.com/notaryclient/notaryclient/keyring"
	"github.com/notaryclient/notaryclient/numbers"
	"github.com/notaryclient/notaryclient/outbuffer"
	"github.com/notaryclient/notaryclient/outpayments"
	"github.com/notaryclient/notaryclient/purse"
	"github.com/notaryclient/notaryclient/recordengine"
	"github.com/notaryclient/notaryclient/reqbuilder"
	"github.com/notaryclient/notaryclient/transport"
	"github.com/notaryclient/notaryclient/txbuilder"
	"github.com/notaryclient/notaryclient/wallet"
)

// replaceableLogger lets a package logger be swapped out once the real
// root logger exists, without the package holding a pointer into our
// internals.
type replaceableLogger struct {
	slog.Logger
	subsystem string
}

var (
	pkgLoggers []*replaceableLogger

	addPkgLogger = func(subsystem string) *replaceableLogger {
		l := &replaceableLogger{
			Logger:    build.NewSubLogger(subsystem, nil),
			subsystem: subsystem,
		}
		pkgLoggers = append(pkgLoggers, l)

		return l
	}

	ntclLog = addPkgLogger("NTCL")
	nummLog = addPkgLogger("NUMM")
	rqbdLog = addPkgLogger("RQBD")
	txbdLog = addPkgLogger("TXBD")
	obufLog = addPkgLogger("OBUF")
	opayLog = addPkgLogger("OPAY")
	pursLog = addPkgLogger("PURS")
	kyrnLog = addPkgLogger("KYRN")
	cronLog = addPkgLogger("CRON")
	rcegLog = addPkgLogger("RCEG")
	trnsLog = addPkgLogger("TRNS")
)

// SetupLoggers wires every subsystem's UseLogger function to a sub-logger
// registered against root, exactly as the teacher's SetupLoggers does for
// lnd's own package set.
func SetupLoggers(root *build.RotatingLogWriter) {
	for _, l := range pkgLoggers {
		l.Logger = build.NewSubLogger(l.subsystem, root.GenSubLogger)
		SetSubLogger(root, l.subsystem, l.Logger)
	}

	AddSubLogger(root, "NUMM", numbers.UseLogger)
	AddSubLogger(root, "RQBD", reqbuilder.UseLogger)
	AddSubLogger(root, "TXBD", txbuilder.UseLogger)
	AddSubLogger(root, "OBUF", outbuffer.UseLogger)
	AddSubLogger(root, "OPAY", outpayments.UseLogger)
	AddSubLogger(root, "PURS", purse.UseLogger)
	AddSubLogger(root, "KYRN", keyring.UseLogger)
	AddSubLogger(root, "CRON", cron.UseLogger)
	AddSubLogger(root, "RCEG", recordengine.UseLogger)
	AddSubLogger(root, "TRNS", transport.UseLogger)
	AddSubLogger(root, "WALT", wallet.UseLogger)
}

// AddSubLogger creates and registers one subsystem's logger, wiring it
// into every useLoggers func passed (a package may need the same logger
// set on more than one UseLogger, though in practice each has exactly
// one).
func AddSubLogger(root *build.RotatingLogWriter, subsystem string, useLoggers ...func(slog.Logger)) {
	logger := build.NewSubLogger(subsystem, root.GenSubLogger)
	SetSubLogger(root, subsystem, logger, useLoggers...)
}

// SetSubLogger registers logger under subsystem and applies it to every
// useLoggers func.
func SetSubLogger(root *build.RotatingLogWriter, subsystem string, logger slog.Logger, useLoggers ...func(slog.Logger)) {
	root.RegisterSubLogger(subsystem, logger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}
