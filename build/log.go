// Package build provides the sub-logger registry shared by every notary
// client package, adapted from the root lnd-style log.go convention: each
// package declares a package-level logger via NewSubLogger and exposes a
// UseLogger function so the root client can wire in a configured root
// logger once one exists.
package build

import (
	"io"
	"os"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// LogWriter wraps a rotating file logger and an optional stdout mirror.
// Loggers created via NewSubLogger must not be used until InitLogRotator
// has been called on the root LogWriter.
type LogWriter struct {
	rotator  *rotator.Rotator
	logStdout bool
}

// NewLogWriter returns a LogWriter that optionally mirrors to stdout in
// addition to the rotated log file.
func NewLogWriter(logStdout bool) *LogWriter {
	return &LogWriter{logStdout: logStdout}
}

// InitLogRotator initializes the log rotator to write logs to logFile and
// create roll files in the same directory. It must be called before the
// package-level loggers are used for anything but buffering.
func (w *LogWriter) InitLogRotator(logFile string, maxRolls int) error {
	r, err := rotator.New(logFile, 10*1024, false, maxRolls)
	if err != nil {
		return err
	}

	w.rotator = r

	return nil
}

func (w *LogWriter) Write(b []byte) (int, error) {
	if w.logStdout {
		os.Stdout.Write(b)
	}

	if w.rotator == nil {
		return len(b), nil
	}

	return w.rotator.Write(b)
}

// RotatingLogWriter groups the root LogWriter together with the per
// subsystem loggers it has handed out, mirroring the teacher's own
// RotatingLogWriter.
type RotatingLogWriter struct {
	root *LogWriter

	subsystems map[string]slog.Logger
}

// NewRotatingLogWriter constructs an empty RotatingLogWriter. Call
// InitLogRotator on the result before logging anything to disk.
func NewRotatingLogWriter() *RotatingLogWriter {
	return &RotatingLogWriter{
		root:       NewLogWriter(false),
		subsystems: make(map[string]slog.Logger),
	}
}

// InitLogRotator initializes the underlying file rotator.
func (r *RotatingLogWriter) InitLogRotator(logFile string, maxRolls int) error {
	return r.root.InitLogRotator(logFile, maxRolls)
}

// GenSubLogger creates a new slog.Logger for the given subsystem tag,
// backed by the shared rotating writer.
func (r *RotatingLogWriter) GenSubLogger(subsystem string) slog.Logger {
	backend := slog.NewBackend(io.Writer(r.root))
	logger := backend.Logger(subsystem)
	logger.SetLevel(slog.LevelInfo)

	return logger
}

// RegisterSubLogger tracks a logger so SetLogLevels can adjust every
// registered subsystem at once.
func (r *RotatingLogWriter) RegisterSubLogger(subsystem string, logger slog.Logger) {
	r.subsystems[subsystem] = logger
}

// SetLogLevels sets every registered subsystem logger to level.
func (r *RotatingLogWriter) SetLogLevels(level slog.Level) {
	for _, logger := range r.subsystems {
		logger.SetLevel(level)
	}
}

// NewSubLogger creates a placeholder logger for subsystem. If genLogger is
// nil (no root logger configured yet), the returned logger discards all
// output until replaced by SetupLoggers.
func NewSubLogger(subsystem string, genLogger func(string) slog.Logger) slog.Logger {
	if genLogger == nil {
		return slog.Disabled
	}

	return genLogger(subsystem)
}
