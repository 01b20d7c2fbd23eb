// Package notaryerr defines the error taxonomy shared by every subsystem of
// the notary client. Each sentinel corresponds to one classification the
// CLI and transport layers use to decide exit codes and retry/harvest
// behavior; callers should wrap a sentinel with fmt.Errorf("...: %w", ...)
// rather than constructing new error strings ad hoc.
package notaryerr

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Sentinel errors. Classify below maps any wrapped error back to one of
// these via errors.Is.
var (
	// ErrInvalidInput covers empty identifiers, non-positive amounts, and
	// malformed instruments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound covers a missing Nym, account, contract, instrument, or
	// box entry.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized covers signature mismatches, wrong passphrases, and
	// wrong owners.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientNumbers covers a failed low-water-mark check before
	// drawing transaction numbers.
	ErrInsufficientNumbers = errors.New("insufficient transaction numbers")

	// ErrInsufficientFunds covers a local balance check failing before a
	// request is ever built.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrConflict covers an attempt to remove a resource still referenced
	// by another (account uses asset, Nym registered at server, etc).
	ErrConflict = errors.New("conflict")

	// ErrExpired covers an instrument whose valid_to has passed.
	ErrExpired = errors.New("expired")

	// ErrNotYetValid covers an instrument whose valid_from is in the
	// future.
	ErrNotYetValid = errors.New("not yet valid")

	// ErrAlreadyExists covers importing a duplicate Nym/contract, or a
	// duplicate account ID within a smart contract.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNetwork covers send/receive failure or an unparseable reply.
	ErrNetwork = errors.New("network error")

	// ErrReplyFailure covers an explicit failure reply from the server.
	ErrReplyFailure = errors.New("server reply failure")

	// ErrInternal covers an invariant violation. Implementations must
	// treat this as fatal; CLI commands abort with KindInternal's exit
	// code.
	ErrInternal = errors.New("internal invariant violation")
)

// Kind is the classification used by the CLI to select an exit code.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotFound
	KindUnauthorized
	KindInsufficientNumbers
	KindInsufficientFunds
	KindConflict
	KindExpired
	KindNotYetValid
	KindAlreadyExists
	KindNetwork
	KindReplyFailure
	KindInternal
)

var classifyTable = []struct {
	sentinel error
	kind     Kind
}{
	{ErrInvalidInput, KindInvalidInput},
	{ErrNotFound, KindNotFound},
	{ErrUnauthorized, KindUnauthorized},
	{ErrInsufficientNumbers, KindInsufficientNumbers},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrConflict, KindConflict},
	{ErrExpired, KindExpired},
	{ErrNotYetValid, KindNotYetValid},
	{ErrAlreadyExists, KindAlreadyExists},
	{ErrNetwork, KindNetwork},
	{ErrReplyFailure, KindReplyFailure},
	{ErrInternal, KindInternal},
}

// Classify returns the Kind of the first sentinel in err's chain that
// matches, or KindUnknown if none match.
func Classify(err error) Kind {
	for _, entry := range classifyTable {
		if errors.Is(err, entry.sentinel) {
			return entry.kind
		}
	}

	return KindUnknown
}

// ExitCode maps a Kind to a process exit status, one non-zero value per
// distinct error kind. KindUnknown, whose value is 0, maps to the code
// after KindInternal's.
func (k Kind) ExitCode() int {
	if k == KindUnknown {
		return int(KindInternal) + 1
	}

	return int(k)
}

// Internal wraps an ErrInternal violation with a captured stack trace via
// go-errors, for operator-facing diagnostics. The returned error's Error()
// is still the plain one-line message required by the user-visible
// contract; call Stack on it to retrieve the trace for operator logs.
type internalErr struct {
	msg   string
	stack *goerrors.Error
}

func (e *internalErr) Error() string { return e.msg }
func (e *internalErr) Unwrap() error { return ErrInternal }

// Stack returns the captured stack trace for operator-facing logs.
func (e *internalErr) Stack() string { return string(e.stack.Stack()) }

func Internal(msg string) error {
	return &internalErr{
		msg:   fmt.Sprintf("%s: %v", msg, ErrInternal),
		stack: goerrors.Wrap(errors.New(msg), 1),
	}
}
