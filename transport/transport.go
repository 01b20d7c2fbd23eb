// Package transport implements the envelope-in, envelope-out abstraction
// of spec §6: a connection sends one signed request envelope and
// receives exactly one reply envelope, over a single logical connection
// per (Nym, server) pair. Concurrency is single-threaded cooperative per
// instance (spec §5): a plain mutex guards the dialer so no two
// goroutines can interleave a Send and a Receive on the same
// connection, mirroring the teacher's own coin-selection lock
// (lnwallet.LightningWallet.SendOutputs: "this method requires the
// global coin selection lock to be held").
package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/decred/slog"

	"github.com/notaryclient/notaryclient/notaryerr"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by this package.
func UseLogger(logger slog.Logger) { log = logger }

// Envelope is one armored, signed (or cleartext-armored, for
// pre-registration exchanges) message on the wire. The XML serialization
// of its contents is out of scope (spec §1); Payload is the opaque
// armored blob a Dialer hands to or receives from the server.
type Envelope struct {
	Payload []byte
	// Cleartext is true for pre-registration exchanges (e.g. the first
	// server-contract request, before the client has a server Nym key
	// to seal to).
	Cleartext bool
}

// Dialer performs one request/reply round trip against a single server.
// Implementations are not expected to be safe for concurrent use;
// Conn enforces that externally.
type Dialer interface {
	// RoundTrip sends req and blocks for the matching reply, or returns
	// ctx's error if it's canceled first.
	RoundTrip(ctx context.Context, req Envelope) (Envelope, error)
	// Close releases the underlying connection.
	Close() error
}

// Conn is one logical connection to one server: a single Dialer guarded
// by a mutex, with the fixed suspension points spec §5 names (Send,
// Receive, and the caller's own passphrase prompt — which happens
// outside this package, before RoundTrip is ever called).
type Conn struct {
	mu      sync.Mutex
	dialer  Dialer
	timeout time.Duration
}

// New wraps dialer in a Conn that enforces a mutual-exclusion lock and a
// fixed per-request timeout.
func New(dialer Dialer, timeout time.Duration) *Conn {
	return &Conn{dialer: dialer, timeout: timeout}
}

// Send performs one full request/reply round trip. Only one Send may be
// in flight on a Conn at a time; a second caller blocks until the first
// completes, exactly modeling the single-threaded-per-instance,
// no-pipelining, no-in-flight-cancel requirement of spec §5.
func (c *Conn) Send(ctx context.Context, req Envelope) (Envelope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.dialer.RoundTrip(ctx, req)
	if err != nil {
		log.Errorf("transport: round trip failed: %v", err)

		return Envelope{}, fmt.Errorf("%w: %v", notaryerr.ErrNetwork, err)
	}

	return reply, nil
}

// Close releases the underlying dialer.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.dialer.Close()
}
