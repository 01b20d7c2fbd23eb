// Package outbuffer implements SentOutbuffer / MessageBuffer (spec §4.5):
// tracking requests sent but not yet reconciled against a reply, so a
// nymbox flush/harvest cycle can later classify each one. Grounded on the
// teacher's in-flight HTLC bookkeeping idiom referenced in log.go's HSWC
// subsystem tag and the general retry/ack reliability pattern visible
// throughout routing.
package outbuffer

import (
	"sync"

	"github.com/decred/slog"

	"github.com/notaryclient/notaryclient/notarytypes"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by this package.
func UseLogger(logger slog.Logger) { log = logger }

// Entry is one sent request awaiting reconciliation: the request number it
// was sent under, and every transaction number it attached (a primary plus
// any auxiliary closing numbers), per spec §4.5.
type Entry struct {
	Nym        notarytypes.NymID
	Server     notarytypes.ServerID
	RequestNum uint64
	Primary    notarytypes.TransactionNumber
	Closing    []notarytypes.TransactionNumber
}

type key struct {
	nym        notarytypes.NymID
	server     notarytypes.ServerID
	requestNum uint64
}

// Buffer is the SentOutbuffer: a mutex-guarded set of in-flight Entries.
// Per spec §5, the client is single-threaded cooperative per instance, but
// the mutex still guards against concurrent reconciliation passes racing a
// fresh send.
type Buffer struct {
	mu      sync.Mutex
	entries map[key]*Entry
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{entries: make(map[key]*Entry)}
}

// Add records a sent request as in-flight.
func (b *Buffer) Add(e *Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[key{e.Nym, e.Server, e.RequestNum}] = e

	log.Tracef("outbuffer: added request #%d for nym %s/server %s (primary=%d closing=%d)",
		e.RequestNum, e.Nym, e.Server, e.Primary, len(e.Closing))
}

// RemoveByReplyNotice removes the entry for (nym, server, requestNum) if
// present, returning it. Used when a reply-notice receipt is found in the
// nymbox: the reply was delivered through the nymbox, so no harvest
// decision is needed — it simply stops being in-flight.
func (b *Buffer) RemoveByReplyNotice(nym notarytypes.NymID, server notarytypes.ServerID, requestNum uint64) (*Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := key{nym, server, requestNum}
	e, ok := b.entries[k]
	if ok {
		delete(b.entries, k)
	}

	return e, ok
}

// Remove deletes the entry for (nym, server, requestNum) unconditionally.
func (b *Buffer) Remove(nym notarytypes.NymID, server notarytypes.ServerID, requestNum uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, key{nym, server, requestNum})
}

// All returns every entry still in-flight for (nym, server), in no
// particular order.
func (b *Buffer) All(nym notarytypes.NymID, server notarytypes.ServerID) []*Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []*Entry
	for k, e := range b.entries {
		if k.nym == nym && k.server == server {
			out = append(out, e)
		}
	}

	return out
}

// Len returns the total number of in-flight entries across every Nym and
// server, used by tests and the §8 invariant check (available + in-flight
// <= issued).
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.entries)
}
