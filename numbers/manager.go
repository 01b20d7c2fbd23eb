// Package numbers implements NumberManager (spec §4.1): per-Nym, per-server
// pools of available, issued, and tentative transaction numbers, and the
// low-water-mark refusal policy every number-consuming operation must
// honor before it is allowed to proceed.
package numbers

import (
	"sync"

	"github.com/decred/slog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by Manager.
func UseLogger(logger slog.Logger) { log = logger }

var (
	drawCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notaryclient",
		Subsystem: "numbers",
		Name:      "draws_total",
	}, []string{"server"})

	harvestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notaryclient",
		Subsystem: "numbers",
		Name:      "harvests_total",
	}, []string{"server"})
)

func init() {
	prometheus.MustRegister(drawCounter, harvestCounter)
}

// PersistFunc is called on every mutation boundary so the caller can save
// the Nym file atomically with the paired message, per spec §4.1.
type PersistFunc func(nym *notarytypes.Nym) error

// Manager is a NumberManager bound to a persistence callback. It has no
// state of its own beyond the callback: all number pools live on the Nym
// passed to each call, matching the wallet's ownership of that state.
type Manager struct {
	mu      sync.Mutex
	persist PersistFunc
}

// NewManager returns a Manager that calls persist after every mutation.
func NewManager(persist PersistFunc) *Manager {
	return &Manager{persist: persist}
}

// LowWaterMark computes the minimum number of available numbers required
// for op, per spec §4.1.
type LowWaterMark int

const (
	// MarkSingleTransaction is the minimum for an ordinary transaction.
	MarkSingleTransaction LowWaterMark = 2
	// MarkMarketOffer is the minimum for a market offer.
	MarkMarketOffer LowWaterMark = 3
)

// MarkBasketExchange computes the low-water mark for a basket exchange
// with subCount sub-accounts. Per spec §4.9's worked example (2
// sub-accounts needs "1+2+1=4" numbers: one main transaction number, one
// closing per sub-account, one closing for the main account), the
// required total is subCount+2; §8 scenario 5 confirms exactly that many
// available numbers succeed and one fewer is refused, so the low-water
// mark equals the draw count itself.
func MarkBasketExchange(subCount int) LowWaterMark {
	return LowWaterMark(subCount + 2)
}

// Draw atomically decrements Available and appends to Issued, returning
// the drawn number. If fewer than mark numbers remain available, it
// returns notaryerr.ErrInsufficientNumbers and draws nothing.
func (m *Manager) Draw(nym *notarytypes.Nym, server notarytypes.ServerID, mark LowWaterMark) (notarytypes.TransactionNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := nym.ServerState(server)

	if state.Available.Len() < int(mark) {
		return 0, notaryerr.ErrInsufficientNumbers
	}

	return m.drawLocked(nym, server, state)
}

// DrawN draws count numbers under a single low-water-mark check against
// the batch's starting Available pool, used by TransactionBuilder and
// basket exchange to draw a primary number plus auxiliary closing numbers
// atomically. Checking mark once up front (rather than re-testing it
// after each of the count draws shrinks Available) is what lets a caller
// whose mark equals count — basket exchange, payment-plan propose/
// confirm, smart-contract activation — succeed with exactly mark numbers
// on hand, per spec §8 scenario 5. On any failure, every already-drawn
// number in this call is returned to Available before the error is
// propagated.
func (m *Manager) DrawN(nym *notarytypes.Nym, server notarytypes.ServerID, count int, mark LowWaterMark) ([]notarytypes.TransactionNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := nym.ServerState(server)

	if state.Available.Len() < int(mark) {
		return nil, notaryerr.ErrInsufficientNumbers
	}

	drawn := make([]notarytypes.TransactionNumber, 0, count)

	for i := 0; i < count; i++ {
		n, err := m.drawLocked(nym, server, state)
		if err != nil {
			m.returnUnusedLocked(nym, server, state, drawn...)

			return nil, err
		}

		drawn = append(drawn, n)
	}

	return drawn, nil
}

// drawLocked performs the actual pick-one/Available-to-Issued transfer and
// persist, assuming the low-water mark has already been checked and m.mu
// is held by the caller.
func (m *Manager) drawLocked(nym *notarytypes.Nym, server notarytypes.ServerID, state *notarytypes.ServerNumbers) (notarytypes.TransactionNumber, error) {
	n, err := pickOne(state.Available)
	if err != nil {
		return 0, err
	}

	state.Available.Remove(n)
	state.Issued.Add(n)

	if err := m.persist(nym); err != nil {
		// Roll back in memory; the draw never happened as far as any
		// other subsystem can observe.
		state.Issued.Remove(n)
		state.Available.Add(n)

		return 0, err
	}

	log.Tracef("drew number %d for nym %s/server %s (available=%d issued=%d)",
		n, nym.ID, server, state.Available.Len(), state.Issued.Len())
	drawCounter.WithLabelValues(string(server)).Inc()

	return n, nil
}

// ReturnUnused is the harvest path: it re-adds each number to Available
// only if still present in Issued; otherwise it is a silent no-op, since
// the number has already been validly consumed by some other path.
func (m *Manager) ReturnUnused(nym *notarytypes.Nym, server notarytypes.ServerID, nums ...notarytypes.TransactionNumber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.returnUnusedLocked(nym, server, nym.ServerState(server), nums...)
}

// returnUnusedLocked is ReturnUnused's body, assuming m.mu is already held
// by the caller — used by DrawN to roll back a partially-drawn batch
// without re-entering the mutex.
func (m *Manager) returnUnusedLocked(nym *notarytypes.Nym, server notarytypes.ServerID, state *notarytypes.ServerNumbers, nums ...notarytypes.TransactionNumber) {
	harvested := 0
	for _, n := range nums {
		if !state.Issued.Has(n) {
			continue
		}

		state.Issued.Remove(n)
		state.Tentative.Remove(n)
		state.Available.Add(n)
		harvested++
	}

	if harvested == 0 {
		return
	}

	if err := m.persist(nym); err != nil {
		log.Errorf("failed to persist nym %s after harvesting %d numbers: %v",
			nym.ID, harvested, err)

		return
	}

	harvestCounter.WithLabelValues(string(server)).Add(float64(harvested))
	log.Tracef("harvested %d numbers for nym %s/server %s", harvested, nym.ID, server)
}

// MarkTentative moves n from Available into Tentative, used while a draw is
// mid-flight but not yet confirmed issued by a server reply.
func (m *Manager) MarkTentative(nym *notarytypes.Nym, server notarytypes.ServerID, n notarytypes.TransactionNumber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := nym.ServerState(server)
	state.Available.Remove(n)
	state.Tentative.Add(n)
}

// ConfirmTentative moves n out of Tentative once the server has confirmed
// the draw, leaving it solely in Issued.
func (m *Manager) ConfirmTentative(nym *notarytypes.Nym, server notarytypes.ServerID, n notarytypes.TransactionNumber) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := nym.ServerState(server)
	state.Tentative.Remove(n)
}

// MarkIssued directly inserts n into Issued without consuming an
// Available slot, used when importing numbers from a server-confirmed
// reply that this Nym did not locally draw (e.g. a recipient of a payment
// plan confirmation).
func (m *Manager) MarkIssued(nym *notarytypes.Nym, server notarytypes.ServerID, n notarytypes.TransactionNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := nym.ServerState(server)
	state.Issued.Add(n)

	return m.persist(nym)
}

// Close removes n from both Issued and Tentative without returning it to
// Available: the number has been spent/closed out for good.
func (m *Manager) Close(nym *notarytypes.Nym, server notarytypes.ServerID, n notarytypes.TransactionNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := nym.ServerState(server)
	state.Issued.Remove(n)
	state.Tentative.Remove(n)

	return m.persist(nym)
}

// IsIssued reports whether n is currently in the Issued set.
func (m *Manager) IsIssued(nym *notarytypes.Nym, server notarytypes.ServerID, n notarytypes.TransactionNumber) bool {
	return nym.ServerState(server).Issued.Has(n)
}

// IsTentative reports whether n is currently in the Tentative set.
func (m *Manager) IsTentative(nym *notarytypes.Nym, server notarytypes.ServerID, n notarytypes.TransactionNumber) bool {
	return nym.ServerState(server).Tentative.Has(n)
}

// pickOne returns the lowest number in s.
func pickOne(s notarytypes.NumberSet) (notarytypes.TransactionNumber, error) {
	if s.Len() == 0 {
		return 0, notaryerr.ErrInsufficientNumbers
	}

	var lowest notarytypes.TransactionNumber
	first := true
	for n := range s {
		if first || n < lowest {
			lowest, first = n, false
		}
	}

	return lowest, nil
}
