// Package notarytypes holds the data model shared across every notary
// client subsystem: Nyms, contracts, accounts, ledgers, and payment
// instruments. In place of the original C++ inheritance chain (Contract <-
// Scriptable <- Instrument <- Trackable <- {Cheque, CronItem <- Agreement
// <- PaymentPlan; CronItem <- SmartContract}) this package models
// PaymentInstrument as a tagged sum: one concrete struct per kind,
// dispatched on an InstrumentKind discriminator.
package notarytypes

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
)

// NymID is the stable identifier of a pseudonymous identity: the hash of
// its public signing material.
type NymID string

// ServerID identifies a notary server by the hash of its signed contract.
type ServerID string

// AssetID identifies an asset contract (plain asset or basket).
type AssetID string

// AccountID identifies an asset account.
type AccountID string

// TransactionNumber is a scarce, server-issued serial the client must spend
// for each state-changing operation.
type TransactionNumber uint64

// NumberSet is a simple set of transaction numbers, used for the
// available/issued/tentative/acknowledged-reply bookkeeping on a Nym.
type NumberSet map[TransactionNumber]struct{}

// NewNumberSet builds a NumberSet from the given numbers.
func NewNumberSet(nums ...TransactionNumber) NumberSet {
	s := make(NumberSet, len(nums))
	for _, n := range nums {
		s[n] = struct{}{}
	}

	return s
}

// Has reports whether n is a member of the set.
func (s NumberSet) Has(n TransactionNumber) bool {
	_, ok := s[n]

	return ok
}

// Add inserts n into the set.
func (s NumberSet) Add(n TransactionNumber) { s[n] = struct{}{} }

// Remove deletes n from the set. It is a no-op if n is absent.
func (s NumberSet) Remove(n TransactionNumber) { delete(s, n) }

// Len returns the number of members.
func (s NumberSet) Len() int { return len(s) }

// Clone returns a shallow copy.
func (s NumberSet) Clone() NumberSet {
	out := make(NumberSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}

	return out
}

// ServerNumbers tracks the per-server number pools and request-number
// counter for a single Nym, per spec §3/§4.1.
type ServerNumbers struct {
	// Available numbers this Nym may draw from for new requests.
	Available NumberSet

	// Issued numbers the server has handed out and not yet closed out.
	// Available and Issued are disjoint: a draw moves a number from
	// Available into Issued and a harvest moves it back. Tentative is a
	// subset of Issued and disjoint from Available.
	Issued NumberSet

	// Tentative numbers mid-draw: committed locally but not yet confirmed
	// by a server reply.
	Tentative NumberSet

	// AcknowledgedReplies is the set of reply request-numbers this Nym has
	// already processed, used to build the RequestBuilder's
	// acknowledgment list.
	AcknowledgedReplies map[uint64]struct{}

	// RequestNumber is the monotonically increasing per-server request
	// counter. It is incremented even when a request fails.
	RequestNumber uint64
}

// NewServerNumbers returns an empty, ready-to-use ServerNumbers.
func NewServerNumbers() *ServerNumbers {
	return &ServerNumbers{
		Available:           make(NumberSet),
		Issued:              make(NumberSet),
		Tentative:           make(NumberSet),
		AcknowledgedReplies: make(map[uint64]struct{}),
	}
}

// NextRequestNumber increments and returns the per-server request counter.
func (s *ServerNumbers) NextRequestNumber() uint64 {
	s.RequestNumber++

	return s.RequestNumber
}

// Nym is a pseudonymous signing identity, per spec §3.
type Nym struct {
	ID   NymID
	Name string

	PrivateKey *secp256k1.PrivateKey
	PublicKey  *secp256k1.PublicKey

	// Servers maps a ServerID to this Nym's number pools at that server.
	Servers map[ServerID]*ServerNumbers

	// Outpayments is this Nym's queue of sent instruments awaiting
	// reconciliation, per spec §3/§4.5.
	Outpayments []*OutpaymentEntry

	// Nymbox is where the server drops notices, replies, and instruments
	// addressed to this Nym directly (not to a specific account), per
	// spec §6 glossary.
	Nymbox *Ledger

	// PaymentInbox holds incoming payment instruments (cheques, vouchers,
	// cash) this Nym has received but not yet deposited or recorded.
	PaymentInbox []*BoxEntry

	// RecordBox holds instruments RecordEngine has archived after they
	// were closed cleanly, per spec §4.4.
	RecordBox []*BoxEntry

	// ExpiredBox holds instruments RecordEngine has archived after their
	// valid_to passed, per spec §4.4.
	ExpiredBox []*BoxEntry
}

// NewNym derives a Nym ID from the public key and returns a ready-to-use
// Nym with empty per-server state.
func NewNym(name string, priv *secp256k1.PrivateKey) *Nym {
	pub := priv.PubKey()
	id := chainhash.HashB(pub.SerializeCompressed())

	return &Nym{
		ID:           NymID(hashHex(id)),
		Name:         name,
		PrivateKey:   priv,
		PublicKey:    pub,
		Servers:      make(map[ServerID]*ServerNumbers),
		Nymbox:       NewLedger(),
	}
}

// ServerState returns (creating if absent) the ServerNumbers for server.
func (n *Nym) ServerState(server ServerID) *ServerNumbers {
	s, ok := n.Servers[server]
	if !ok {
		s = NewServerNumbers()
		n.Servers[server] = s
	}

	return s
}

// Sign produces a compact ECDSA signature over digest using the Nym's
// private signing key.
func (n *Nym) Sign(digest []byte) []byte {
	return signCompact(n.PrivateKey, digest)
}

func hashHex(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexDigits[v>>4]
		out[i*2+1] = hexDigits[v&0x0f]
	}

	return string(out)
}
