package notaryclient

import (
	"fmt"
	"sync"
	"time"

	"github.com/notaryclient/notaryclient/config"
	"github.com/notaryclient/notaryclient/keyring"
	"github.com/notaryclient/notaryclient/notarytypes"
	"github.com/notaryclient/notaryclient/numbers"
	"github.com/notaryclient/notaryclient/outbuffer"
	"github.com/notaryclient/notaryclient/recordengine"
	"github.com/notaryclient/notaryclient/reqbuilder"
	"github.com/notaryclient/notaryclient/transport"
	"github.com/notaryclient/notaryclient/wallet"
)

// nymboxHashKey identifies one (Nym, server) pair's last observed nymbox
// hash, the value every transaction request pins per spec §4.2.
type nymboxHashKey struct {
	nym    notarytypes.NymID
	server notarytypes.ServerID
}

// Runtime is the single explicit handle every CLI command and subsystem
// operates through, replacing the teacher's scattered package-global
// state with one value constructed at startup and threaded through
// explicitly — the shape spec §9's DESIGN NOTES calls for.
type Runtime struct {
	Config *config.Config

	Wallet  *wallet.Wallet
	Numbers *numbers.Manager
	Record  *recordengine.Engine
	Out     *outbuffer.Buffer

	MasterKey *keyring.MasterKey

	Requests *reqbuilder.Builder

	connsMu sync.Mutex
	conns   map[notarytypes.ServerID]*transport.Conn
	dial    DialFunc

	hashMu sync.Mutex
	hashes map[nymboxHashKey][]byte
}

// LastNymboxHash implements reqbuilder.NymboxHashSource: the last hash this
// Runtime observed for (nym, server), or nil before any nymbox fetch.
func (rt *Runtime) LastNymboxHash(nym notarytypes.NymID, server notarytypes.ServerID) []byte {
	rt.hashMu.Lock()
	defer rt.hashMu.Unlock()

	return rt.hashes[nymboxHashKey{nym, server}]
}

// PinNymboxHash records the latest nymbox hash observed for (nym, server),
// called after every successful nymbox fetch so the next request built for
// that pair pins the current value, per spec §4.2.
func (rt *Runtime) PinNymboxHash(nym notarytypes.NymID, server notarytypes.ServerID, hash []byte) {
	rt.hashMu.Lock()
	defer rt.hashMu.Unlock()

	rt.hashes[nymboxHashKey{nym, server}] = hash
}

// DialFunc opens a new Dialer to server; swapped out in tests for a fake.
type DialFunc func(server notarytypes.ServerID) (transport.Dialer, error)

// New constructs a Runtime over an already-open Wallet store and a
// resolved Config. The returned Runtime's NumberManager persists through
// w.PersistNym, and its RecordEngine looks accounts up through w
// directly, since *wallet.Wallet already satisfies both contracts.
func New(cfg *config.Config, w *wallet.Wallet, dial DialFunc) *Runtime {
	mgr := numbers.NewManager(w.PersistNym)

	rt := &Runtime{
		Config:  cfg,
		Wallet:  w,
		Numbers: mgr,
		Out:     outbuffer.New(),
		conns:   make(map[notarytypes.ServerID]*transport.Conn),
		dial:    dial,
		hashes:  make(map[nymboxHashKey][]byte),
	}
	rt.Record = recordengine.NewEngine(mgr, w, w.PersistNym, time.Now)
	rt.Requests = reqbuilder.NewBuilder(rt)

	return rt
}

// Unlock derives the master key from passphrase and the wallet's stored
// salt, per spec §4.7, and stores it on the Runtime for subsequent
// symmetric-purse and credential-at-rest operations.
func (rt *Runtime) Unlock(passphrase, salt []byte) error {
	mk, err := keyring.NewMasterKey(passphrase, salt)
	if err != nil {
		return err
	}

	rt.MasterKey = mk

	return nil
}

// Conn returns the Runtime's single logical connection to server,
// dialing lazily on first use, per spec §5's single-connection-per-
// instance model.
func (rt *Runtime) Conn(server notarytypes.ServerID) (*transport.Conn, error) {
	rt.connsMu.Lock()
	defer rt.connsMu.Unlock()

	if c, ok := rt.conns[server]; ok {
		return c, nil
	}

	if rt.dial == nil {
		return nil, fmt.Errorf("notaryclient: no dialer configured for server %s", server)
	}

	dialer, err := rt.dial(server)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(rt.Config.Latency.RequestTimeout) * time.Second
	c := transport.New(dialer, timeout)
	rt.conns[server] = c

	return c, nil
}

// Close tears down every open connection.
func (rt *Runtime) Close() error {
	rt.connsMu.Lock()
	defer rt.connsMu.Unlock()

	var firstErr error
	for server, c := range rt.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing connection to %s: %w", server, err)
		}
	}
	rt.conns = make(map[notarytypes.ServerID]*transport.Conn)

	return firstErr
}
