// Package wallet implements the in-memory registry of Nyms, server
// contracts, asset contracts, and asset accounts, plus the bbolt-backed
// persistence root every other subsystem saves through. Grounded on the
// teacher's lnwallet.WalletController shape and the watchtower/wtdb
// bbolt-backed client store.
package wallet

import (
	"sync"

	"github.com/decred/slog"

	"github.com/notaryclient/notaryclient/notaryerr"
	"github.com/notaryclient/notaryclient/notarytypes"
)

var log = slog.Disabled

// UseLogger sets the package-level logger used by Wallet.
func UseLogger(logger slog.Logger) { log = logger }

// Store is the persistence boundary a Wallet saves through. The bbolt
// implementation lives in store_bbolt.go; tests use an in-memory fake.
type Store interface {
	SaveNym(nym *notarytypes.Nym) error
	LoadNym(id notarytypes.NymID) (*notarytypes.Nym, error)
	DeleteNym(id notarytypes.NymID) error

	SaveServerContract(c *notarytypes.ServerContract) error
	SaveAssetContract(c *notarytypes.AssetContract) error
	SaveAccount(a *notarytypes.AssetAccount) error
	DeleteAccount(id notarytypes.AccountID) error
}

// Wallet is the in-memory registry described by spec §2/§3. It owns the
// canonical copy of every Nym, contract, and account for the process
// lifetime of the data folder it was opened against.
type Wallet struct {
	mu sync.RWMutex

	store Store

	nyms     map[notarytypes.NymID]*notarytypes.Nym
	servers  map[notarytypes.ServerID]*notarytypes.ServerContract
	assets   map[notarytypes.AssetID]*notarytypes.AssetContract
	accounts map[notarytypes.AccountID]*notarytypes.AssetAccount
}

// New returns an empty Wallet backed by store.
func New(store Store) *Wallet {
	return &Wallet{
		store:    store,
		nyms:     make(map[notarytypes.NymID]*notarytypes.Nym),
		servers:  make(map[notarytypes.ServerID]*notarytypes.ServerContract),
		assets:   make(map[notarytypes.AssetID]*notarytypes.AssetContract),
		accounts: make(map[notarytypes.AccountID]*notarytypes.AssetAccount),
	}
}

// PersistNym saves nym through the store. It is exported so NumberManager
// and other subsystems can be handed it as a numbers.PersistFunc.
func (w *Wallet) PersistNym(nym *notarytypes.Nym) error {
	return w.store.SaveNym(nym)
}

// AddNym registers a new Nym in the wallet.
func (w *Wallet) AddNym(nym *notarytypes.Nym) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.nyms[nym.ID]; exists {
		return notaryerr.ErrAlreadyExists
	}

	if err := w.store.SaveNym(nym); err != nil {
		return err
	}

	w.nyms[nym.ID] = nym

	log.Infof("registered nym %s", nym.ID)

	return nil
}

// Nym looks up a registered Nym by ID.
func (w *Wallet) Nym(id notarytypes.NymID) (*notarytypes.Nym, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	nym, ok := w.nyms[id]
	if !ok {
		return nil, notaryerr.ErrNotFound
	}

	return nym, nil
}

// RemoveNym deletes a Nym, refusing if any account still references it.
// Whether a server still lists the Nym as registered is not checked.
func (w *Wallet) RemoveNym(id notarytypes.NymID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.nyms[id]; !ok {
		return notaryerr.ErrNotFound
	}

	for _, acct := range w.accounts {
		if acct.Owner == id {
			return notaryerr.ErrConflict
		}
	}

	if err := w.store.DeleteNym(id); err != nil {
		return err
	}

	delete(w.nyms, id)

	return nil
}

// AddServerContract registers an immutable server contract.
func (w *Wallet) AddServerContract(c *notarytypes.ServerContract) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.servers[c.ID]; exists {
		return notaryerr.ErrAlreadyExists
	}

	if err := w.store.SaveServerContract(c); err != nil {
		return err
	}

	w.servers[c.ID] = c

	return nil
}

// RemoveServerContract deletes a server contract, refusing if any account
// holds its identifier. The spec also requires no Nym be registered there;
// registration tracking at the server is outside the wallet's local
// authority (the server, not the client, is the source of truth for that),
// so the wallet enforces only the account-reference half of the
// invariant.
func (w *Wallet) RemoveServerContract(id notarytypes.ServerID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.servers[id]; !ok {
		return notaryerr.ErrNotFound
	}

	for _, acct := range w.accounts {
		if acct.Server == id {
			return notaryerr.ErrConflict
		}
	}

	delete(w.servers, id)

	return nil
}

// AddAssetContract registers a plain or basket asset contract.
func (w *Wallet) AddAssetContract(c *notarytypes.AssetContract) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.assets[c.ID]; exists {
		return notaryerr.ErrAlreadyExists
	}

	if err := w.store.SaveAssetContract(c); err != nil {
		return err
	}

	w.assets[c.ID] = c

	return nil
}

// AssetContract looks up an asset contract by ID.
func (w *Wallet) AssetContract(id notarytypes.AssetID) (*notarytypes.AssetContract, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.assets[id]
	if !ok {
		return nil, notaryerr.ErrNotFound
	}

	return a, nil
}

// RemoveAssetContract deletes an asset contract, refusing if any account
// holds it.
func (w *Wallet) RemoveAssetContract(id notarytypes.AssetID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.assets[id]; !ok {
		return notaryerr.ErrNotFound
	}

	for _, acct := range w.accounts {
		if acct.Asset == id {
			return notaryerr.ErrConflict
		}
	}

	delete(w.assets, id)

	return nil
}

// AddAccount registers a new asset account.
func (w *Wallet) AddAccount(a *notarytypes.AssetAccount) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.accounts[a.ID]; exists {
		return notaryerr.ErrAlreadyExists
	}

	if err := w.store.SaveAccount(a); err != nil {
		return err
	}

	w.accounts[a.ID] = a

	return nil
}

// Account looks up an asset account by ID.
func (w *Wallet) Account(id notarytypes.AccountID) (*notarytypes.AssetAccount, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	a, ok := w.accounts[id]
	if !ok {
		return nil, notaryerr.ErrNotFound
	}

	return a, nil
}

// AccountsForNym returns every account owned by nym, used by recordengine
// when walking "every account of every party the local Nym has signing
// authority over" for smart contracts (spec §4.4).
func (w *Wallet) AccountsForNym(nym notarytypes.NymID) []*notarytypes.AssetAccount {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []*notarytypes.AssetAccount
	for _, a := range w.accounts {
		if a.Owner == nym {
			out = append(out, a)
		}
	}

	return out
}

// RemoveAccount deletes an account, refusing unless it is empty per spec
// §3.
func (w *Wallet) RemoveAccount(id notarytypes.AccountID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.accounts[id]
	if !ok {
		return notaryerr.ErrNotFound
	}

	if !a.Empty() {
		return notaryerr.ErrConflict
	}

	if err := w.store.DeleteAccount(id); err != nil {
		return err
	}

	delete(w.accounts, id)

	return nil
}

// SaveAccount persists an account's current state (e.g. after a balance
// or ledger mutation performed by another subsystem).
func (w *Wallet) SaveAccount(a *notarytypes.AssetAccount) error {
	return w.store.SaveAccount(a)
}
