package notarytypes

import "github.com/decred/dcrd/dcrec/secp256k1/v3"

// Endpoint is one connection endpoint advertised by a server contract: a
// TCP host+port, an onion address, or an inproc name.
type Endpoint struct {
	Kind EndpointKind
	Addr string
}

// EndpointKind enumerates the transport kinds a ServerContract may list.
type EndpointKind int

const (
	EndpointTCP EndpointKind = iota
	EndpointOnion
	EndpointInproc
)

// ServerContract is immutable once signed by the issuing server Nym, per
// spec §3. The wallet removes it only when no account holds its
// identifier (wallet.RemoveServerContract); Nym registration at the server
// is not checked.
type ServerContract struct {
	ID        ServerID
	Endpoints []Endpoint
	PublicKey *secp256k1.PublicKey
	Signature []byte
}

// SubAsset is one leg of a basket asset: the underlying asset plus the
// minimum transfer amount for that leg.
type SubAsset struct {
	Asset           AssetID
	MinimumTransfer int64
}

// AssetContract is either a plain asset (Baskets is empty) or a basket
// (ordered list of sub-assets plus a basket-wide minimum), per spec §3.
type AssetContract struct {
	ID AssetID

	// Baskets is non-empty only for basket assets.
	Baskets []SubAsset

	// BasketMinimum is the basket-wide minimum transfer, meaningful only
	// when Baskets is non-empty.
	BasketMinimum int64
}

// IsBasket reports whether this asset contract describes a basket.
func (a *AssetContract) IsBasket() bool { return len(a.Baskets) > 0 }

// AssetAccount is (owner Nym, asset, server, balance, inbox, outbox), per
// spec §3. Removable only when balance is zero and both inbox and outbox
// are empty — enforced by wallet, not here.
type AssetAccount struct {
	ID      AccountID
	Owner   NymID
	Asset   AssetID
	Server  ServerID
	Balance int64

	Inbox  *Ledger
	Outbox *Ledger
}

// NewAssetAccount returns a zero-balance account with empty ledgers.
func NewAssetAccount(id AccountID, owner NymID, asset AssetID, server ServerID) *AssetAccount {
	return &AssetAccount{
		ID:     id,
		Owner:  owner,
		Asset:  asset,
		Server: server,
		Inbox:  NewLedger(),
		Outbox: NewLedger(),
	}
}

// Empty reports whether the account can be safely removed: zero balance,
// empty inbox, empty outbox.
func (a *AssetAccount) Empty() bool {
	return a.Balance == 0 && a.Inbox.Len() == 0 && a.Outbox.Len() == 0
}
