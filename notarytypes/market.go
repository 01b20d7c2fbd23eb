package notarytypes

// MarketOffer is a cron item running on the server's recurring-execution
// loop alongside payment plans and smart contracts (spec glossary: "Cron
// item"), but it is not itself a PaymentInstrument — the market's trade
// matching and order-book mechanics are server-side and out of this
// core's scope; the client only needs enough shape to draw numbers for
// one, submit it, and later cancel it via BuildCancelCronItem.
type MarketOffer struct {
	NymID   NymID
	Account AccountID
	Server  ServerID

	AssetOffered  AssetID
	AssetWanted   AssetID
	Scale         int64
	MinIncrement  int64
	TotalAssets   int64
	PricePerScale int64

	// Selling is true for an ask, false for a bid.
	Selling bool

	// TransactionNum is the primary number this offer was submitted under;
	// BuildCancelCronItem references it to cancel the live offer.
	TransactionNum TransactionNumber
}

// MarketTrade is one fill the server reports against a live offer, surfaced
// to the client via get_market_recent_trades.
type MarketTrade struct {
	OfferAssetPair string
	Price          int64
	Amount         int64
	UnixTime       int64
}

// MarketListing is one summary row get_market_list returns: one asset pair
// the server is matching offers for, plus its current depth.
type MarketListing struct {
	AssetOffered AssetID
	AssetWanted  AssetID
	Scale        int64
	NumBids      int
	NumAsks      int
	LastSalePrice int64
}
