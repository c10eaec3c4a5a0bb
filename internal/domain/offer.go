package domain

// Offer is a buyer-initiated bid on an asset, independent of any listing
// or auction. Offers are keyed by (asset, buyer); a new offer from the
// same buyer replaces the previous one. Funds are never escrowed while an
// offer is open — the buyer's balance is rechecked at acceptance.
type Offer struct {
	AssetID   string
	Buyer     string
	Amount    int64
	ExpiresAt uint64 // block height, exclusive
	CreatedAt uint64 // block height
}

// Expired reports whether the offer has lapsed at the given height.
// Expiry is lazily enforced: an expired offer is inert but stays recorded
// until cancelled or overwritten.
func (o *Offer) Expired(height uint64) bool {
	return height > o.ExpiresAt
}
