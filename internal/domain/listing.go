package domain

// Listing is an open fixed-price sale for a single asset. At most one
// listing exists per asset, and never alongside an auction.
type Listing struct {
	AssetID  string
	Seller   string
	Price    int64
	ListedAt uint64 // block height
}
