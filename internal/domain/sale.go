package domain

import "time"

// SaleKind identifies which trading mode produced a sale.
type SaleKind string

const (
	SaleKindListing SaleKind = "listing"
	SaleKindOffer   SaleKind = "offer"
	SaleKindAuction SaleKind = "auction"
)

// Sale is the immutable record of one completed trade. Fee, Royalty and
// NetProceeds always sum exactly to Price; Royalty is zero when no
// separate royalty transfer was made (zero rate, or creator == seller).
type Sale struct {
	SaleID      string
	AssetID     string
	Seller      string
	Buyer       string
	Kind        SaleKind
	Price       int64
	Fee         int64
	Royalty     int64
	NetProceeds int64
	ExecutedAt  uint64 // block height
	Timestamp   time.Time
}
