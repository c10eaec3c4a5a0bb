package domain

import "time"

// Asset represents a uniquely identified tradeable item. Creator and
// RoyaltyBPS are fixed at mint time; Owner changes only through the
// trading engine's settlement path.
type Asset struct {
	AssetID    string
	Owner      string
	Creator    string
	RoyaltyBPS int64
	TokenURI   string
	MintedAt   time.Time
}
