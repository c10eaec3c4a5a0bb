package domain

// Protocol constants. These form the external contract of the marketplace
// and are not configurable at runtime.
const (
	// BPSDenominator is the basis-point scale used for all rate math.
	BPSDenominator = 10000

	// FeeBPS is the marketplace fee charged on every sale (2.5%).
	FeeBPS = 250

	// MaxRoyaltyBPS caps the creator royalty set at mint time (10%).
	// FeeBPS + MaxRoyaltyBPS must stay well below BPSDenominator so the
	// seller always receives the majority of the price.
	MaxRoyaltyBPS = 1000

	// MinAuctionDuration and MaxAuctionDuration bound auction length,
	// in block heights.
	MinAuctionDuration = 144
	MaxAuctionDuration = 4320

	// MinRaiseDivisor defines the minimum bid increment: a new bid must
	// be at least current_bid + current_bid/MinRaiseDivisor (a 5% raise).
	MinRaiseDivisor = 20
)

// EscrowAccountID is the engine-owned account that holds leading auction
// bids. Escrowed funds belong to no bidder while an auction is running.
const EscrowAccountID = "marketplace.escrow"

// ApplyBPS returns amount scaled by a basis-point rate, truncating.
func ApplyBPS(amount, bps int64) int64 {
	return amount * bps / BPSDenominator
}

// ValidRoyaltyBPS reports whether a royalty rate is allowed at mint time.
func ValidRoyaltyBPS(bps int64) bool {
	return bps >= 0 && bps <= MaxRoyaltyBPS
}
