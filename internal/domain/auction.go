package domain

// Auction is a time-boxed competitive sale. The leading bid is held in
// escrow by the engine's own account for the auction's duration, so a
// bidder's external balance cannot break refund guarantees.
type Auction struct {
	AssetID       string
	Seller        string
	MinBid        int64
	ReservePrice  int64
	CurrentBid    int64
	CurrentBidder string // empty while no bids
	ReserveMet    bool
	StartedAt     uint64 // block height
	EndBlock      uint64 // last block at which bids are accepted
}

// HasBid reports whether at least one bid has been escrowed.
func (a *Auction) HasBid() bool {
	return a.CurrentBidder != ""
}

// Ended reports whether bidding has closed at the given height.
func (a *Auction) Ended(height uint64) bool {
	return height > a.EndBlock
}

// MinimumNextBid returns the lowest acceptable bid amount. The first bid
// must meet MinBid; later bids must raise by current_bid/20. Integer
// truncation makes the required raise zero while current_bid < 20 — kept
// as-is, see the boundary test.
func (a *Auction) MinimumNextBid() int64 {
	if !a.HasBid() {
		return a.MinBid
	}
	return a.CurrentBid + a.CurrentBid/MinRaiseDivisor
}
