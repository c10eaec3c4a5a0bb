package engine

import "github.com/mintbay/mintbay/internal/domain"

// Split is the three-way division of a sale price. Fee + Royalty + Net
// always equals the price exactly; truncation remainders stay in Net.
type Split struct {
	Fee     int64
	Royalty int64
	Net     int64
}

// SplitPrice computes the payout split for a sale. Pure and total: fee
// and royalty use truncating basis-point math, and because
// FeeBPS + MaxRoyaltyBPS < BPSDenominator the net is always positive for
// any positive price with a valid royalty rate.
func SplitPrice(price, royaltyBPS int64) Split {
	fee := domain.ApplyBPS(price, domain.FeeBPS)
	royalty := domain.ApplyBPS(price, royaltyBPS)
	return Split{
		Fee:     fee,
		Royalty: royalty,
		Net:     price - fee - royalty,
	}
}
