package store

import (
	"testing"

	"github.com/mintbay/mintbay/internal/domain"
)

func TestSaleStore_AppendKeepsChronologicalOrder(t *testing.T) {
	s := NewSaleStore()
	s.Append(&domain.Sale{SaleID: "s1", AssetID: "nft-1", Price: 100})
	s.Append(&domain.Sale{SaleID: "s2", AssetID: "nft-1", Price: 200})
	s.Append(&domain.Sale{SaleID: "s3", AssetID: "nft-2", Price: 300})

	history := s.GetByAsset("nft-1")
	if len(history) != 2 || history[0].SaleID != "s1" || history[1].SaleID != "s2" {
		t.Errorf("unexpected history: %+v", history)
	}
	if got := s.GetByAsset("nft-3"); len(got) != 0 {
		t.Errorf("unknown asset should have empty history, got %+v", got)
	}
}

func TestRevenueStore_Accumulates(t *testing.T) {
	s := NewRevenueStore()
	s.Record(25, 50, 1000)
	s.Record(10, 0, 400)

	totals := s.Totals()
	if totals.TotalFees != 35 || totals.TotalRoyalties != 50 || totals.TotalVolume != 1400 || totals.SaleCount != 2 {
		t.Errorf("unexpected totals: %+v", totals)
	}
}
