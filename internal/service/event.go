package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mintbay/mintbay/internal/domain"
	"github.com/mintbay/mintbay/internal/store"
)

// Trading events that accounts can subscribe to. Events are
// observability-only: the engine never reads them back.
const (
	EventListed            = "listed"
	EventPriceUpdated      = "price-updated"
	EventUnlisted          = "unlisted"
	EventPurchased         = "purchased"
	EventOfferMade         = "offer-made"
	EventOfferAccepted     = "offer-accepted"
	EventOfferCancelled    = "offer-cancelled"
	EventAuctionStarted    = "auction-started"
	EventBidPlaced         = "bid-placed"
	EventAuctionFinalized  = "auction-finalized"
	EventAuctionEndedNoBid = "auction-ended-no-bids"
	EventAuctionCancelled  = "auction-cancelled"
)

var validWebhookEvents = map[string]bool{
	EventListed:            true,
	EventPriceUpdated:      true,
	EventUnlisted:          true,
	EventPurchased:         true,
	EventOfferMade:         true,
	EventOfferAccepted:     true,
	EventOfferCancelled:    true,
	EventAuctionStarted:    true,
	EventBidPlaced:         true,
	EventAuctionFinalized:  true,
	EventAuctionEndedNoBid: true,
	EventAuctionCancelled:  true,
}

// UpsertWebhookRequest represents the input for webhook registration.
type UpsertWebhookRequest struct {
	AccountID string
	URL       string
	Events    []string
}

// EventService handles webhook CRUD and trading-event dispatch.
type EventService struct {
	store  *store.WebhookStore
	ledger *store.LedgerStore
	client *http.Client
}

// NewEventService creates a new EventService with the given dependencies.
func NewEventService(
	webhookStore *store.WebhookStore,
	ledger *store.LedgerStore,
	webhookTimeout time.Duration,
) *EventService {
	return &EventService{
		store:  webhookStore,
		ledger: ledger,
		client: &http.Client{
			Timeout: webhookTimeout,
		},
	}
}

// Upsert validates the request and creates or updates webhook
// subscriptions. Returns the resulting webhooks, whether any new
// subscriptions were created, and any error.
func (s *EventService) Upsert(req UpsertWebhookRequest) ([]*domain.Webhook, bool, error) {
	if !s.ledger.Exists(req.AccountID) {
		return nil, false, domain.ErrAccountNotFound
	}

	if req.URL == "" {
		return nil, false, &domain.ValidationError{Message: "url is required"}
	}
	if len(req.URL) > 2048 {
		return nil, false, &domain.ValidationError{Message: "url must be at most 2048 characters"}
	}
	parsed, err := url.ParseRequestURI(req.URL)
	if err != nil || !parsed.IsAbs() {
		return nil, false, &domain.ValidationError{Message: "url must be a valid absolute URL"}
	}
	if parsed.Scheme != "https" {
		return nil, false, &domain.ValidationError{Message: "url must use https scheme"}
	}

	if len(req.Events) == 0 {
		return nil, false, &domain.ValidationError{Message: "events must be a non-empty array"}
	}

	// Deduplicate events while preserving order and validating.
	seen := make(map[string]bool, len(req.Events))
	dedupedEvents := make([]string, 0, len(req.Events))
	for _, event := range req.Events {
		if !validWebhookEvents[event] {
			return nil, false, &domain.ValidationError{
				Message: "Unknown event type: " + event,
			}
		}
		if !seen[event] {
			seen[event] = true
			dedupedEvents = append(dedupedEvents, event)
		}
	}

	// Upsert each (account_id, event) pair.
	now := time.Now().UTC().Truncate(time.Second)
	anyCreated := false
	webhooks := make([]*domain.Webhook, 0, len(dedupedEvents))

	for _, event := range dedupedEvents {
		w := &domain.Webhook{
			WebhookID: uuid.New().String(),
			AccountID: req.AccountID,
			Event:     event,
			URL:       req.URL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		created := s.store.Upsert(w)
		if created {
			anyCreated = true
			webhooks = append(webhooks, w)
		} else {
			existing := s.store.GetByAccountEvent(req.AccountID, event)
			if existing != nil {
				webhooks = append(webhooks, existing)
			}
		}
	}

	return webhooks, anyCreated, nil
}

// List validates the account exists and returns all its subscriptions.
func (s *EventService) List(accountID string) ([]*domain.Webhook, error) {
	if !s.ledger.Exists(accountID) {
		return nil, domain.ErrAccountNotFound
	}
	return s.store.ListByAccount(accountID), nil
}

// Delete removes a webhook subscription by ID.
func (s *EventService) Delete(webhookID string) error {
	return s.store.Delete(webhookID)
}

// eventPayload is the JSON envelope shared by every dispatched event.
type eventPayload struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// listingEventData carries listed, price-updated, and unlisted events.
type listingEventData struct {
	AssetID  string `json:"asset_id"`
	Seller   string `json:"seller"`
	Price    int64  `json:"price"`
	ListedAt uint64 `json:"listed_at"`
}

// saleEventData carries purchased, offer-accepted, and auction-finalized
// events.
type saleEventData struct {
	SaleID      string `json:"sale_id"`
	AssetID     string `json:"asset_id"`
	Seller      string `json:"seller"`
	Buyer       string `json:"buyer"`
	Kind        string `json:"kind"`
	Price       int64  `json:"price"`
	Fee         int64  `json:"fee"`
	Royalty     int64  `json:"royalty"`
	NetProceeds int64  `json:"net_proceeds"`
	ExecutedAt  uint64 `json:"executed_at"`
}

// offerEventData carries offer-made and offer-cancelled events.
type offerEventData struct {
	AssetID   string `json:"asset_id"`
	Buyer     string `json:"buyer"`
	Amount    int64  `json:"amount"`
	ExpiresAt uint64 `json:"expires_at"`
}

// auctionEventData carries auction-started, bid-placed,
// auction-ended-no-bids, and auction-cancelled events.
type auctionEventData struct {
	AssetID       string `json:"asset_id"`
	Seller        string `json:"seller"`
	MinBid        int64  `json:"min_bid"`
	CurrentBid    int64  `json:"current_bid"`
	CurrentBidder string `json:"current_bidder,omitempty"`
	ReserveMet    bool   `json:"reserve_met"`
	EndBlock      uint64 `json:"end_block"`
}

// DispatchListingEvent notifies the recipients of a listing lifecycle
// event. Fire-and-forget — errors are silently ignored.
func (s *EventService) DispatchListingEvent(event string, listing *domain.Listing, recipients ...string) {
	s.dispatch(event, listingEventData{
		AssetID:  listing.AssetID,
		Seller:   listing.Seller,
		Price:    listing.Price,
		ListedAt: listing.ListedAt,
	}, recipients)
}

// DispatchSaleEvent notifies the recipients of a completed trade.
// Fire-and-forget.
func (s *EventService) DispatchSaleEvent(event string, sale *domain.Sale, recipients ...string) {
	s.dispatch(event, saleEventData{
		SaleID:      sale.SaleID,
		AssetID:     sale.AssetID,
		Seller:      sale.Seller,
		Buyer:       sale.Buyer,
		Kind:        string(sale.Kind),
		Price:       sale.Price,
		Fee:         sale.Fee,
		Royalty:     sale.Royalty,
		NetProceeds: sale.NetProceeds,
		ExecutedAt:  sale.ExecutedAt,
	}, recipients)
}

// DispatchOfferEvent notifies the recipients of an offer lifecycle
// event. Fire-and-forget.
func (s *EventService) DispatchOfferEvent(event string, offer *domain.Offer, recipients ...string) {
	s.dispatch(event, offerEventData{
		AssetID:   offer.AssetID,
		Buyer:     offer.Buyer,
		Amount:    offer.Amount,
		ExpiresAt: offer.ExpiresAt,
	}, recipients)
}

// DispatchAuctionEvent notifies the recipients of an auction lifecycle
// event. Fire-and-forget.
func (s *EventService) DispatchAuctionEvent(event string, auction *domain.Auction, recipients ...string) {
	s.dispatch(event, auctionEventData{
		AssetID:       auction.AssetID,
		Seller:        auction.Seller,
		MinBid:        auction.MinBid,
		CurrentBid:    auction.CurrentBid,
		CurrentBidder: auction.CurrentBidder,
		ReserveMet:    auction.ReserveMet,
		EndBlock:      auction.EndBlock,
	}, recipients)
}

// dispatch delivers one event to each recipient that holds a matching
// subscription. Duplicate recipients are collapsed so a party appearing
// in two roles gets one delivery.
func (s *EventService) dispatch(event string, data any, recipients []string) {
	payload := eventPayload{
		Event:     event,
		Timestamp: time.Now().UTC().Truncate(time.Second).Format(time.RFC3339),
		Data:      data,
	}

	seen := make(map[string]bool, len(recipients))
	for _, accountID := range recipients {
		if accountID == "" || seen[accountID] {
			continue
		}
		seen[accountID] = true

		wh := s.store.GetByAccountEvent(accountID, event)
		if wh == nil {
			continue
		}
		go s.deliver(wh, event, payload)
	}
}

// deliver sends the webhook payload via HTTP POST with the required
// headers. Errors are silently ignored (fire-and-forget).
func (s *EventService) deliver(wh *domain.Webhook, eventType string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(body))
	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", uuid.New().String())
	req.Header.Set("X-Webhook-Id", wh.WebhookID)
	req.Header.Set("X-Event-Type", eventType)

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
