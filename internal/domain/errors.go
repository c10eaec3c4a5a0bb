package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrAccountAlreadyExists = errors.New("account_already_exists")
	ErrAccountNotFound      = errors.New("account_not_found")
	ErrAssetAlreadyExists   = errors.New("asset_already_exists")
	ErrAssetNotFound        = errors.New("asset_not_found")
	ErrNotOwner             = errors.New("not_owner")
	ErrNotForSale           = errors.New("not_for_sale")
	ErrListingExists        = errors.New("listing_already_exists")
	ErrOfferNotFound        = errors.New("offer_not_found")
	ErrOfferExpired         = errors.New("offer_expired")
	ErrAuctionExists        = errors.New("auction_already_exists")
	ErrAuctionNotFound      = errors.New("auction_not_found")
	ErrAuctionActive        = errors.New("auction_active")
	ErrAuctionEnded         = errors.New("auction_ended")
	ErrSelfPurchase         = errors.New("self_purchase")
	ErrInvalidPrice         = errors.New("invalid_price")
	ErrInsufficientFunds    = errors.New("insufficient_funds")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrWebhookNotFound      = errors.New("webhook_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
