package handler

import (
	"errors"
	"net/http"

	"github.com/mintbay/mintbay/internal/domain"
)

// errInvalidPagination reports malformed page/limit query parameters.
var errInvalidPagination = errors.New("page and limit must be integers")

// mapDomainError translates domain errors into HTTP responses. Every
// trading failure surfaces its specific error code so clients can tell
// "not your item" from "insufficient funds".
func mapDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
		return
	}

	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrNotForSale),
		errors.Is(err, domain.ErrOfferNotFound),
		errors.Is(err, domain.ErrAuctionNotFound),
		errors.Is(err, domain.ErrWebhookNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), err.Error())
	case errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusForbidden, err.Error(), err.Error())
	case errors.Is(err, domain.ErrInvalidPrice):
		WriteError(w, http.StatusBadRequest, err.Error(), err.Error())
	case errors.Is(err, domain.ErrAccountAlreadyExists),
		errors.Is(err, domain.ErrAssetAlreadyExists),
		errors.Is(err, domain.ErrListingExists),
		errors.Is(err, domain.ErrAuctionExists),
		errors.Is(err, domain.ErrSelfPurchase),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrAuctionActive),
		errors.Is(err, domain.ErrAuctionEnded),
		errors.Is(err, domain.ErrOfferExpired):
		WriteError(w, http.StatusConflict, err.Error(), err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
