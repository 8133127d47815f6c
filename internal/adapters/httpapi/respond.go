package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/httpclient"
	"click-collectible-service/internal/validation"

	"github.com/rs/zerolog"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps a service error onto an HTTP status and the uniform
// {"error": "..."} body. Unknown errors become 500 with a generic message so
// internals never leak to clients.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := statusFor(err)

	body := errorBody{Error: err.Error()}
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Request failed")
		body.Error = "internal server error"
	}

	writeJSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated),
		errors.Is(err, shared.ErrTokenMalformed),
		errors.Is(err, shared.ErrTokenInvalid):
		return http.StatusUnauthorized

	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, shared.ErrUserNotFound),
		errors.Is(err, shared.ErrCollectionNotFound),
		errors.Is(err, shared.ErrCollectionTypeNotFound),
		errors.Is(err, shared.ErrItemNotFound),
		errors.Is(err, shared.ErrWishlistItemNotFound),
		errors.Is(err, shared.ErrMatchNotFound),
		errors.Is(err, shared.ErrMessageNotFound),
		errors.Is(err, shared.ErrNotificationNotFound),
		errors.Is(err, shared.ErrTransactionNotFound),
		errors.Is(err, shared.ErrObjectNotFound):
		return http.StatusNotFound

	case errors.Is(err, shared.ErrTypeSlugTaken):
		return http.StatusConflict

	case errors.Is(err, shared.ErrInvalidRequest),
		errors.Is(err, shared.ErrInvalidIDFormat),
		errors.Is(err, shared.ErrAskingPriceRequired),
		errors.Is(err, shared.ErrAskingPriceInvalid),
		errors.Is(err, shared.ErrMissingTypeAttribute),
		errors.Is(err, shared.ErrRecipientRequired),
		errors.Is(err, shared.ErrEmptyMessageContent),
		errors.Is(err, shared.ErrInvalidRating),
		errors.Is(err, shared.ErrItemNotForSale),
		errors.Is(err, shared.ErrUnknownReportType),
		errors.Is(err, shared.ErrUnknownReportFormat):
		return http.StatusBadRequest
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}

	// Upstream provider failures keep their status.
	var serr *httpclient.StatusError
	if errors.As(err, &serr) && serr.Status >= 400 && serr.Status < 500 {
		return serr.Status
	}

	return http.StatusInternalServerError
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return shared.ErrInvalidRequest
	}
	return nil
}
