package httpapi

import (
	"net/http"

	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/inbound"
	"click-collectible-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// handlers groups the request handlers and the services they dispatch to.
type handlers struct {
	users         inbound.UserService
	collections   inbound.CollectionService
	items         inbound.ItemService
	wishlists     inbound.WishlistService
	messages      inbound.MessageService
	notifications inbound.NotificationService
	market        inbound.MarketService
	reports       inbound.ReportService
	importExport  inbound.ImportExportService
	storage       outbound.ObjectStorage
	imageSearcher outbound.ImageSearcher
	logger        zerolog.Logger
}

// caller returns the authenticated account; the auth middleware guarantees
// it is present on every /api request.
func (h *handlers) caller(r *http.Request) *shared.User {
	user, _ := UserFromContext(r.Context())
	return user
}

// pathID parses a UUID path segment.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, shared.ErrInvalidIDFormat
	}
	return id, nil
}
