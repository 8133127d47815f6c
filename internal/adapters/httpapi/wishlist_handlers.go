package httpapi

import (
	"net/http"

	"click-collectible-service/internal/ports/inbound"
)

func (h *handlers) createWishlistItem(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateWishlistItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.OwnerID = h.caller(r).ID

	item, err := h.wishlists.CreateWishlistItem(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *handlers) listWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlists.ListWishlist(r.Context(), h.caller(r).ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) updateWishlistItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req inbound.UpdateWishlistItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.CallerID = h.caller(r).ID
	req.WishlistItemID = id

	item, err := h.wishlists.UpdateWishlistItem(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *handlers) deleteWishlistItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.wishlists.DeleteWishlistItem(r.Context(), h.caller(r).ID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handlers) listWishlistMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.wishlists.ListMatches(r.Context(), h.caller(r).ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
