package httpapi

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/inbound"

	"github.com/google/uuid"
)

func (h *handlers) createItem(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.CallerID = h.caller(r).ID

	it, err := h.items.CreateItem(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *handlers) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	it, err := h.items.GetItem(r.Context(), h.caller(r).ID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *handlers) listItems(w http.ResponseWriter, r *http.Request) {
	collectionID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	items, err := h.items.ListItems(r.Context(), h.caller(r).ID, collectionID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req inbound.UpdateItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.CallerID = h.caller(r).ID
	req.ItemID = id

	it, err := h.items.UpdateItem(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *handlers) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.items.DeleteItem(r.Context(), h.caller(r).ID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handlers) toggleForSale(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req inbound.ToggleForSaleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.CallerID = h.caller(r).ID
	req.ItemID = id

	it, err := h.items.ToggleForSale(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

type uploadProofBody struct {
	ItemID uuid.UUID `json:"item_id"`
	Files  []struct {
		Name        string `json:"name"`
		ContentType string `json:"content_type"`
		Data        string `json:"data"`
	} `json:"files"`
}

// uploadProofOfPurchase decodes base64 file payloads, stores them under the
// item's prefix in the object bucket and appends the public URLs to the
// item's proof list. The caller must own the item before anything is
// written to the bucket.
func (h *handlers) uploadProofOfPurchase(w http.ResponseWriter, r *http.Request) {
	var body uploadProofBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if body.ItemID == uuid.Nil || len(body.Files) == 0 {
		writeError(w, h.logger, shared.ErrInvalidRequest)
		return
	}

	caller := h.caller(r)
	owned, err := h.items.GetItem(r.Context(), caller.ID, body.ItemID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if owned.OwnerID != caller.ID {
		writeError(w, h.logger, shared.ErrForbidden)
		return
	}

	urls := make([]string, 0, len(body.Files))
	for _, file := range body.Files {
		data, err := base64.StdEncoding.DecodeString(file.Data)
		if err != nil {
			writeError(w, h.logger, shared.ErrInvalidRequest)
			return
		}

		name := strings.ReplaceAll(file.Name, "/", "-")
		path := fmt.Sprintf("proof/%s/%s-%s", body.ItemID, uuid.New().String()[:8], name)
		url, err := h.storage.Upload(r.Context(), path, data, file.ContentType)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		urls = append(urls, url)
	}

	it, err := h.items.AttachProofOfPurchase(r.Context(), caller.ID, body.ItemID, urls)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

type imageSearchBody struct {
	Query string `json:"query"`
}

func (h *handlers) imageSearch(w http.ResponseWriter, r *http.Request) {
	var body imageSearchBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if strings.TrimSpace(body.Query) == "" {
		writeError(w, h.logger, shared.ErrInvalidRequest)
		return
	}

	results, err := h.imageSearcher.Search(r.Context(), body.Query)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
