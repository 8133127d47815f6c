package httpapi

import (
	"fmt"
	"net/http"

	"click-collectible-service/internal/domain/shared"
	"click-collectible-service/internal/ports/inbound"

	"github.com/google/uuid"
)

func (h *handlers) listCollectionTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.collections.ListTypes(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *handlers) createCollectionType(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateTypeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.CallerRole = h.caller(r).Role

	typ, err := h.collections.CreateType(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, typ)
}

func (h *handlers) createCollection(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.OwnerID = h.caller(r).ID

	coll, err := h.collections.CreateCollection(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, coll)
}

func (h *handlers) listCollections(w http.ResponseWriter, r *http.Request) {
	colls, err := h.collections.ListCollections(r.Context(), h.caller(r).ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, colls)
}

func (h *handlers) getCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	coll, err := h.collections.GetCollection(r.Context(), h.caller(r).ID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, coll)
}

func (h *handlers) updateCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req inbound.UpdateCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.CallerID = h.caller(r).ID
	req.CollectionID = id

	coll, err := h.collections.UpdateCollection(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, coll)
}

func (h *handlers) deleteCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.collections.DeleteCollection(r.Context(), h.caller(r).ID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// importExportRoute serves both directions of collection transfer on one
// route: GET renders an export of the collection named by the query, POST
// ingests rows into it. Any other method is a 405.
func (h *handlers) importExportRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.exportCollection(w, r)
	case http.MethodPost:
		h.importItems(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	}
}

func (h *handlers) exportCollection(w http.ResponseWriter, r *http.Request) {
	collectionID, err := uuid.Parse(r.URL.Query().Get("collection_id"))
	if err != nil {
		writeError(w, h.logger, shared.ErrInvalidIDFormat)
		return
	}

	result, err := h.importExport.ExportCollection(r.Context(), inbound.ExportRequest{
		CallerID:     h.caller(r).ID,
		CollectionID: collectionID,
		Format:       inbound.ReportFormat(r.URL.Query().Get("format")),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentType == "text/csv" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Body)
}

type importItemsBody struct {
	CollectionID uuid.UUID        `json:"collection_id"`
	Rows         []map[string]any `json:"rows"`
}

func (h *handlers) importItems(w http.ResponseWriter, r *http.Request) {
	var body importItemsBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.importExport.ImportItems(r.Context(), inbound.ImportRequest{
		CallerID:     h.caller(r).ID,
		CollectionID: body.CollectionID,
		Rows:         body.Rows,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
