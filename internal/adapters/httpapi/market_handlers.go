package httpapi

import (
	"fmt"
	"net/http"

	"click-collectible-service/internal/ports/inbound"
)

func (h *handlers) listForSale(w http.ResponseWriter, r *http.Request) {
	items, err := h.market.ListForSale(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *handlers) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.BuyerID = h.caller(r).ID

	tx, err := h.market.CreateTransaction(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *handlers) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.market.ListTransactions(r.Context(), h.caller(r).ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

func (h *handlers) leaveFeedback(w http.ResponseWriter, r *http.Request) {
	var req inbound.LeaveFeedbackRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.RaterID = h.caller(r).ID

	fb, err := h.market.LeaveFeedback(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

func (h *handlers) listUserFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	feedback, err := h.market.ListFeedbackForUser(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

func (h *handlers) listAdvertisements(w http.ResponseWriter, r *http.Request) {
	ads, err := h.market.ListAdvertisements(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ads)
}

func (h *handlers) generateReport(w http.ResponseWriter, r *http.Request) {
	var req inbound.GenerateReportRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.CallerID = h.caller(r).ID

	rendered, err := h.reports.GenerateReport(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", rendered.ContentType)
	if rendered.ContentType != "application/json" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rendered.Filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendered.Body)
}
