package httpapi

import (
	"net/http"

	"click-collectible-service/internal/ports/inbound"
)

func (h *handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req inbound.SendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.SenderID = h.caller(r).ID

	m, err := h.messages.SendMessage(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *handlers) listConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.messages.ListConversations(r.Context(), h.caller(r).ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

func (h *handlers) listThread(w http.ResponseWriter, r *http.Request) {
	counterpartID, err := pathID(r, "counterpart")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	thread, err := h.messages.ListThread(r.Context(), h.caller(r).ID, counterpartID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (h *handlers) markMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.messages.MarkRead(r.Context(), h.caller(r).ID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.notifications.ListNotifications(r.Context(), h.caller(r).ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *handlers) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.notifications.MarkRead(r.Context(), h.caller(r).ID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *handlers) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkAllRead(r.Context(), h.caller(r).ID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
