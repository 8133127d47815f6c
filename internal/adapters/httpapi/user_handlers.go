package httpapi

import (
	"net/http"

	"click-collectible-service/internal/ports/inbound"
)

func (h *handlers) getProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.caller(r))
}

func (h *handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	req.CallerID = h.caller(r).ID

	user, err := h.users.UpdateProfile(r.Context(), req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *handlers) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.users.SignOut(r.Context(), TokenFromContext(r.Context())); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
