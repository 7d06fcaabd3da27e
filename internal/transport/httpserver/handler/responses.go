package handler

import (
	"net/http"
	"strings"
)

type respondRequest struct {
	Message string `json:"message,omitempty"`
}

func (h *Handlers) CreateResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	requestID, err := parseUUIDParam(r, "request_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req respondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	created, err := h.Responses.Respond(r.Context(), requestID, user, strings.TrimSpace(req.Message))
	if err != nil {
		h.domainError(w, "responses.create", err, "request_id", requestID, "user_id", user)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) ListResponses(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	requestID, err := parseUUIDParam(r, "request_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.Responses.ListByRequest(r.Context(), requestID)
	if err != nil {
		h.domainError(w, "responses.list", err, "request_id", requestID)
		return
	}
	writeList(w, items, len(items))
}

// AcceptResponse accepts a helper's offer and opens the transfer. The
// accepted response comes back with the transfer already started.
func (h *Handlers) AcceptResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	responseID, err := parseUUIDParam(r, "response_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	accepted, err := h.Responses.Accept(r.Context(), responseID, user)
	if err != nil {
		h.domainError(w, "responses.accept", err, "response_id", responseID, "user_id", user)
		return
	}
	writeJSON(w, http.StatusOK, accepted)
}

func (h *Handlers) RejectResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	responseID, err := parseUUIDParam(r, "response_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Responses.Reject(r.Context(), responseID, user); err != nil {
		h.domainError(w, "responses.reject", err, "response_id", responseID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CancelResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	responseID, err := parseUUIDParam(r, "response_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Responses.Cancel(r.Context(), responseID, user); err != nil {
		h.domainError(w, "responses.cancel", err, "response_id", responseID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
