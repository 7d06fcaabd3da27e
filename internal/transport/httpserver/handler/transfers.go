package handler

import (
	"net/http"
	"strings"
)

type scheduleHandoverRequest struct {
	ScheduledAt string `json:"scheduled_at,omitempty"`
	Location    string `json:"location,omitempty"`
}

type confirmReceiptRequest struct {
	ConditionConfirmed *bool `json:"condition_confirmed"`
}

func (h *Handlers) GetTransfer(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	transferID, err := parseUUIDParam(r, "transfer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	found, err := h.Transfers.GetRequest(r.Context(), transferID)
	if err != nil {
		h.domainError(w, "transfers.get", err, "transfer_id", transferID)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// ConfirmTransfer moves the pending transfer to confirmed and opens its
// handover record.
func (h *Handlers) ConfirmTransfer(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	transferID, err := parseUUIDParam(r, "transfer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	handover, err := h.Transfers.Confirm(r.Context(), transferID, user)
	if err != nil {
		h.domainError(w, "transfers.confirm", err, "transfer_id", transferID, "user_id", user)
		return
	}
	writeJSON(w, http.StatusOK, handover)
}

func (h *Handlers) RejectTransfer(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	transferID, err := parseUUIDParam(r, "transfer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Transfers.RejectRequest(r.Context(), transferID, user); err != nil {
		h.domainError(w, "transfers.reject", err, "transfer_id", transferID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CancelTransfer(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	transferID, err := parseUUIDParam(r, "transfer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Transfers.CancelRequest(r.Context(), transferID, user); err != nil {
		h.domainError(w, "transfers.cancel", err, "transfer_id", transferID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ScheduleHandover(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	transferID, err := parseUUIDParam(r, "transfer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req scheduleHandoverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	scheduledAt, err := parseTimeField(req.ScheduledAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid scheduled_at")
		return
	}

	created, err := h.Transfers.ScheduleHandover(r.Context(), transferID, user, scheduledAt, strings.TrimSpace(req.Location))
	if err != nil {
		h.domainError(w, "handovers.schedule", err, "transfer_id", transferID, "user_id", user)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) ListHandovers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	transferID, err := parseUUIDParam(r, "transfer_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.Transfers.ListHandovers(r.Context(), transferID)
	if err != nil {
		h.domainError(w, "handovers.list", err, "transfer_id", transferID)
		return
	}
	writeList(w, items, len(items))
}

func (h *Handlers) GetHandover(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	handoverID, err := parseUUIDParam(r, "handover_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	found, err := h.Transfers.GetHandover(r.Context(), handoverID)
	if err != nil {
		h.domainError(w, "handovers.get", err, "handover_id", handoverID)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *Handlers) RescheduleHandover(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	handoverID, err := parseUUIDParam(r, "handover_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req scheduleHandoverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	scheduledAt, err := parseTimeField(req.ScheduledAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid scheduled_at")
		return
	}

	if err := h.Transfers.RescheduleHandover(r.Context(), handoverID, user, scheduledAt, strings.TrimSpace(req.Location)); err != nil {
		h.domainError(w, "handovers.reschedule", err, "handover_id", handoverID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// InitiateHandover is the giving side's half of the exchange.
func (h *Handlers) InitiateHandover(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	handoverID, err := parseUUIDParam(r, "handover_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Transfers.InitiateHandover(r.Context(), handoverID, user); err != nil {
		h.domainError(w, "handovers.initiate", err, "handover_id", handoverID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmReceipt is the receiving side's half. Confirming with
// condition_confirmed=true completes the handover and moves custody;
// false disputes it.
func (h *Handlers) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	handoverID, err := parseUUIDParam(r, "handover_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req confirmReceiptRequest
	if err := decodeJSON(r, &req); err != nil || req.ConditionConfirmed == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "condition_confirmed is required")
		return
	}

	updated, err := h.Transfers.ConfirmReceipt(r.Context(), handoverID, user, *req.ConditionConfirmed)
	if err != nil {
		h.domainError(w, "handovers.confirm", err, "handover_id", handoverID, "user_id", user)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) CancelHandover(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	handoverID, err := parseUUIDParam(r, "handover_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Transfers.CancelHandover(r.Context(), handoverID, user); err != nil {
		h.domainError(w, "handovers.cancel", err, "handover_id", handoverID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
