package handler

import (
	"net/http"
	"strings"

	placementdomain "pet-custody-go/internal/domain/placement"
)

type createPlacementRequest struct {
	RequestType string `json:"request_type"`
	Notes       string `json:"notes,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

func (h *Handlers) CreatePlacementRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	petID, err := parseUUIDParam(r, "pet_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req createPlacementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	expiresAt, err := parseTimeField(req.ExpiresAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid expires_at")
		return
	}
	startDate, err := parseTimeField(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start_date")
		return
	}
	endDate, err := parseTimeField(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid end_date")
		return
	}

	in := placementdomain.CreateInput{
		PetID:       petID,
		OwnerID:     user,
		RequestType: placementdomain.RequestType(strings.TrimSpace(req.RequestType)),
		Notes:       strings.TrimSpace(req.Notes),
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if expiresAt != nil {
		in.ExpiresAt = *expiresAt
	}

	created, err := h.Placements.Create(r.Context(), in)
	if err != nil {
		h.domainError(w, "placements.create", err, "pet_id", petID, "user_id", user)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) GetPlacementRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	requestID, err := parseUUIDParam(r, "request_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	found, err := h.Placements.Get(r.Context(), requestID)
	if err != nil {
		h.domainError(w, "placements.get", err, "request_id", requestID)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *Handlers) ListMyPlacementRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.Placements.ListByUser(r.Context(), user)
	if err != nil {
		h.domainError(w, "placements.list_mine", err, "user_id", user)
		return
	}
	writeList(w, items, len(items))
}

func (h *Handlers) ListPetPlacementRequests(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	petID, err := parseUUIDParam(r, "pet_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.Placements.ListByPet(r.Context(), petID)
	if err != nil {
		h.domainError(w, "placements.list_by_pet", err, "pet_id", petID)
		return
	}
	writeList(w, items, len(items))
}

func (h *Handlers) CancelPlacementRequest(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	requestID, err := parseUUIDParam(r, "request_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Placements.Cancel(r.Context(), requestID, user); err != nil {
		h.domainError(w, "placements.cancel", err, "request_id", requestID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
