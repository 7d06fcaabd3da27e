package handler

import (
	"net/http"
	"strings"

	"pet-custody-go/internal/transport/httpserver/middleware"

	"github.com/google/uuid"
)

type createPetRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
}

func (h *Handlers) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handlers) CreatePet(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req createPetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Species = strings.TrimSpace(req.Species)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	created, err := h.Pets.Create(r.Context(), user, req.Name, req.Species)
	if err != nil {
		h.domainError(w, "pets.create", err, "user_id", user)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) GetPet(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	petID, err := parseUUIDParam(r, "pet_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	found, err := h.Pets.Get(r.Context(), petID)
	if err != nil {
		h.domainError(w, "pets.get", err, "pet_id", petID)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *Handlers) ListMyPets(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	pets, err := h.Pets.ListByUser(r.Context(), user)
	if err != nil {
		h.domainError(w, "pets.list", err, "user_id", user)
		return
	}
	writeList(w, pets, len(pets))
}

func (h *Handlers) ArchivePet(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	petID, err := parseUUIDParam(r, "pet_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Pets.Archive(r.Context(), petID, user); err != nil {
		h.domainError(w, "pets.archive", err, "pet_id", petID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
