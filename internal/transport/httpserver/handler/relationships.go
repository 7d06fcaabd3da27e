package handler

import (
	"net/http"
	"strings"
	"time"

	relationshipdomain "pet-custody-go/internal/domain/relationship"

	"github.com/go-chi/chi/v5"
)

type leaveRelationshipRequest struct {
	RelationshipType string `json:"relationship_type"`
}

func (h *Handlers) ListPetRelationships(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	petID, err := parseUUIDParam(r, "pet_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.Relationships.ListActiveByPet(r.Context(), petID)
	if err != nil {
		h.domainError(w, "relationships.list_by_pet", err, "pet_id", petID)
		return
	}
	writeList(w, items, len(items))
}

func (h *Handlers) ListMyRelationships(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.Relationships.ListActiveByUser(r.Context(), user)
	if err != nil {
		h.domainError(w, "relationships.list_mine", err, "user_id", user)
		return
	}
	writeList(w, items, len(items))
}

// RevokeRelationship ends another user's active relationship. Only an
// active owner of the pet may do this; self-removal goes through
// LeaveRelationship instead.
func (h *Handlers) RevokeRelationship(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	petID, err := parseUUIDParam(r, "pet_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	targetID, err := parseUUIDParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	relType := relationshipdomain.Type(strings.TrimSpace(chi.URLParam(r, "type")))
	if !relType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_relationship_type", "unknown relationship type")
		return
	}

	if targetID != user {
		isOwner, err := h.Relationships.HasActive(r.Context(), petID, user, relationshipdomain.TypeOwner)
		if err != nil {
			h.domainError(w, "relationships.revoke", err, "pet_id", petID, "user_id", user)
			return
		}
		if !isOwner {
			writeError(w, http.StatusForbidden, "not_owner", "only an owner may revoke relationships")
			return
		}
	}

	if err := h.Relationships.Revoke(r.Context(), petID, targetID, relType, time.Now().UTC(), user); err != nil {
		h.domainError(w, "relationships.revoke", err, "pet_id", petID, "target_user_id", targetID, "relationship_type", relType)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LeaveRelationship ends the caller's own relationship with the pet. The
// last active owner cannot leave.
func (h *Handlers) LeaveRelationship(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	petID, err := parseUUIDParam(r, "pet_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req leaveRelationshipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	relType := relationshipdomain.Type(strings.TrimSpace(req.RelationshipType))
	if !relType.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_relationship_type", "unknown relationship type")
		return
	}

	if err := h.Relationships.Revoke(r.Context(), petID, user, relType, time.Now().UTC(), user); err != nil {
		h.domainError(w, "relationships.leave", err, "pet_id", petID, "user_id", user, "relationship_type", relType)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
