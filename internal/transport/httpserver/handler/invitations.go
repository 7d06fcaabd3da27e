package handler

import (
	"net/http"
	"strings"
	"time"

	relationshipdomain "pet-custody-go/internal/domain/relationship"
)

type createInvitationRequest struct {
	RelationshipType string `json:"relationship_type"`
	TTL              string `json:"ttl,omitempty"`
}

type invitationTokenRequest struct {
	Token string `json:"token"`
}

func (h *Handlers) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	petID, err := parseUUIDParam(r, "pet_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req createInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	relType := relationshipdomain.Type(strings.TrimSpace(req.RelationshipType))
	ttl, err := parseDurationField(req.TTL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid ttl")
		return
	}

	created, err := h.Invitations.Create(r.Context(), petID, user, relType, ttl)
	if err != nil {
		h.domainError(w, "invitations.create", err, "pet_id", petID, "user_id", user)
		return
	}

	// The signed token is returned once at creation and never listed again.
	writeJSON(w, http.StatusCreated, struct {
		ID               string    `json:"id"`
		PetID            string    `json:"pet_id"`
		RelationshipType string    `json:"relationship_type"`
		Status           string    `json:"status"`
		Token            string    `json:"token"`
		ExpiresAt        time.Time `json:"expires_at"`
	}{
		ID:               created.ID.String(),
		PetID:            created.PetID.String(),
		RelationshipType: string(created.RelationshipType),
		Status:           string(created.Status),
		Token:            created.Token,
		ExpiresAt:        created.ExpiresAt,
	})
}

func (h *Handlers) ListPetInvitations(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	petID, err := parseUUIDParam(r, "pet_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.Invitations.ListByPet(r.Context(), petID)
	if err != nil {
		h.domainError(w, "invitations.list", err, "pet_id", petID)
		return
	}
	writeList(w, items, len(items))
}

func (h *Handlers) RedeemInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req invitationTokenRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	redeemed, err := h.Invitations.Redeem(r.Context(), strings.TrimSpace(req.Token), user)
	if err != nil {
		h.domainError(w, "invitations.redeem", err, "user_id", user)
		return
	}
	writeJSON(w, http.StatusOK, redeemed)
}

func (h *Handlers) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}

	var req invitationTokenRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	if err := h.Invitations.Decline(r.Context(), strings.TrimSpace(req.Token)); err != nil {
		h.domainError(w, "invitations.decline", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	invitationID, err := parseUUIDParam(r, "invitation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Invitations.Revoke(r.Context(), invitationID, user); err != nil {
		h.domainError(w, "invitations.revoke", err, "invitation_id", invitationID, "user_id", user)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
