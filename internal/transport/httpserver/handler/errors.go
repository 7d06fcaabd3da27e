package handler

import (
	"errors"
	"net/http"

	invitationdomain "pet-custody-go/internal/domain/invitation"
	petdomain "pet-custody-go/internal/domain/pet"
	placementdomain "pet-custody-go/internal/domain/placement"
	relationshipdomain "pet-custody-go/internal/domain/relationship"
	responsedomain "pet-custody-go/internal/domain/response"
	transferdomain "pet-custody-go/internal/domain/transfer"
)

type errorMapping struct {
	sentinel error
	status   int
	code     string
}

// Domain sentinels and their HTTP shape. 404 for missing rows, 409 for
// state conflicts, 410 for expiry, 422 for rule violations on otherwise
// valid input, 403 for permission checks.
var errorMappings = []errorMapping{
	{relationshipdomain.ErrPetNotFound, http.StatusNotFound, "pet_not_found"},
	{relationshipdomain.ErrRelationshipNotFound, http.StatusNotFound, "relationship_not_found"},
	{relationshipdomain.ErrRelationshipExists, http.StatusConflict, "relationship_exists"},
	{relationshipdomain.ErrLastOwner, http.StatusUnprocessableEntity, "last_owner"},
	{relationshipdomain.ErrInvalidType, http.StatusBadRequest, "invalid_relationship_type"},

	{petdomain.ErrPetNotFound, http.StatusNotFound, "pet_not_found"},
	{petdomain.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{petdomain.ErrPetArchived, http.StatusConflict, "pet_archived"},

	{invitationdomain.ErrInvitationNotFound, http.StatusNotFound, "invitation_not_found"},
	{invitationdomain.ErrInvitationExpired, http.StatusGone, "invitation_expired"},
	{invitationdomain.ErrInvitationResolved, http.StatusConflict, "invitation_resolved"},
	{invitationdomain.ErrTypeNotInvitable, http.StatusBadRequest, "type_not_invitable"},
	{invitationdomain.ErrInviteForbidden, http.StatusForbidden, "invite_forbidden"},

	{placementdomain.ErrRequestNotFound, http.StatusNotFound, "placement_request_not_found"},
	{placementdomain.ErrRequestClosed, http.StatusConflict, "placement_request_closed"},
	{placementdomain.ErrRequestExpired, http.StatusGone, "placement_request_expired"},
	{placementdomain.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{placementdomain.ErrInvalidRequestType, http.StatusBadRequest, "invalid_request_type"},

	{responsedomain.ErrResponseNotFound, http.StatusNotFound, "response_not_found"},
	{responsedomain.ErrResponseOutstanding, http.StatusConflict, "response_outstanding"},
	{responsedomain.ErrResponseAlreadyAccepted, http.StatusConflict, "response_already_accepted"},
	{responsedomain.ErrResponseResolved, http.StatusConflict, "response_resolved"},
	{responsedomain.ErrNotRequestOwner, http.StatusForbidden, "not_request_owner"},
	{responsedomain.ErrNotHelper, http.StatusForbidden, "not_helper"},
	{responsedomain.ErrOwnRequest, http.StatusUnprocessableEntity, "own_request"},

	{transferdomain.ErrTransferNotFound, http.StatusNotFound, "transfer_not_found"},
	{transferdomain.ErrTransferPendingExists, http.StatusConflict, "transfer_pending_exists"},
	{transferdomain.ErrTransferExpired, http.StatusGone, "transfer_expired"},
	{transferdomain.ErrTransferResolved, http.StatusConflict, "transfer_resolved"},
	{transferdomain.ErrTransferNotConfirmed, http.StatusConflict, "transfer_not_confirmed"},
	{transferdomain.ErrHandoverNotFound, http.StatusNotFound, "handover_not_found"},
	{transferdomain.ErrHandoverActive, http.StatusConflict, "handover_active"},
	{transferdomain.ErrHandoverResolved, http.StatusConflict, "handover_resolved"},
	{transferdomain.ErrNotParticipant, http.StatusForbidden, "not_participant"},
}

// domainError writes the mapped response for known domain errors and a 500
// for everything else, logging each under the operation label.
func (h *Handlers) domainError(w http.ResponseWriter, op string, err error, fields ...any) {
	for _, m := range errorMappings {
		if errors.Is(err, m.sentinel) {
			h.log.BusinessError(op+": "+m.code, err, fields...)
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	h.log.InternalError(op+": failed", err, fields...)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
