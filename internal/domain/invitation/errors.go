package invitation

import "errors"

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation expired")
	ErrInvitationResolved = errors.New("invitation already resolved")
	ErrTypeNotInvitable   = errors.New("relationship type cannot be invited")
	ErrInviteForbidden    = errors.New("not allowed to manage this invitation")
)
