package placement

import "errors"

var (
	ErrRequestNotFound    = errors.New("placement request not found")
	ErrRequestClosed      = errors.New("placement request already resolved")
	ErrRequestExpired     = errors.New("placement request expired")
	ErrNotOwner           = errors.New("not an owner of this pet")
	ErrInvalidRequestType = errors.New("invalid placement request type")
)
