package response

import "errors"

var (
	ErrResponseNotFound        = errors.New("response not found")
	ErrResponseOutstanding     = errors.New("helper already has an outstanding response")
	ErrResponseAlreadyAccepted = errors.New("another response was already accepted")
	ErrResponseResolved        = errors.New("response already resolved")
	ErrNotRequestOwner         = errors.New("not the owner of this placement request")
	ErrNotHelper               = errors.New("not the helper on this response")
	ErrOwnRequest              = errors.New("cannot respond to own placement request")
)
