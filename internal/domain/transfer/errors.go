package transfer

import "errors"

var (
	ErrTransferNotFound      = errors.New("transfer request not found")
	ErrTransferPendingExists = errors.New("pending transfer request already exists")
	ErrTransferExpired       = errors.New("transfer request expired")
	ErrTransferResolved      = errors.New("transfer request already resolved")
	ErrTransferNotConfirmed  = errors.New("transfer request not confirmed")
	ErrHandoverNotFound      = errors.New("handover not found")
	ErrHandoverActive        = errors.New("an open handover already exists for this transfer")
	ErrHandoverResolved      = errors.New("handover already resolved")
	ErrNotParticipant        = errors.New("not a participant in this transfer")
)
