package pet

import "errors"

var (
	ErrPetNotFound = errors.New("pet not found")
	ErrNotOwner    = errors.New("not an owner of this pet")
	ErrPetArchived = errors.New("pet is not active")
)
