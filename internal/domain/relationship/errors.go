package relationship

import "errors"

var (
	ErrPetNotFound          = errors.New("pet not found")
	ErrRelationshipExists   = errors.New("active relationship already exists")
	ErrRelationshipNotFound = errors.New("active relationship not found")
	ErrLastOwner            = errors.New("pet must keep at least one owner")
	ErrInvalidType          = errors.New("invalid relationship type")
)
