package handler

import (
	invitationdomain "pet-custody-go/internal/domain/invitation"
	petdomain "pet-custody-go/internal/domain/pet"
	placementdomain "pet-custody-go/internal/domain/placement"
	relationshipdomain "pet-custody-go/internal/domain/relationship"
	responsedomain "pet-custody-go/internal/domain/response"
	transferdomain "pet-custody-go/internal/domain/transfer"
	"pet-custody-go/internal/sweep"
	"pet-custody-go/pkg/logger"
)

type Handlers struct {
	Pets          *petdomain.Service
	Relationships *relationshipdomain.Service
	Invitations   *invitationdomain.Service
	Placements    *placementdomain.Service
	Responses     *responsedomain.Service
	Transfers     *transferdomain.Service
	Sweeper       *sweep.Sweeper

	log logger.Logger
}

func New(
	pets *petdomain.Service,
	relationships *relationshipdomain.Service,
	invitations *invitationdomain.Service,
	placements *placementdomain.Service,
	responses *responsedomain.Service,
	transfers *transferdomain.Service,
	sweeper *sweep.Sweeper,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Pets:          pets,
		Relationships: relationships,
		Invitations:   invitations,
		Placements:    placements,
		Responses:     responses,
		Transfers:     transfers,
		Sweeper:       sweeper,
		log:           log,
	}
}
