package sweep

import (
	"context"
	"time"

	"pet-custody-go/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type InvitationExpirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

type PlacementExpirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

type TransferExpirer interface {
	ExpireOverdueRequests(ctx context.Context) (int64, error)
}

// Result counts the rows each pass flipped to expired.
type Result struct {
	Invitations       int64 `json:"invitations"`
	PlacementRequests int64 `json:"placement_requests"`
	TransferRequests  int64 `json:"transfer_requests"`
}

// Sweeper moves overdue pending rows to their expired status. Every read
// path already treats an overdue row as expired, so the sweep only keeps
// the stored statuses honest; it is safe to run it never, once, or from
// several processes at the same time.
type Sweeper struct {
	invitations InvitationExpirer
	placements  PlacementExpirer
	transfers   TransferExpirer
	log         logger.Logger
}

func New(invitations InvitationExpirer, placements PlacementExpirer, transfers TransferExpirer, log logger.Logger) *Sweeper {
	return &Sweeper{
		invitations: invitations,
		placements:  placements,
		transfers:   transfers,
		log:         log,
	}
}

func (s *Sweeper) RunOnce(ctx context.Context) (Result, error) {
	var result Result
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.invitations.ExpireOverdue(ctx)
		result.Invitations = n
		return err
	})
	g.Go(func() error {
		n, err := s.placements.ExpireOverdue(ctx)
		result.PlacementRequests = n
		return err
	})
	g.Go(func() error {
		n, err := s.transfers.ExpireOverdueRequests(ctx)
		result.TransferRequests = n
		return err
	})

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// Run sweeps on the given interval until the context is canceled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := s.RunOnce(ctx)
			if err != nil {
				s.log.InternalError("sweep: pass failed", err)
				continue
			}
			if result.Invitations+result.PlacementRequests+result.TransferRequests > 0 {
				s.log.Info("sweep: expired overdue rows",
					"invitations", result.Invitations,
					"placement_requests", result.PlacementRequests,
					"transfer_requests", result.TransferRequests)
			}
		}
	}
}
