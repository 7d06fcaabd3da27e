package response

import (
	"context"
	"testing"
	"time"

	"pet-custody-go/internal/db"
	"pet-custody-go/internal/domain/placement"
	"pet-custody-go/internal/domain/relationship"
	"pet-custody-go/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponseRepo struct {
	rows map[uuid.UUID]*Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{rows: make(map[uuid.UUID]*Response)}
}

// Transaction restores the row snapshot when the unit fails, mirroring the
// postgres rollback.
func (r *fakeResponseRepo) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithCommitHooks(ctx, func(ctx context.Context) error {
		snap := make(map[uuid.UUID]*Response, len(r.rows))
		for id, resp := range r.rows {
			copied := *resp
			snap[id] = &copied
		}
		if err := fn(ctx); err != nil {
			r.rows = snap
			return err
		}
		return nil
	})
}

func (r *fakeResponseRepo) Create(ctx context.Context, resp *Response) error {
	r.rows[resp.ID] = resp
	return nil
}

func (r *fakeResponseRepo) GetByID(ctx context.Context, id uuid.UUID) (*Response, error) {
	resp, ok := r.rows[id]
	if !ok {
		return nil, ErrResponseNotFound
	}
	copied := *resp
	return &copied, nil
}

func (r *fakeResponseRepo) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]Response, error) {
	result := make([]Response, 0)
	for _, resp := range r.rows {
		if resp.PlacementRequestID == requestID {
			result = append(result, *resp)
		}
	}
	return result, nil
}

func (r *fakeResponseRepo) HasOutstanding(ctx context.Context, requestID, helperID uuid.UUID) (bool, error) {
	for _, resp := range r.rows {
		if resp.PlacementRequestID == requestID && resp.HelperUserID == helperID && resp.Status == StatusResponded {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeResponseRepo) HasAccepted(ctx context.Context, requestID uuid.UUID) (bool, error) {
	for _, resp := range r.rows {
		if resp.PlacementRequestID == requestID && resp.Status == StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeResponseRepo) Resolve(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) (bool, error) {
	resp, ok := r.rows[id]
	if !ok || resp.Status != from {
		return false, nil
	}
	resp.Status = to
	switch to {
	case StatusAccepted:
		resp.AcceptedAt = &at
	case StatusRejected:
		resp.RejectedAt = &at
	case StatusCancelled:
		resp.CancelledAt = &at
	}
	return true, nil
}

type fakePlacements struct {
	requests map[uuid.UUID]*placement.Request
}

func newFakePlacements() *fakePlacements {
	return &fakePlacements{requests: make(map[uuid.UUID]*placement.Request)}
}

func (p *fakePlacements) addOpen(owner uuid.UUID, reqType placement.RequestType) *placement.Request {
	req := &placement.Request{
		ID:          uuid.New(),
		PetID:       uuid.New(),
		UserID:      owner,
		RequestType: reqType,
		Status:      placement.StatusOpen,
		ExpiresAt:   time.Now().UTC().Add(24 * time.Hour),
	}
	p.requests[req.ID] = req
	return req
}

func (p *fakePlacements) Get(ctx context.Context, id uuid.UUID) (*placement.Request, error) {
	req, ok := p.requests[id]
	if !ok {
		return nil, placement.ErrRequestNotFound
	}
	return req, nil
}

func (p *fakePlacements) GetOpen(ctx context.Context, id uuid.UUID) (*placement.Request, error) {
	req, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != placement.StatusOpen {
		return nil, placement.ErrRequestClosed
	}
	if time.Now().UTC().After(req.ExpiresAt) {
		return nil, placement.ErrRequestExpired
	}
	return req, nil
}

type fakeStarter struct {
	started []startCall
	fail    error
}

type startCall struct {
	placementRequestID uuid.UUID
	responseID         uuid.UUID
	fromUserID         uuid.UUID
	toUserID           uuid.UUID
	relType            relationship.Type
}

func (s *fakeStarter) Start(ctx context.Context, placementRequestID, responseID, fromUserID, toUserID uuid.UUID, relType relationship.Type) (uuid.UUID, error) {
	if s.fail != nil {
		return uuid.Nil, s.fail
	}
	s.started = append(s.started, startCall{placementRequestID, responseID, fromUserID, toUserID, relType})
	return uuid.New(), nil
}

func TestRespondSuccess(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	owner := uuid.New()
	helper := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeSitting)

	svc := NewService(repo, placements, &fakeStarter{}, nil)
	resp, err := svc.Respond(context.Background(), req.ID, helper, " happy to help ")
	require.NoError(t, err)
	assert.Equal(t, StatusResponded, resp.Status)
	assert.Equal(t, "happy to help", resp.Message)
	assert.Equal(t, helper, resp.HelperUserID)
}

func TestRespondToOwnRequest(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	owner := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeAdoption)

	svc := NewService(repo, placements, &fakeStarter{}, nil)
	_, err := svc.Respond(context.Background(), req.ID, owner, "")
	assert.ErrorIs(t, err, ErrOwnRequest)
}

func TestRespondTwiceConflicts(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	owner := uuid.New()
	helper := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeFostering)

	svc := NewService(repo, placements, &fakeStarter{}, nil)
	_, err := svc.Respond(context.Background(), req.ID, helper, "first")
	require.NoError(t, err)

	_, err = svc.Respond(context.Background(), req.ID, helper, "second")
	assert.ErrorIs(t, err, ErrResponseOutstanding)
}

func TestRespondAfterCancelAllowedAgain(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	owner := uuid.New()
	helper := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeSitting)

	svc := NewService(repo, placements, &fakeStarter{}, nil)
	first, err := svc.Respond(context.Background(), req.ID, helper, "")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), first.ID, helper))

	_, err = svc.Respond(context.Background(), req.ID, helper, "again")
	assert.NoError(t, err)
}

func TestRespondClosedRequest(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	owner := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeAdoption)
	req.Status = placement.StatusCancelled

	svc := NewService(repo, placements, &fakeStarter{}, nil)
	_, err := svc.Respond(context.Background(), req.ID, uuid.New(), "")
	assert.ErrorIs(t, err, placement.ErrRequestClosed)
}

func TestAcceptStartsTransfer(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	starter := &fakeStarter{}
	owner := uuid.New()
	helper := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeAdoption)

	recorder := events.NewRecorder()
	svc := NewService(repo, placements, starter, recorder)

	resp, err := svc.Respond(context.Background(), req.ID, helper, "")
	require.NoError(t, err)

	accepted, err := svc.Accept(context.Background(), resp.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)

	require.Len(t, starter.started, 1)
	call := starter.started[0]
	assert.Equal(t, req.ID, call.placementRequestID)
	assert.Equal(t, resp.ID, call.responseID)
	assert.Equal(t, owner, call.fromUserID)
	assert.Equal(t, helper, call.toUserID)
	assert.Equal(t, relationship.TypeOwner, call.relType)

	assert.Equal(t, []string{events.ResponseAccepted}, recorder.Names())
}

func TestAcceptMapsRequestTypeToRelationship(t *testing.T) {
	cases := map[placement.RequestType]relationship.Type{
		placement.RequestTypeAdoption:  relationship.TypeOwner,
		placement.RequestTypeFostering: relationship.TypeFoster,
		placement.RequestTypeSitting:   relationship.TypeSitter,
	}
	for reqType, relType := range cases {
		repo := newFakeResponseRepo()
		placements := newFakePlacements()
		starter := &fakeStarter{}
		owner := uuid.New()
		req := placements.addOpen(owner, reqType)

		svc := NewService(repo, placements, starter, nil)
		resp, err := svc.Respond(context.Background(), req.ID, uuid.New(), "")
		require.NoError(t, err)
		_, err = svc.Accept(context.Background(), resp.ID, owner)
		require.NoError(t, err)
		require.Len(t, starter.started, 1)
		assert.Equal(t, relType, starter.started[0].relType, "request type %s", reqType)
	}
}

func TestAcceptOnlyRequestOwner(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	owner := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeSitting)

	svc := NewService(repo, placements, &fakeStarter{}, nil)
	resp, err := svc.Respond(context.Background(), req.ID, uuid.New(), "")
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), resp.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotRequestOwner)
}

func TestAcceptSecondResponseConflicts(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	owner := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeFostering)

	svc := NewService(repo, placements, &fakeStarter{}, nil)
	first, err := svc.Respond(context.Background(), req.ID, uuid.New(), "")
	require.NoError(t, err)
	second, err := svc.Respond(context.Background(), req.ID, uuid.New(), "")
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), first.ID, owner)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), second.ID, owner)
	assert.ErrorIs(t, err, ErrResponseAlreadyAccepted)
}

func TestAcceptRollsBackWhenTransferFails(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	starter := &fakeStarter{fail: context.DeadlineExceeded}
	owner := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeAdoption)

	svc := NewService(repo, placements, starter, nil)
	resp, err := svc.Respond(context.Background(), req.ID, uuid.New(), "")
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), resp.ID, owner)
	assert.Error(t, err)
	assert.Empty(t, starter.started)

	stored, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusResponded, stored.Status, "failed accept must leave the response open")
	assert.Nil(t, stored.AcceptedAt)
}

func TestRejectAllowedOnExpiredRequest(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	owner := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeSitting)

	svc := NewService(repo, placements, &fakeStarter{}, nil)
	resp, err := svc.Respond(context.Background(), req.ID, uuid.New(), "")
	require.NoError(t, err)

	// Request expires after the response came in; cleanup still works.
	req.ExpiresAt = time.Now().UTC().Add(-time.Hour)

	require.NoError(t, svc.Reject(context.Background(), resp.ID, owner))
	stored, err := svc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
	assert.NotNil(t, stored.RejectedAt)
}

func TestCancelOnlyHelper(t *testing.T) {
	repo := newFakeResponseRepo()
	placements := newFakePlacements()
	owner := uuid.New()
	helper := uuid.New()
	req := placements.addOpen(owner, placement.RequestTypeSitting)

	svc := NewService(repo, placements, &fakeStarter{}, nil)
	resp, err := svc.Respond(context.Background(), req.ID, helper, "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Cancel(context.Background(), resp.ID, owner), ErrNotHelper)
	assert.NoError(t, svc.Cancel(context.Background(), resp.ID, helper))
	assert.ErrorIs(t, svc.Cancel(context.Background(), resp.ID, helper), ErrResponseResolved)
}
