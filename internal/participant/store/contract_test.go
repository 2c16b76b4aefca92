package store_test

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/suite"

	"golfbot/internal/participant/models"
	"golfbot/internal/sentinel"
	id "golfbot/pkg/domain"
	"golfbot/pkg/testutil"
)

type participantStore interface {
	Create(ctx context.Context, p *models.Participant) error
	FindAll(ctx context.Context) ([]*models.Participant, error)
	FindByID(ctx context.Context, participantID id.ParticipantID) (*models.Participant, error)
	UpdateByID(ctx context.Context, participantID id.ParticipantID, patch models.Patch) (*models.Participant, error)
	DeleteByID(ctx context.Context, participantID id.ParticipantID) error
	Ping(ctx context.Context) error
}

// StoreContractSuite holds the behaviour every backend must share.
// Backend suites embed it and set store in SetupTest.
type StoreContractSuite struct {
	suite.Suite
	store participantStore
}

func (s *StoreContractSuite) create(name string, scores ...int) *models.Participant {
	p, err := models.NewParticipant(name)
	s.Require().NoError(err)
	if len(scores) > 0 {
		p.Scores = scores
	}
	s.Require().NoError(s.store.Create(context.Background(), p))
	return p
}

func (s *StoreContractSuite) TestCreateAssignsID() {
	p := s.create("ann")

	s.False(p.ID.IsNil())
	found, err := s.store.FindByID(context.Background(), p.ID)
	s.Require().NoError(err)
	s.Equal("ann", found.Name)
	s.Equal([]int{}, found.Scores)
}

func (s *StoreContractSuite) TestCreateAssignsDistinctIDs() {
	a := s.create("ann")
	b := s.create("ann")
	s.NotEqual(a.ID, b.ID)
}

func (s *StoreContractSuite) TestFindAllEmpty() {
	all, err := s.store.FindAll(context.Background())
	s.Require().NoError(err)
	s.NotNil(all)
	s.Empty(all)
}

func (s *StoreContractSuite) TestFindAllKeepsInsertionOrder() {
	names := []string{"c", "a", "b", "d"}
	for _, n := range names {
		s.create(n)
	}

	all, err := s.store.FindAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(all, len(names))
	for i, p := range all {
		s.Equal(names[i], p.Name)
	}
}

func (s *StoreContractSuite) TestFindByIDMissing() {
	_, err := s.store.FindByID(context.Background(), id.NewParticipantID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreContractSuite) TestUpdatePreservesAbsentFields() {
	ctx := context.Background()
	p := s.create("ann", 1, 2)

	var patch models.Patch
	patch.SetName("bob")
	updated, err := s.store.UpdateByID(ctx, p.ID, patch)
	s.Require().NoError(err)
	s.Equal("bob", updated.Name)
	s.Equal([]int{1, 2}, updated.Scores)

	patch = models.Patch{}
	patch.SetScores([]int{9})
	updated, err = s.store.UpdateByID(ctx, p.ID, patch)
	s.Require().NoError(err)
	s.Equal("bob", updated.Name)
	s.Equal([]int{9}, updated.Scores)

	found, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(updated, found)
}

func (s *StoreContractSuite) TestUpdateEmptyPatchIsNoop() {
	p := s.create("ann", 4)

	updated, err := s.store.UpdateByID(context.Background(), p.ID, models.Patch{})
	s.Require().NoError(err)
	s.Equal("ann", updated.Name)
	s.Equal([]int{4}, updated.Scores)
}

func (s *StoreContractSuite) TestUpdateCanClearScores() {
	p := s.create("ann", 4, 5)

	var patch models.Patch
	patch.SetScores([]int{})
	updated, err := s.store.UpdateByID(context.Background(), p.ID, patch)
	s.Require().NoError(err)
	s.Equal([]int{}, updated.Scores)
}

func (s *StoreContractSuite) TestUpdateMissing() {
	var patch models.Patch
	patch.SetName("x")
	_, err := s.store.UpdateByID(context.Background(), id.NewParticipantID(), patch)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreContractSuite) TestDeleteRemovesFromListAndLookup() {
	ctx := context.Background()
	a := s.create("a")
	b := s.create("b")

	s.Require().NoError(s.store.DeleteByID(ctx, a.ID))

	_, err := s.store.FindByID(ctx, a.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	all, err := s.store.FindAll(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(b.ID, all[0].ID)
}

func (s *StoreContractSuite) TestDeleteMissingIsNotAnError() {
	s.NoError(s.store.DeleteByID(context.Background(), id.NewParticipantID()))
}

func (s *StoreContractSuite) TestConcurrentUpdatesAllLand() {
	ctx := context.Background()
	p := s.create("ann")

	const writers = 20
	result := testutil.RunConcurrentCtx(ctx, writers, func(ctx context.Context, n int) error {
		var patch models.Patch
		patch.SetScores([]int{n})
		_, err := s.store.UpdateByID(ctx, p.ID, patch)
		return err
	})
	s.Equal(int32(writers), result.Successes)

	found, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("ann", found.Name)
	s.Len(found.Scores, 1)
}

func (s *StoreContractSuite) TestConcurrentCreatesAreAllListed() {
	ctx := context.Background()

	const writers = 10
	result := testutil.RunConcurrentCtx(ctx, writers, func(ctx context.Context, n int) error {
		p, err := models.NewParticipant(fmt.Sprintf("player-%d", n))
		if err != nil {
			return err
		}
		return s.store.Create(ctx, p)
	})
	s.Equal(int32(writers), result.Successes)

	all, err := s.store.FindAll(ctx)
	s.Require().NoError(err)
	s.Len(all, writers)
}

func (s *StoreContractSuite) TestPing() {
	s.NoError(s.store.Ping(context.Background()))
}
