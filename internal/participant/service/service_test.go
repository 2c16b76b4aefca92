package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,EventPublisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	participantmetrics "golfbot/internal/participant/metrics"
	"golfbot/internal/participant/models"
	"golfbot/internal/participant/service/mocks"
	"golfbot/internal/sentinel"
	id "golfbot/pkg/domain"
	dErrors "golfbot/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctrl          *gomock.Controller
	mockStore     *mocks.MockStore
	mockPublisher *mocks.MockEventPublisher
	metrics       *participantmetrics.Metrics
	logs          *bytes.Buffer
	service       *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.ctrl)
	s.mockPublisher = mocks.NewMockEventPublisher(s.ctrl)
	s.metrics = participantmetrics.New(prometheus.NewRegistry())
	s.logs = &bytes.Buffer{}
	s.service = New(
		s.mockStore,
		WithLogger(slog.New(slog.NewTextHandler(s.logs, nil))),
		WithMetrics(s.metrics),
		WithPublisher(s.mockPublisher),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// =============================================================================
// Identifier parsing happens before the store is touched
// =============================================================================

func (s *ServiceSuite) TestMalformedIDNeverReachesStore() {
	for _, raw := range []string{"lol", "", "507f1f77bcf86cd799439011", "123"} {
		s.T().Run("get "+raw, func(t *testing.T) {
			_, err := s.service.Get(context.Background(), raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
		s.T().Run("update "+raw, func(t *testing.T) {
			var patch models.Patch
			patch.SetName("x")
			_, err := s.service.Update(context.Background(), raw, patch)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
		s.T().Run("delete "+raw, func(t *testing.T) {
			err := s.service.Delete(context.Background(), raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

// =============================================================================
// Create
// =============================================================================

func (s *ServiceSuite) TestCreate_AssignsIDAndEmptyScores() {
	assigned := id.NewParticipantID()
	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Participant) error {
			s.Equal("ann", p.Name)
			s.Equal([]int{}, p.Scores)
			p.ID = assigned
			return nil
		})
	s.mockPublisher.EXPECT().ParticipantCreated(gomock.Any(), gomock.Any())

	p, err := s.service.Create(context.Background(), "ann")
	s.Require().NoError(err)
	s.Equal(assigned, p.ID)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ParticipantsCreated))
}

func (s *ServiceSuite) TestCreate_EmptyNameIsValidationError() {
	_, err := s.service.Create(context.Background(), "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(float64(0), testutil.ToFloat64(s.metrics.ParticipantsCreated))
}

func (s *ServiceSuite) TestCreate_StoreFailureIsInternal() {
	s.mockStore.EXPECT().Create(gomock.Any(), gomock.Any()).Return(assert.AnError)

	_, err := s.service.Create(context.Background(), "ann")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.ErrorIs(err, assert.AnError)
}

// =============================================================================
// List
// =============================================================================

func (s *ServiceSuite) TestList_NilFromStoreBecomesEmpty() {
	s.mockStore.EXPECT().FindAll(gomock.Any()).Return(nil, nil)

	participants, err := s.service.List(context.Background())
	s.Require().NoError(err)
	s.NotNil(participants)
	s.Empty(participants)
}

func (s *ServiceSuite) TestList_StoreFailureIsInternal() {
	s.mockStore.EXPECT().FindAll(gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err := s.service.List(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Empty(s.logs.String())
}

// =============================================================================
// Get
// =============================================================================

func (s *ServiceSuite) TestGet_NotFoundMapsToCodeNotFound() {
	participantID := id.NewParticipantID()
	s.mockStore.EXPECT().FindByID(gomock.Any(), participantID).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Get(context.Background(), participantID.String())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestGet_WrappedNotFoundStillMaps() {
	participantID := id.NewParticipantID()
	s.mockStore.EXPECT().FindByID(gomock.Any(), participantID).
		Return(nil, errors.Join(errors.New("lookup"), sentinel.ErrNotFound))

	_, err := s.service.Get(context.Background(), participantID.String())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestGet_Found() {
	p := &models.Participant{ID: id.NewParticipantID(), Name: "ann", Scores: []int{1}}
	s.mockStore.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil)

	got, err := s.service.Get(context.Background(), p.ID.String())
	s.Require().NoError(err)
	s.Equal(p, got)
}

func (s *ServiceSuite) TestGet_NilUUIDIsWellFormed() {
	s.mockStore.EXPECT().FindByID(gomock.Any(), id.ParticipantID{}).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// =============================================================================
// Update
// =============================================================================

func (s *ServiceSuite) TestUpdate_PassesPatchThrough() {
	participantID := id.NewParticipantID()
	var patch models.Patch
	patch.SetScores([]int{1, 2})
	merged := &models.Participant{ID: participantID, Name: "ann", Scores: []int{1, 2}}

	s.mockStore.EXPECT().UpdateByID(gomock.Any(), participantID, patch).Return(merged, nil)
	s.mockPublisher.EXPECT().ParticipantUpdated(gomock.Any(), merged)

	got, err := s.service.Update(context.Background(), participantID.String(), patch)
	s.Require().NoError(err)
	s.Equal(merged, got)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ParticipantsUpdated))
}

func (s *ServiceSuite) TestUpdate_AbsentIsNotFound() {
	participantID := id.NewParticipantID()
	s.mockStore.EXPECT().UpdateByID(gomock.Any(), participantID, gomock.Any()).Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Update(context.Background(), participantID.String(), models.Patch{})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestUpdate_StoreFailureIsInternal() {
	participantID := id.NewParticipantID()
	s.mockStore.EXPECT().UpdateByID(gomock.Any(), participantID, gomock.Any()).
		Return(nil, fmt.Errorf("update participant: %w: %w", sentinel.ErrUnavailable, errors.New("dial tcp")))

	_, err := s.service.Update(context.Background(), participantID.String(), models.Patch{})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Contains(s.logs.String(), "participant store unavailable")
	s.Contains(s.logs.String(), "dial tcp")
}

func (s *ServiceSuite) TestUpdate_ContentionIsInternalAndLogged() {
	participantID := id.NewParticipantID()
	s.mockStore.EXPECT().UpdateByID(gomock.Any(), participantID, gomock.Any()).
		Return(nil, fmt.Errorf("update participant %s: %w after 10 attempts", participantID, sentinel.ErrConflict))

	_, err := s.service.Update(context.Background(), participantID.String(), models.Patch{})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Contains(s.logs.String(), "participant write contention")
}

// =============================================================================
// Delete
// =============================================================================

func (s *ServiceSuite) TestDelete_Succeeds() {
	participantID := id.NewParticipantID()
	s.mockStore.EXPECT().DeleteByID(gomock.Any(), participantID).Return(nil)
	s.mockPublisher.EXPECT().ParticipantDeleted(gomock.Any(), participantID)

	s.Require().NoError(s.service.Delete(context.Background(), participantID.String()))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.ParticipantsDeleted))
}

func (s *ServiceSuite) TestDelete_StoreFailureIsInternalAndNotPublished() {
	participantID := id.NewParticipantID()
	s.mockStore.EXPECT().DeleteByID(gomock.Any(), participantID).Return(assert.AnError)

	err := s.service.Delete(context.Background(), participantID.String())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func TestNew_DefaultsToNoopPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	participantID := id.NewParticipantID()
	st.EXPECT().DeleteByID(gomock.Any(), participantID).Return(nil)

	svc := New(st)
	require.NoError(t, svc.Delete(context.Background(), participantID.String()))
}
