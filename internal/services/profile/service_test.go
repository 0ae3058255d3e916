package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/backlogbingo/internal/dependencies/mocks"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/storage/memory"
	"github.com/mcoot/backlogbingo/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ids     *mocks.MockIDs
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ids = mocks.NewMockIDs("profile-1")
	s.service = New(s.storage, s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreate() {
	profile, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.ProfileID("profile-1"), profile.ID)
	s.Equal(s.clock.Now(), profile.CreatedAt)

	rules, err := s.storage.GetGameRules(s.ctx, profile.ID)
	s.Require().NoError(err)
	s.Equal(model.DefaultGameRules(), rules)
}

func (s *ServiceSuite) TestGet() {
	created, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	profile, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, profile.ID)
}

func (s *ServiceSuite) TestGetUnknown() {
	_, err := s.service.Get(s.ctx, "nope")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestDelete() {
	created, err := s.service.Create(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, created.ID))

	_, err = s.service.Get(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrProfileNotFound)
	_, err = s.storage.GetGameRules(s.ctx, created.ID)
	s.ErrorIs(err, model.ErrRulesNotFound)
}

func (s *ServiceSuite) TestDeleteUnknown() {
	s.ErrorIs(s.service.Delete(s.ctx, "nope"), model.ErrProfileNotFound)
}
