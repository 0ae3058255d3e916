package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Store = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestReturnedSourceIsACopy() {
	source := &model.CardSource{Name: "Original", Categories: []model.Category{{ID: "1", Text: "One"}}}
	s.Require().NoError(s.storage.SaveCardSource(s.Ctx, "p1", source))

	got, err := s.storage.GetCardSource(s.Ctx, "p1")
	s.Require().NoError(err)
	got.Categories[0].Text = "Mutated"

	again, err := s.storage.GetCardSource(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("One", again.Categories[0].Text)
}
