// Package storagetest holds behaviour tests shared by every Storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/storage"
)

// Suite runs the common storage behaviour. Embed it and set Store and Ctx in
// SetupTest.
type Suite struct {
	suite.Suite
	Store storage.Storage
	Ctx   context.Context
}

var createdAt = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func sampleSource() *model.CardSource {
	size := model.GridSmall
	cats := make([]model.Category, 9)
	for i := range cats {
		cats[i] = model.Category{ID: model.CategoryID(string(rune('a' + i))), Text: "Category"}
	}
	cats[0].Group = "first"
	cats[1].Group, cats[1].NumericGroup = "2", true
	return &model.CardSource{
		Version:    1,
		Name:       "Backlog",
		GameRules:  &model.RulesPatch{GridSize: &size},
		Categories: cats,
	}
}

func sampleCard() *model.BingoCard {
	entry := "Celeste"
	return &model.BingoCard{
		ID:   "card-1",
		Name: "My card",
		Categories: []model.CardCategory{
			{ID: "a", Text: "Platformer", Entry: &entry},
			{ID: "b", Text: "Play 3 hours"},
		},
		CreatedAt: createdAt,
	}
}

// Profile tests

func (s *Suite) TestSaveAndGetProfile() {
	err := s.Store.SaveProfile(s.Ctx, &model.Profile{ID: "p1", CreatedAt: createdAt})
	s.Require().NoError(err)

	profile, err := s.Store.GetProfile(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.ProfileID("p1"), profile.ID)
	s.True(createdAt.Equal(profile.CreatedAt))
}

func (s *Suite) TestGetProfileNotFound() {
	_, err := s.Store.GetProfile(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *Suite) TestDeleteProfileRemovesOwnedState() {
	s.Require().NoError(s.Store.SaveProfile(s.Ctx, &model.Profile{ID: "p1"}))
	s.Require().NoError(s.Store.SaveGameRules(s.Ctx, "p1", model.DefaultGameRules()))
	s.Require().NoError(s.Store.SaveCardSource(s.Ctx, "p1", sampleSource()))
	s.Require().NoError(s.Store.SaveBingoCard(s.Ctx, "p1", sampleCard()))

	s.Require().NoError(s.Store.DeleteProfile(s.Ctx, "p1"))

	_, err := s.Store.GetProfile(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrProfileNotFound)
	_, err = s.Store.GetGameRules(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrRulesNotFound)
	_, err = s.Store.GetCardSource(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrSourceNotFound)
	_, err = s.Store.GetBingoCard(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrCardNotFound)
}

// Game rule tests

func (s *Suite) TestSaveAndGetGameRules() {
	rules := model.DefaultGameRules()
	rules.Seed = "seed"
	rules.GridSize = model.GridLarge

	s.Require().NoError(s.Store.SaveGameRules(s.Ctx, "p1", rules))

	got, err := s.Store.GetGameRules(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(rules, got)
}

func (s *Suite) TestGetGameRulesNotFound() {
	_, err := s.Store.GetGameRules(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrRulesNotFound)
}

func (s *Suite) TestGameRulesAreIsolatedPerProfile() {
	golf, _ := model.Preset(model.GameModeGolf)
	s.Require().NoError(s.Store.SaveGameRules(s.Ctx, "p1", model.DefaultGameRules()))
	s.Require().NoError(s.Store.SaveGameRules(s.Ctx, "p2", golf))

	got, err := s.Store.GetGameRules(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(model.DefaultGameRules(), got)
}

// Card source tests

func (s *Suite) TestSaveAndGetCardSource() {
	source := sampleSource()
	s.Require().NoError(s.Store.SaveCardSource(s.Ctx, "p1", source))

	got, err := s.Store.GetCardSource(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Backlog", got.Name)
	s.Len(got.Categories, 9)
	s.Equal("first", got.Categories[0].Group)
	s.Equal("#2", got.Categories[1].GroupKey())
	s.Require().NotNil(got.GameRules)
	s.Equal(model.GridSmall, *got.GameRules.GridSize)
}

func (s *Suite) TestDeleteCardSource() {
	s.Require().NoError(s.Store.SaveCardSource(s.Ctx, "p1", sampleSource()))
	s.Require().NoError(s.Store.DeleteCardSource(s.Ctx, "p1"))

	_, err := s.Store.GetCardSource(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrSourceNotFound)
}

func (s *Suite) TestDeleteMissingCardSourceIsNoop() {
	s.NoError(s.Store.DeleteCardSource(s.Ctx, "missing"))
}

// Bingo card tests

func (s *Suite) TestSaveAndGetBingoCard() {
	card := sampleCard()
	s.Require().NoError(s.Store.SaveBingoCard(s.Ctx, "p1", card))

	got, err := s.Store.GetBingoCard(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(card.ID, got.ID)
	s.Equal(card.Name, got.Name)
	s.Equal(card.Categories, got.Categories)
	s.True(card.CreatedAt.Equal(got.CreatedAt))
}

func (s *Suite) TestStoredCardIsNotAliased() {
	card := sampleCard()
	s.Require().NoError(s.Store.SaveBingoCard(s.Ctx, "p1", card))

	card.Categories[1].Text = "changed after save"

	got, err := s.Store.GetBingoCard(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Play 3 hours", got.Categories[1].Text)
}

func (s *Suite) TestGetBingoCardNotFound() {
	_, err := s.Store.GetBingoCard(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrCardNotFound)
}

func (s *Suite) TestDeleteBingoCard() {
	s.Require().NoError(s.Store.SaveBingoCard(s.Ctx, "p1", sampleCard()))
	s.Require().NoError(s.Store.DeleteBingoCard(s.Ctx, "p1"))

	_, err := s.Store.GetBingoCard(s.Ctx, "p1")
	s.ErrorIs(err, model.ErrCardNotFound)
}
