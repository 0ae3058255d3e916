package card

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/backlogbingo/internal/dependencies/mocks"
	"github.com/mcoot/backlogbingo/internal/metrics"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/rules"
	"github.com/mcoot/backlogbingo/internal/services/selector"
	"github.com/mcoot/backlogbingo/internal/services/source"
	"github.com/mcoot/backlogbingo/internal/storage/memory"
	"github.com/mcoot/backlogbingo/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	rules    *rules.Service
	provider *mocks.MockProvider
	clock    *mocks.MockClock
	metrics  *metrics.Metrics
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.rules = rules.New(s.storage, logger)
	s.provider = mocks.NewMockProvider(nil)
	s.clock = mocks.NewMockClock(time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	s.metrics = metrics.New()
	s.service = New(
		s.storage,
		s.rules,
		NewGenerator(selector.New(logger), logger),
		s.provider,
		s.clock,
		mocks.NewMockIDs("card-1", "card-2"),
		s.metrics,
		logger,
	)
	s.ctx = context.Background()
}

// setup stores small wildcard rules seeded with "test" and the test pool
func (s *ServiceSuite) setup(pool []model.Category) {
	s.Require().NoError(s.storage.SaveGameRules(s.ctx, "p1", smallRules(model.StarWildcard, "test")))
	s.Require().NoError(s.storage.SaveCardSource(s.ctx, "p1", &model.CardSource{
		Version:    1,
		Name:       "Source name",
		Categories: pool,
	}))
}

func (s *ServiceSuite) generate() *Result {
	s.setup(testPool())
	result, err := s.service.Generate(s.ctx, "p1", "My card")
	s.Require().NoError(err)
	return result
}

// Generate tests

func (s *ServiceSuite) TestGeneratePersistsCardAndDropsSource() {
	result := s.generate()

	s.Equal("card-1", result.Card.ID)
	s.Equal(s.clock.Now(), result.Card.CreatedAt)
	s.Equal([]string{"test"}, s.provider.Seeds)
	s.Equal("Play 2 hours", result.Card.Categories[7].Text)

	stored, err := s.storage.GetBingoCard(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(result.Card.Categories, stored.Categories)
	s.Equal("My card", stored.Name)

	_, err = s.storage.GetCardSource(s.ctx, "p1")
	s.ErrorIs(err, model.ErrSourceNotFound)

	s.Equal(1.0, promtest.ToFloat64(s.metrics.CardsGenerated.WithLabelValues("custom", "small")))
}

func (s *ServiceSuite) TestGenerateDefaultsNameToSource() {
	s.setup(testPool())

	result, err := s.service.Generate(s.ctx, "p1", "")
	s.Require().NoError(err)
	s.Equal("Source name", result.Card.Name)
}

func (s *ServiceSuite) TestGenerateWithoutSource() {
	_, err := s.service.Generate(s.ctx, "p1", "No source")
	s.ErrorIs(err, model.ErrSourceNotFound)
}

func (s *ServiceSuite) TestFailedGenerationPersistsNothing() {
	s.setup(testPool()[:5])
	s.Require().NoError(s.storage.SaveGameRules(s.ctx, "p1", smallRules(model.StarDisabled, "test")))

	_, err := s.service.Generate(s.ctx, "p1", "Short")

	var insufficient *model.InsufficientCategoriesError
	s.Require().ErrorAs(err, &insufficient)
	s.Equal(5, insufficient.Have)
	s.Equal(9, insufficient.Need)

	_, err = s.storage.GetBingoCard(s.ctx, "p1")
	s.ErrorIs(err, model.ErrCardNotFound)
	_, err = s.storage.GetCardSource(s.ctx, "p1")
	s.NoError(err, "source is kept so the player can fix the rules")
	s.Equal(1.0, promtest.ToFloat64(s.metrics.GenerationFailures.WithLabelValues("not_enough_categories")))
}

func (s *ServiceSuite) TestGenerateLocksRules() {
	s.generate()

	locked, err := s.rules.Locked(s.ctx, "p1")
	s.Require().NoError(err)
	s.True(locked)
}

func (s *ServiceSuite) TestPreviewDoesNotTouchStorage() {
	result, err := s.service.Preview("Preview", testPool(), smallRules(model.StarWildcard, "test"))
	s.Require().NoError(err)
	s.Len(result.Card.Categories, 8)

	_, err = s.storage.GetBingoCard(s.ctx, "p1")
	s.ErrorIs(err, model.ErrCardNotFound)
}

// Play tests

func (s *ServiceSuite) TestSetEntryAndClear() {
	s.generate()

	grid, err := s.service.SetEntry(s.ctx, "p1", 5, "  Hollow Knight ")
	s.Require().NoError(err)
	s.Equal("Hollow Knight", grid.Cells[5].Entry)
	s.True(grid.Cells[5].IsSatisfied)

	card, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Require().NotNil(card.Categories[4].Entry)
	s.Equal("Hollow Knight", *card.Categories[4].Entry)

	grid, err = s.service.SetEntry(s.ctx, "p1", 5, "")
	s.Require().NoError(err)
	s.False(grid.Cells[5].IsSatisfied)
}

func (s *ServiceSuite) TestWildcardStarTakesEntries() {
	s.generate()

	grid, err := s.service.SetEntry(s.ctx, "p1", 4, "Anything")
	s.Require().NoError(err)
	s.True(grid.Cells[4].IsStarTile)
	s.True(grid.Cells[4].IsSatisfied)
}

func (s *ServiceSuite) TestFreeStarRejectsEntries() {
	s.generate()
	_, err := s.rules.Patch(s.ctx, "p1", model.RulesPatch{Star: ptr(model.StarFree)})
	s.Require().NoError(err)

	_, err = s.service.SetEntry(s.ctx, "p1", 4, "Anything")
	s.ErrorIs(err, model.ErrStarTile)
}

func (s *ServiceSuite) TestSetEntryOutOfRange() {
	s.generate()

	_, err := s.service.SetEntry(s.ctx, "p1", 9, "x")
	s.ErrorIs(err, model.ErrInvalidCardIndex)
}

func (s *ServiceSuite) TestSetEntryWithoutCard() {
	_, err := s.service.SetEntry(s.ctx, "p1", 0, "x")
	s.ErrorIs(err, model.ErrCardNotFound)
}

func (s *ServiceSuite) TestClear() {
	s.generate()

	s.Require().NoError(s.service.Clear(s.ctx, "p1"))

	_, err := s.service.Get(s.ctx, "p1")
	s.ErrorIs(err, model.ErrCardNotFound)
	s.ErrorIs(s.service.Clear(s.ctx, "p1"), model.ErrCardNotFound)
}

// Export and import tests

func (s *ServiceSuite) TestExportAndImport() {
	s.generate()
	_, err := s.service.SetEntry(s.ctx, "p1", 0, "Celeste")
	s.Require().NoError(err)

	export, err := s.service.Export(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("My-card-2025-03-14.json", export.Filename)
	s.Equal(s.clock.Now(), export.Document.Exported)

	data, err := json.Marshal(export.Document)
	s.Require().NoError(err)

	imported, err := s.service.Import(s.ctx, "p2", data, source.FormatJSON)
	s.Require().NoError(err)
	s.Equal("card-2", imported.ID)
	s.Equal("My card", imported.Name)
	s.Equal(export.Document.Categories, imported.Categories)

	importedRules, err := s.rules.Get(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(smallRules(model.StarWildcard, "test"), importedRules)
}

func (s *ServiceSuite) TestImportRejectsCardSource() {
	_, err := s.service.Import(s.ctx, "p1", []byte(`{"version": 1, "name": "x", "categories": []}`), source.FormatJSON)
	s.ErrorIs(err, source.ErrWrongDocumentType)
}

func (s *ServiceSuite) TestExportIsNamedForTheDayItIsTaken() {
	s.generate()
	s.clock.Advance(36 * time.Hour)

	export, err := s.service.Export(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("My-card-2025-03-15.json", export.Filename)

	played, err := s.service.Get(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(36*time.Hour, export.Document.Exported.Sub(played.CreatedAt))
}

func (s *ServiceSuite) TestExportFilename() {
	at := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)

	s.Equal("Backlog-Bingo-2024-12-01.json", ExportFilename("Backlog Bingo", at))
	s.Equal("Games-2024-Edition-2024-12-01.json", ExportFilename("Games - 2024 Edition", at))
	s.Equal("what-s_up--2024-12-01.json", ExportFilename("what's_up?", at))
	s.Equal("bingo-card-2024-12-01.json", ExportFilename("", at))
}

func ptr[T any](v T) *T {
	return &v
}
