package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/mcoot/backlogbingo/internal/dependencies/clock"
	"github.com/mcoot/backlogbingo/internal/dependencies/ids"
	"github.com/mcoot/backlogbingo/internal/dependencies/random"
	"github.com/mcoot/backlogbingo/internal/metrics"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/rules"
	"github.com/mcoot/backlogbingo/internal/services/source"
	"github.com/mcoot/backlogbingo/internal/storage"
)

// defaultExportName is used for the filename of unnamed cards
const defaultExportName = "bingo-card"

var (
	dashedSeparator  = regexp.MustCompile(` - `)
	unsafeFilenameCh = regexp.MustCompile(`[^a-zA-Z0-9-_]`)
)

// Result is a generated card along with how it was built
type Result struct {
	Card   *model.BingoCard
	Report Report
}

// Export is an exported card document and the filename to save it under
type Export struct {
	Document model.CardExport
	Filename string
}

// Service generates cards for profiles and handles play on them
type Service struct {
	storage   storage.Storage
	rules     *rules.Service
	generator *Generator
	random    random.Provider
	clock     clock.Clock
	ids       ids.Generator
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a new card Service
func New(
	storage storage.Storage,
	rules *rules.Service,
	generator *Generator,
	random random.Provider,
	clock clock.Clock,
	ids ids.Generator,
	metrics *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		rules:     rules,
		generator: generator,
		random:    random,
		clock:     clock,
		ids:       ids,
		metrics:   metrics,
		logger:    logger,
	}
}

// Generate builds a card from the profile's stored card source and rules,
// saves it and discards the source. An empty name falls back to the source
// name. Nothing is saved when generation fails.
func (s *Service) Generate(ctx context.Context, id model.ProfileID, name string) (*Result, error) {
	gameRules, err := s.rules.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src, err := s.storage.GetCardSource(ctx, id)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = src.Name
	}

	result, err := s.build(name, src.Categories, gameRules)
	if err != nil {
		s.logger.Info("card generation failed", "profile_id", id, "error", err)
		return nil, err
	}

	if err := s.storage.SaveBingoCard(ctx, id, result.Card); err != nil {
		return nil, err
	}
	if err := s.storage.DeleteCardSource(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("card generated",
		"profile_id", id,
		"card_id", result.Card.ID,
		"categories", len(result.Card.Categories),
		"passes", result.Report.Selection.Passes,
		"template_errors", len(result.Report.TemplateErrors),
	)
	return result, nil
}

// Preview builds a card without touching storage
func (s *Service) Preview(name string, pool []model.Category, gameRules model.GameRules) (*Result, error) {
	return s.build(name, pool, gameRules)
}

func (s *Service) build(name string, pool []model.Category, gameRules model.GameRules) (*Result, error) {
	start := time.Now()
	src := s.random.ForSeed(gameRules.Seed)

	card, report, err := s.generator.Build(name, pool, gameRules, src)
	if err != nil {
		s.metrics.GenerationFailed(failureReason(err))
		return nil, err
	}

	card.ID = s.ids.NewID()
	card.CreatedAt = s.clock.Now()

	s.metrics.CardGenerated(
		string(model.ModeOf(gameRules)),
		string(gameRules.GridSize),
		report.Selection.Passes,
		report.Selection.Discards,
		len(report.TemplateErrors),
		time.Since(start),
	)
	return &Result{Card: card, Report: report}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, model.ErrNotEnoughCategories):
		return "not_enough_categories"
	case errors.Is(err, model.ErrSelectionExhausted):
		return "selection_exhausted"
	case errors.Is(err, model.ErrInvalidRules):
		return "invalid_rules"
	}
	return "other"
}

// Get returns the profile's card
func (s *Service) Get(ctx context.Context, id model.ProfileID) (*model.BingoCard, error) {
	return s.storage.GetBingoCard(ctx, id)
}

// Output returns the profile's card laid out as a grid
func (s *Service) Output(ctx context.Context, id model.ProfileID) (*Grid, error) {
	card, gameRules, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return Output(card, gameRules)
}

// SetEntry records what the player entered against a grid cell. An empty
// entry clears the cell. The free star tile cannot hold an entry.
func (s *Service) SetEntry(ctx context.Context, id model.ProfileID, cell int, entry string) (*Grid, error) {
	card, gameRules, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	index, isStar, err := locate(cell, gameRules)
	if err != nil {
		return nil, err
	}

	entry = strings.TrimSpace(entry)
	var value *string
	if entry != "" {
		value = &entry
	}

	switch {
	case isStar && gameRules.Star == model.StarFree:
		return nil, model.ErrStarTile
	case isStar:
		card.StarEntry = value
	default:
		if index >= len(card.Categories) {
			return nil, fmt.Errorf("%w: %d", model.ErrInvalidCardIndex, cell)
		}
		card.Categories[index].Entry = value
	}

	if err := s.storage.SaveBingoCard(ctx, id, card); err != nil {
		return nil, err
	}
	s.logger.Debug("card entry set", "profile_id", id, "cell", cell, "cleared", value == nil)
	return Output(card, gameRules)
}

// Clear discards the profile's card so a new game can start
func (s *Service) Clear(ctx context.Context, id model.ProfileID) error {
	if _, err := s.storage.GetBingoCard(ctx, id); err != nil {
		return err
	}
	if err := s.storage.DeleteBingoCard(ctx, id); err != nil {
		return err
	}
	s.logger.Info("card cleared", "profile_id", id)
	return nil
}

// Export returns the card with its rules as a document to save
func (s *Service) Export(ctx context.Context, id model.ProfileID) (*Export, error) {
	card, gameRules, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	return &Export{
		Document: model.CardExport{
			Exported:   now,
			Name:       card.Name,
			Categories: card.Categories,
			GameRules:  gameRules,
			StarEntry:  card.StarEntry,
		},
		Filename: ExportFilename(card.Name, now),
	}, nil
}

// Import restores a card and its rules from an exported document. It
// replaces any card already in play.
func (s *Service) Import(ctx context.Context, id model.ProfileID, data []byte, format source.Format) (*model.BingoCard, error) {
	doc, err := source.Decode(data, format)
	if err != nil {
		return nil, err
	}
	export, err := doc.Export()
	if err != nil {
		return nil, err
	}

	card := &model.BingoCard{
		ID:         s.ids.NewID(),
		Name:       export.Name,
		Categories: export.Categories,
		CreatedAt:  s.clock.Now(),
		StarEntry:  export.StarEntry,
	}
	if err := s.storage.SaveGameRules(ctx, id, export.GameRules); err != nil {
		return nil, err
	}
	if err := s.storage.SaveBingoCard(ctx, id, card); err != nil {
		return nil, err
	}

	s.logger.Info("card imported", "profile_id", id, "card_id", card.ID, "exported", export.Exported)
	return card, nil
}

func (s *Service) load(ctx context.Context, id model.ProfileID) (*model.BingoCard, model.GameRules, error) {
	card, err := s.storage.GetBingoCard(ctx, id)
	if err != nil {
		return nil, model.GameRules{}, err
	}
	gameRules, err := s.rules.Get(ctx, id)
	if err != nil {
		return nil, model.GameRules{}, err
	}
	return card, gameRules, nil
}

// ExportFilename returns "<name>-YYYY-MM-DD.json" with the name reduced to
// letters, digits, dashes and underscores
func ExportFilename(name string, at time.Time) string {
	if name == "" {
		name = defaultExportName
	}
	name = dashedSeparator.ReplaceAllString(name, "-")
	name = unsafeFilenameCh.ReplaceAllString(name, "-")
	return fmt.Sprintf("%s-%s.json", name, at.Format(time.DateOnly))
}
