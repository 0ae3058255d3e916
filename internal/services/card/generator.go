// Package card builds bingo cards from a category pool and handles play on
// the generated card.
package card

import (
	"log/slog"

	"github.com/mcoot/backlogbingo/internal/dependencies/random"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/dynamic"
	"github.com/mcoot/backlogbingo/internal/services/selector"
)

// Report describes how a card was built
type Report struct {
	Selection      selector.Stats
	TemplateErrors []*dynamic.TokenError
}

// Generator turns a pool and a set of rules into a card
type Generator struct {
	selector *selector.Selector
	logger   *slog.Logger
}

// NewGenerator creates a Generator
func NewGenerator(selector *selector.Selector, logger *slog.Logger) *Generator {
	return &Generator{
		selector: selector,
		logger:   logger,
	}
}

// Build selects rules.CategoryCount() categories from pool and expands any
// dynamic text, all from src. Selection draws come first, then each dynamic
// category is expanded in selection order, so a seeded src always yields the
// same card. Malformed tokens are reported but do not fail the build.
func (g *Generator) Build(name string, pool []model.Category, rules model.GameRules, src random.Source) (*model.BingoCard, Report, error) {
	if err := rules.Validate(); err != nil {
		return nil, Report{}, err
	}
	k := rules.CategoryCount()

	g.logger.Debug("choosing categories",
		"need", k,
		"pool", len(pool),
		"allow_similar", rules.AllowSimilar,
	)

	selected, stats, err := g.selector.Select(pool, k, rules.AllowSimilar, src)
	if err != nil {
		return nil, Report{Selection: stats}, err
	}

	report := Report{Selection: stats}
	card := &model.BingoCard{
		Name:       name,
		Categories: make([]model.CardCategory, len(selected)),
	}
	for i, c := range selected {
		text := c.Text
		if dynamic.IsDynamic(text) {
			res := dynamic.Expand(text, src)
			text = res.Text
			report.TemplateErrors = append(report.TemplateErrors, res.Errors...)
		}
		card.Categories[i] = model.CardCategory{ID: c.ID, Text: text}
	}

	return card, report, nil
}
