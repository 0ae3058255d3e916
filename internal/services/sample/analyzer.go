// Package sample generates many cards from one pool and reports how evenly
// categories and groups are spread across them.
package sample

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/mcoot/backlogbingo/internal/dependencies/random"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/card"
)

// ErrNoCards is returned when asked to sample fewer than one card
var ErrNoCards = errors.New("sample count must be at least 1")

// Options controls a sampling run
type Options struct {
	Count int
	Rules model.GameRules

	// SeedPrefix seeds card i with "<prefix>-<i>". Empty means unseeded.
	SeedPrefix string
}

// CategoryStat is how often one category was drawn
type CategoryStat struct {
	ID        model.CategoryID `json:"id"`
	Text      string           `json:"text"`
	Group     string           `json:"group,omitempty"`
	Selected  int              `json:"selected"`
	Frequency float64          `json:"frequency"`
}

// Report summarises a sampling run
type Report struct {
	Cards      int            `json:"cards"`
	PerCard    int            `json:"per_card"`
	Categories []CategoryStat `json:"categories"`

	// Mean and standard deviation of the per-category selection counts
	MeanSelected   float64 `json:"mean_selected"`
	StdDevSelected float64 `json:"stddev_selected"`

	// ExpectedSelected is the count every category would have under a
	// perfectly even spread
	ExpectedSelected float64 `json:"expected_selected"`

	MeanPasses float64 `json:"mean_passes"`
	MaxPasses  int     `json:"max_passes"`

	// MeanGroupRepeats is the average number of categories per card that
	// share a group with an earlier category on the same card
	MeanGroupRepeats float64 `json:"mean_group_repeats"`

	TemplateErrors int `json:"template_errors"`
}

// Analyzer runs sampling jobs
type Analyzer struct {
	generator *card.Generator
	random    random.Provider
	logger    *slog.Logger
}

// New creates an Analyzer
func New(generator *card.Generator, random random.Provider, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		generator: generator,
		random:    random,
		logger:    logger,
	}
}

// Run builds opts.Count cards from pool. progress, when set, is called after
// each card. Cancelling ctx stops the run between cards.
func (a *Analyzer) Run(ctx context.Context, pool []model.Category, opts Options, progress func(done int)) (*Report, error) {
	if opts.Count < 1 {
		return nil, ErrNoCards
	}

	groups := make(map[model.CategoryID]string, len(pool))
	counts := make(map[model.CategoryID]int, len(pool))
	for _, c := range pool {
		groups[c.ID] = c.GroupKey()
		counts[c.ID] = 0
	}

	report := &Report{Cards: opts.Count, PerCard: opts.Rules.CategoryCount()}
	passes := make([]float64, 0, opts.Count)
	repeats := make([]float64, 0, opts.Count)

	for i := 0; i < opts.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		seed := ""
		if opts.SeedPrefix != "" {
			seed = fmt.Sprintf("%s-%d", opts.SeedPrefix, i)
		}
		built, buildReport, err := a.generator.Build("sample", pool, opts.Rules, a.random.ForSeed(seed))
		if err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}

		seenGroups := make(map[string]bool)
		repeated := 0
		for _, c := range built.Categories {
			counts[c.ID]++
			if g := groups[c.ID]; g != "" {
				if seenGroups[g] {
					repeated++
				}
				seenGroups[g] = true
			}
		}

		passes = append(passes, float64(buildReport.Selection.Passes))
		repeats = append(repeats, float64(repeated))
		report.MaxPasses = max(report.MaxPasses, buildReport.Selection.Passes)
		report.TemplateErrors += len(buildReport.TemplateErrors)

		if progress != nil {
			progress(i + 1)
		}
	}

	selections := make([]float64, 0, len(pool))
	for _, c := range pool {
		n := counts[c.ID]
		selections = append(selections, float64(n))
		report.Categories = append(report.Categories, CategoryStat{
			ID:        c.ID,
			Text:      c.Text,
			Group:     c.Group,
			Selected:  n,
			Frequency: float64(n) / float64(opts.Count),
		})
	}
	sort.SliceStable(report.Categories, func(i, j int) bool {
		return report.Categories[i].Selected > report.Categories[j].Selected
	})

	report.MeanSelected, report.StdDevSelected = stat.MeanStdDev(selections, nil)
	report.ExpectedSelected = float64(opts.Count*report.PerCard) / float64(len(pool))
	report.MeanPasses = stat.Mean(passes, nil)
	report.MeanGroupRepeats = stat.Mean(repeats, nil)

	a.logger.Debug("sampling finished",
		"cards", opts.Count,
		"mean_passes", report.MeanPasses,
		"stddev_selected", report.StdDevSelected,
	)
	return report, nil
}
