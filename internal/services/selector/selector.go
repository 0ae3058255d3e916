// Package selector draws categories for a card while spreading similar
// (same-group) categories across passes.
package selector

import (
	"log/slog"

	"github.com/mcoot/backlogbingo/internal/dependencies/random"
	"github.com/mcoot/backlogbingo/internal/model"
)

// Stats describes how a selection went
type Stats struct {
	// Passes is the number of passes over the working queue, starting at 1
	Passes int `json:"passes"`

	// Discards counts how many times a category was deferred to a later pass
	Discards int `json:"discards"`
}

// Selector picks categories from a pool
type Selector struct {
	logger *slog.Logger
}

// New creates a new Selector
func New(logger *slog.Logger) *Selector {
	return &Selector{logger: logger}
}

// Select returns k categories from pool in selection order. The pool is
// shuffled once; afterwards a category whose group was already used in the
// current pass is deferred to the next pass unless allowSimilar is set.
//
// Returned categories are copies with their group and Dynamic cleared.
func (s *Selector) Select(pool []model.Category, k int, allowSimilar bool, src random.Source) ([]model.Category, Stats, error) {
	if len(pool) < k {
		return nil, Stats{}, &model.InsufficientCategoriesError{Have: len(pool), Need: k}
	}

	working := random.Shuffle(pool, src)
	var discard []model.Category
	usedGroups := make(map[string]struct{})

	stats := Stats{Passes: 1}
	selected := make([]model.Category, 0, k)

	for len(selected) < k {
		if len(working) == 0 {
			if len(discard) == 0 {
				s.logger.Warn("category pools exhausted",
					"selected", len(selected),
					"need", k,
				)
				return nil, stats, model.ErrSelectionExhausted
			}
			working, discard = discard, nil
			clear(usedGroups)
			stats.Passes++
			s.logger.Debug("starting new selection pass",
				"pass", stats.Passes,
				"remaining", len(working),
			)
		}

		cat := working[0]
		working = working[1:]

		if key := cat.GroupKey(); !allowSimilar && key != "" {
			if _, used := usedGroups[key]; used {
				discard = append(discard, cat)
				stats.Discards++
				s.logger.Debug("deferring category",
					"category_id", cat.ID,
					"group", cat.Group,
					"pass", stats.Passes,
				)
				continue
			}
			usedGroups[key] = struct{}{}
		}

		s.logger.Debug("selected category",
			"category_id", cat.ID,
			"position", len(selected),
		)
		cat.Group = ""
		cat.NumericGroup = false
		cat.Dynamic = false
		selected = append(selected, cat)
	}

	return selected, stats, nil
}
