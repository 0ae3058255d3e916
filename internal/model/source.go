package model

import "slices"

// CardSource is a loaded candidate pool along with its metadata
type CardSource struct {
	Version     float64     `json:"version"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	GameRules   *RulesPatch `json:"gamerules,omitempty"`
	Categories  []Category  `json:"categories"`
}

// Groups returns the distinct non-empty groups in first-seen order
func (s *CardSource) Groups() []string {
	var (
		groups []string
		seen   []string
	)
	for _, c := range s.Categories {
		key := c.GroupKey()
		if key != "" && !slices.Contains(seen, key) {
			seen = append(seen, key)
			groups = append(groups, c.Group)
		}
	}
	return groups
}

// MaxGridSize returns the largest grid whose full square fits the pool
func (s *CardSource) MaxGridSize() (GridSize, error) {
	return MaxGridSize(len(s.Categories))
}

// MaxGridSize returns the largest accepted grid (7, 5 or 3 per row) with
// rowLength^2 <= categoryCount
func MaxGridSize(categoryCount int) (GridSize, error) {
	for _, size := range []GridSize{GridLarge, GridMedium, GridSmall} {
		n := size.RowLength()
		if n*n <= categoryCount {
			return size, nil
		}
	}
	return "", ErrInvalidGridSize
}

// ShouldShrinkGrid reports whether the pool only supports a small grid
func (s *CardSource) ShouldShrinkGrid() bool {
	size, err := s.MaxGridSize()
	return err == nil && size == GridSmall
}

// Clone returns a copy of the source with its own category slice
func (s *CardSource) Clone() *CardSource {
	clone := *s
	clone.Categories = slices.Clone(s.Categories)
	if s.GameRules != nil {
		patch := *s.GameRules
		clone.GameRules = &patch
	}
	return &clone
}
