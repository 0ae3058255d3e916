package model

import "fmt"

// WinCondition describes which lines complete a card
type WinCondition string

const (
	WinRowCol     WinCondition = "row-col"
	WinRowColDiag WinCondition = "row-col-diag"
	WinBlackout   WinCondition = "blackout"
)

// Valid reports whether w is a known win condition
func (w WinCondition) Valid() bool {
	switch w {
	case WinRowCol, WinRowColDiag, WinBlackout:
		return true
	}
	return false
}

// StarMode controls the centre tile
type StarMode string

const (
	StarWildcard StarMode = "wildcard" // Any entry satisfies the tile
	StarFree     StarMode = "free"     // Tile is satisfied from the start
	StarDisabled StarMode = "disabled" // No special tile
)

// Valid reports whether s is a known star mode
func (s StarMode) Valid() bool {
	switch s {
	case StarWildcard, StarFree, StarDisabled:
		return true
	}
	return false
}

// Enabled reports whether the centre tile is reserved for the star
func (s StarMode) Enabled() bool {
	return s == StarWildcard || s == StarFree
}

// GridSize is the labelled size of a square card
type GridSize string

const (
	GridSmall  GridSize = "small"
	GridMedium GridSize = "medium"
	GridLarge  GridSize = "large"
)

// RowLength returns the number of cells per row, or 0 for an unknown size
func (g GridSize) RowLength() int {
	switch g {
	case GridSmall:
		return 3
	case GridMedium:
		return 5
	case GridLarge:
		return 7
	}
	return 0
}

// Valid reports whether g is a known grid size
func (g GridSize) Valid() bool {
	return g.RowLength() > 0
}

// CategoryCount returns how many categories a card of this size needs.
// The star tile, when enabled, takes one cell.
func (g GridSize) CategoryCount(star StarMode) int {
	n := g.RowLength()
	if n == 0 {
		return 0
	}
	count := n * n
	if star.Enabled() {
		count--
	}
	return count
}

// GridSizeForRowLength maps a row length back to its label, rounding down
func GridSizeForRowLength(rowLength int) (GridSize, error) {
	switch {
	case rowLength >= 7:
		return GridLarge, nil
	case rowLength >= 5:
		return GridMedium, nil
	case rowLength >= 3:
		return GridSmall, nil
	}
	return "", ErrInvalidGridSize
}

// GameRules holds the settings for one play-through
type GameRules struct {
	WinCondition WinCondition `json:"winCondition"`
	GridSize     GridSize     `json:"gridSize"`
	Golf         bool         `json:"golf"`
	AllowSimilar bool         `json:"allowSimilar"`
	Star         StarMode     `json:"star"`

	// Seed makes generation reproducible. Empty means random.
	Seed string `json:"seed"`
}

// CategoryCount returns the number of categories a card needs under these rules
func (r GameRules) CategoryCount() int {
	return r.GridSize.CategoryCount(r.Star)
}

// Validate checks every enum field
func (r GameRules) Validate() error {
	if !r.WinCondition.Valid() {
		return fmt.Errorf("%w: win condition %q", ErrInvalidRules, r.WinCondition)
	}
	if !r.GridSize.Valid() {
		return fmt.Errorf("%w: grid size %q", ErrInvalidRules, r.GridSize)
	}
	if !r.Star.Valid() {
		return fmt.Errorf("%w: star %q", ErrInvalidRules, r.Star)
	}
	return nil
}

// RulesPatch is a partial update; nil fields are left unchanged
type RulesPatch struct {
	WinCondition *WinCondition `json:"winCondition,omitempty"`
	GridSize     *GridSize     `json:"gridSize,omitempty"`
	Golf         *bool         `json:"golf,omitempty"`
	AllowSimilar *bool         `json:"allowSimilar,omitempty"`
	Star         *StarMode     `json:"star,omitempty"`
	Seed         *string       `json:"seed,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p RulesPatch) IsEmpty() bool {
	return p.WinCondition == nil && p.GridSize == nil && p.Golf == nil &&
		p.AllowSimilar == nil && p.Star == nil && p.Seed == nil
}

// Apply returns a copy of r with the patch applied
func (p RulesPatch) Apply(r GameRules) GameRules {
	if p.WinCondition != nil {
		r.WinCondition = *p.WinCondition
	}
	if p.GridSize != nil {
		r.GridSize = *p.GridSize
	}
	if p.Golf != nil {
		r.Golf = *p.Golf
	}
	if p.AllowSimilar != nil {
		r.AllowSimilar = *p.AllowSimilar
	}
	if p.Star != nil {
		r.Star = *p.Star
	}
	if p.Seed != nil {
		r.Seed = *p.Seed
	}
	return r
}

// GameMode names a preset, or "custom" for anything else
type GameMode string

const (
	GameModeStandard GameMode = "standard"
	GameModeGolf     GameMode = "golf"
	GameModeCustom   GameMode = "custom"
)

var presets = map[GameMode]GameRules{
	GameModeStandard: {
		WinCondition: WinRowColDiag,
		GridSize:     GridMedium,
		Golf:         false,
		AllowSimilar: false,
		Star:         StarWildcard,
	},
	GameModeGolf: {
		WinCondition: WinBlackout,
		GridSize:     GridMedium,
		Golf:         true,
		AllowSimilar: false,
		Star:         StarFree,
	},
}

// Preset returns the rules for a named game mode
func Preset(mode GameMode) (GameRules, error) {
	rules, ok := presets[mode]
	if !ok {
		return GameRules{}, fmt.Errorf("%w: %q", ErrUnknownGameMode, mode)
	}
	return rules, nil
}

// DefaultGameRules returns the standard preset
func DefaultGameRules() GameRules {
	return presets[GameModeStandard]
}

// ModeOf finds the preset r matches exactly, or GameModeCustom
func ModeOf(r GameRules) GameMode {
	for _, mode := range []GameMode{GameModeStandard, GameModeGolf} {
		if presets[mode] == r {
			return mode
		}
	}
	return GameModeCustom
}
