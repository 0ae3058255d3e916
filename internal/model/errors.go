package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")

	// Game rule errors
	ErrRulesNotFound   = errors.New("game rules not found")
	ErrInvalidRules    = errors.New("invalid game rules")
	ErrRulesLocked     = errors.New("game rules are locked while a card is in play")
	ErrUnknownGameMode = errors.New("unknown game mode")
	ErrInvalidGridSize = errors.New("grid size appears invalid, are there enough categories?")

	// Card source errors
	ErrSourceNotFound = errors.New("no card source loaded")

	// Generation errors
	ErrNotEnoughCategories = errors.New("not enough categories provided")
	ErrSelectionExhausted  = errors.New("category pools exhausted before the card was filled")

	// Card errors
	ErrCardNotFound     = errors.New("bingo card not found")
	ErrInvalidCardIndex = errors.New("invalid card index")
	ErrStarTile         = errors.New("the star tile cannot hold an entry")
)

// InsufficientCategoriesError reports a pool that is too small for the grid
type InsufficientCategoriesError struct {
	Have int
	Need int
}

// Error implements error
func (e *InsufficientCategoriesError) Error() string {
	return fmt.Sprintf("%s (have %d, need %d)", ErrNotEnoughCategories, e.Have, e.Need)
}

// Is lets errors.Is match ErrNotEnoughCategories
func (e *InsufficientCategoriesError) Is(target error) bool {
	return target == ErrNotEnoughCategories
}
