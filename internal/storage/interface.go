package storage

import (
	"context"

	"github.com/mcoot/backlogbingo/internal/model"
)

// Storage defines the interface for data persistence. Everything except the
// profile itself is keyed by the owning profile.
type Storage interface {
	// Profile operations. Deleting a profile removes everything it owns.
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, id model.ProfileID) (*model.Profile, error)
	DeleteProfile(ctx context.Context, id model.ProfileID) error

	// Game rule operations
	SaveGameRules(ctx context.Context, id model.ProfileID, rules model.GameRules) error
	GetGameRules(ctx context.Context, id model.ProfileID) (model.GameRules, error)

	// Card source operations
	SaveCardSource(ctx context.Context, id model.ProfileID, source *model.CardSource) error
	GetCardSource(ctx context.Context, id model.ProfileID) (*model.CardSource, error)
	DeleteCardSource(ctx context.Context, id model.ProfileID) error

	// Bingo card operations
	SaveBingoCard(ctx context.Context, id model.ProfileID, card *model.BingoCard) error
	GetBingoCard(ctx context.Context, id model.ProfileID) (*model.BingoCard, error)
	DeleteBingoCard(ctx context.Context, id model.ProfileID) error
}
