package rules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/storage"
)

// Service manages each profile's game rules
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new rules Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Get returns the profile's rules, initialising them to the standard preset
// the first time they are read
func (s *Service) Get(ctx context.Context, id model.ProfileID) (model.GameRules, error) {
	rules, err := s.storage.GetGameRules(ctx, id)
	if err == nil {
		return rules, nil
	}
	if !errors.Is(err, model.ErrRulesNotFound) {
		return model.GameRules{}, err
	}

	rules = model.DefaultGameRules()
	if err := s.storage.SaveGameRules(ctx, id, rules); err != nil {
		return model.GameRules{}, err
	}
	s.logger.Info("initialised game rules", "profile_id", id, "mode", model.GameModeStandard)
	return rules, nil
}

// Patch applies a partial update. Changes that would alter the shape of a
// card already in play are rejected with model.ErrRulesLocked.
func (s *Service) Patch(ctx context.Context, id model.ProfileID, patch model.RulesPatch) (model.GameRules, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.GameRules{}, err
	}
	if patch.IsEmpty() {
		return current, nil
	}
	return s.replace(ctx, id, current, patch.Apply(current))
}

// Reset replaces the rules with a preset
func (s *Service) Reset(ctx context.Context, id model.ProfileID, mode model.GameMode) (model.GameRules, error) {
	preset, err := model.Preset(mode)
	if err != nil {
		return model.GameRules{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.GameRules{}, err
	}
	return s.replace(ctx, id, current, preset)
}

// ApplySourceDefaults applies the defaults a card source ships with. Nothing
// happens while a card is in play. The returned bool reports whether the
// rules were updated.
func (s *Service) ApplySourceDefaults(ctx context.Context, id model.ProfileID, defaults *model.RulesPatch) (model.GameRules, bool, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return model.GameRules{}, false, err
	}
	if defaults == nil || defaults.IsEmpty() {
		return current, false, nil
	}

	locked, err := s.Locked(ctx, id)
	if err != nil {
		return model.GameRules{}, false, err
	}
	if locked {
		s.logger.Debug("card in play, ignoring source rules", "profile_id", id)
		return current, false, nil
	}

	updated := defaults.Apply(current)
	if err := updated.Validate(); err != nil {
		return model.GameRules{}, false, err
	}
	if err := s.storage.SaveGameRules(ctx, id, updated); err != nil {
		return model.GameRules{}, false, err
	}
	return updated, true, nil
}

// Locked reports whether a card is currently in play for the profile
func (s *Service) Locked(ctx context.Context, id model.ProfileID) (bool, error) {
	_, err := s.storage.GetBingoCard(ctx, id)
	if errors.Is(err, model.ErrCardNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Mode returns the game mode the profile's rules correspond to
func (s *Service) Mode(ctx context.Context, id model.ProfileID) (model.GameMode, error) {
	rules, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return model.ModeOf(rules), nil
}

func (s *Service) replace(ctx context.Context, id model.ProfileID, current, updated model.GameRules) (model.GameRules, error) {
	if err := updated.Validate(); err != nil {
		return model.GameRules{}, err
	}

	locked, err := s.Locked(ctx, id)
	if err != nil {
		return model.GameRules{}, err
	}
	if locked {
		if err := CheckLocked(current, updated); err != nil {
			return model.GameRules{}, err
		}
	}

	if err := s.storage.SaveGameRules(ctx, id, updated); err != nil {
		return model.GameRules{}, err
	}
	s.logger.Info("game rules updated",
		"profile_id", id,
		"mode", model.ModeOf(updated),
	)
	return updated, nil
}

// CheckLocked returns model.ErrRulesLocked if moving from current to updated
// would change the layout of an existing card: the grid size, the similar
// category setting, or whether the star tile exists at all.
func CheckLocked(current, updated model.GameRules) error {
	switch {
	case current.GridSize != updated.GridSize:
		return fmt.Errorf("%w: grid size", model.ErrRulesLocked)
	case current.AllowSimilar != updated.AllowSimilar:
		return fmt.Errorf("%w: allow similar", model.ErrRulesLocked)
	case current.Star.Enabled() != updated.Star.Enabled():
		return fmt.Errorf("%w: star tile", model.ErrRulesLocked)
	}
	return nil
}
