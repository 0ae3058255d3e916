package profile

import (
	"context"
	"log/slog"

	"github.com/mcoot/backlogbingo/internal/dependencies/clock"
	"github.com/mcoot/backlogbingo/internal/dependencies/ids"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/storage"
)

// Service creates and looks up profiles
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	ids     ids.Generator
	logger  *slog.Logger
}

// New creates a new profile Service
func New(storage storage.Storage, clock clock.Clock, ids ids.Generator, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		ids:     ids,
		logger:  logger,
	}
}

// Create makes a new profile with standard game rules
func (s *Service) Create(ctx context.Context) (*model.Profile, error) {
	profile := &model.Profile{
		ID:        model.ProfileID(s.ids.NewID()),
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	if err := s.storage.SaveGameRules(ctx, profile.ID, model.DefaultGameRules()); err != nil {
		return nil, err
	}

	s.logger.Info("profile created", "profile_id", profile.ID)
	return profile, nil
}

// Get looks up a profile
func (s *Service) Get(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	return s.storage.GetProfile(ctx, id)
}

// Delete removes a profile and everything it owns
func (s *Service) Delete(ctx context.Context, id model.ProfileID) error {
	if _, err := s.storage.GetProfile(ctx, id); err != nil {
		return err
	}
	if err := s.storage.DeleteProfile(ctx, id); err != nil {
		return err
	}
	s.logger.Info("profile deleted", "profile_id", id)
	return nil
}
