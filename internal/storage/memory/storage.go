package memory

import (
	"context"
	"sync"

	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. Values
// are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	profiles map[model.ProfileID]model.Profile
	rules    map[model.ProfileID]model.GameRules
	sources  map[model.ProfileID]*model.CardSource
	cards    map[model.ProfileID]*model.BingoCard
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles: make(map[model.ProfileID]model.Profile),
		rules:    make(map[model.ProfileID]model.GameRules),
		sources:  make(map[model.ProfileID]*model.CardSource),
		cards:    make(map[model.ProfileID]*model.BingoCard),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = *profile
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return &profile, nil
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
	delete(s.rules, id)
	delete(s.sources, id)
	delete(s.cards, id)
	return nil
}

// Game rule operations

func (s *Storage) SaveGameRules(ctx context.Context, id model.ProfileID, rules model.GameRules) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[id] = rules
	return nil
}

func (s *Storage) GetGameRules(ctx context.Context, id model.ProfileID) (model.GameRules, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules, ok := s.rules[id]
	if !ok {
		return model.GameRules{}, model.ErrRulesNotFound
	}
	return rules, nil
}

// Card source operations

func (s *Storage) SaveCardSource(ctx context.Context, id model.ProfileID, source *model.CardSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[id] = source.Clone()
	return nil
}

func (s *Storage) GetCardSource(ctx context.Context, id model.ProfileID) (*model.CardSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	if !ok {
		return nil, model.ErrSourceNotFound
	}
	return source.Clone(), nil
}

func (s *Storage) DeleteCardSource(ctx context.Context, id model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
	return nil
}

// Bingo card operations

func (s *Storage) SaveBingoCard(ctx context.Context, id model.ProfileID, card *model.BingoCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[id] = card.Clone()
	return nil
}

func (s *Storage) GetBingoCard(ctx context.Context, id model.ProfileID) (*model.BingoCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.cards[id]
	if !ok {
		return nil, model.ErrCardNotFound
	}
	return card.Clone(), nil
}

func (s *Storage) DeleteBingoCard(ctx context.Context, id model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cards, id)
	return nil
}
