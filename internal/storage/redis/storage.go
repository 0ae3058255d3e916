package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *Storage) getJSON(ctx context.Context, key string, notFound error, dest any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	return s.setJSON(ctx, profileKey(profile.ID), profile, s.cfg.ProfileTTL)
}

func (s *Storage) GetProfile(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	var profile model.Profile
	if err := s.getJSON(ctx, profileKey(id), model.ErrProfileNotFound, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	return s.client.Del(ctx, ownedKeys(id)...).Err()
}

// Game rule operations

func (s *Storage) SaveGameRules(ctx context.Context, id model.ProfileID, rules model.GameRules) error {
	return s.setJSON(ctx, gameRulesKey(id), rules, s.cfg.ProfileTTL)
}

func (s *Storage) GetGameRules(ctx context.Context, id model.ProfileID) (model.GameRules, error) {
	var rules model.GameRules
	if err := s.getJSON(ctx, gameRulesKey(id), model.ErrRulesNotFound, &rules); err != nil {
		return model.GameRules{}, err
	}
	return rules, nil
}

// Card source operations

func (s *Storage) SaveCardSource(ctx context.Context, id model.ProfileID, source *model.CardSource) error {
	return s.setJSON(ctx, cardSourceKey(id), source, s.cfg.SourceTTL)
}

func (s *Storage) GetCardSource(ctx context.Context, id model.ProfileID) (*model.CardSource, error) {
	var source model.CardSource
	if err := s.getJSON(ctx, cardSourceKey(id), model.ErrSourceNotFound, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

func (s *Storage) DeleteCardSource(ctx context.Context, id model.ProfileID) error {
	return s.client.Del(ctx, cardSourceKey(id)).Err()
}

// Bingo card operations

func (s *Storage) SaveBingoCard(ctx context.Context, id model.ProfileID, card *model.BingoCard) error {
	return s.setJSON(ctx, bingoCardKey(id), card, s.cfg.ProfileTTL)
}

func (s *Storage) GetBingoCard(ctx context.Context, id model.ProfileID) (*model.BingoCard, error) {
	var card model.BingoCard
	if err := s.getJSON(ctx, bingoCardKey(id), model.ErrCardNotFound, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *Storage) DeleteBingoCard(ctx context.Context, id model.ProfileID) error {
	return s.client.Del(ctx, bingoCardKey(id)).Err()
}
