// Package bolt stores profiles in a single bbolt database file, one bucket
// per record type keyed by profile ID.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/storage"
)

var (
	profilesBucket  = []byte("profiles")
	gameRulesBucket = []byte("gamerules")
	sourcesBucket   = []byte("card_sources")
	cardsBucket     = []byte("bingo_cards")

	allBuckets = [][]byte{profilesBucket, gameRulesBucket, sourcesBucket, cardsBucket}
)

// Storage is a bbolt-backed implementation of the storage interface
type Storage struct {
	db *bolt.DB
}

// New opens (or creates) the database file and its buckets
func New(cfg Config) (*Storage, error) {
	db, err := bolt.Open(cfg.Path, 0600, &bolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database file
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) put(bucket []byte, id model.ProfileID, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(id), data)
	})
}

func (s *Storage) get(bucket []byte, id model.ProfileID, notFound error, dest any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(id))
		if data == nil {
			return notFound
		}
		// data is only valid inside the transaction; Unmarshal copies it
		return json.Unmarshal(data, dest)
	})
}

func (s *Storage) delete(id model.ProfileID, buckets ...[]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if err := tx.Bucket(name).Delete([]byte(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	return s.put(profilesBucket, profile.ID, profile)
}

func (s *Storage) GetProfile(ctx context.Context, id model.ProfileID) (*model.Profile, error) {
	var profile model.Profile
	if err := s.get(profilesBucket, id, model.ErrProfileNotFound, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	return s.delete(id, allBuckets...)
}

// Game rule operations

func (s *Storage) SaveGameRules(ctx context.Context, id model.ProfileID, rules model.GameRules) error {
	return s.put(gameRulesBucket, id, rules)
}

func (s *Storage) GetGameRules(ctx context.Context, id model.ProfileID) (model.GameRules, error) {
	var rules model.GameRules
	if err := s.get(gameRulesBucket, id, model.ErrRulesNotFound, &rules); err != nil {
		return model.GameRules{}, err
	}
	return rules, nil
}

// Card source operations

func (s *Storage) SaveCardSource(ctx context.Context, id model.ProfileID, source *model.CardSource) error {
	return s.put(sourcesBucket, id, source)
}

func (s *Storage) GetCardSource(ctx context.Context, id model.ProfileID) (*model.CardSource, error) {
	var source model.CardSource
	if err := s.get(sourcesBucket, id, model.ErrSourceNotFound, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

func (s *Storage) DeleteCardSource(ctx context.Context, id model.ProfileID) error {
	return s.delete(id, sourcesBucket)
}

// Bingo card operations

func (s *Storage) SaveBingoCard(ctx context.Context, id model.ProfileID, card *model.BingoCard) error {
	return s.put(cardsBucket, id, card)
}

func (s *Storage) GetBingoCard(ctx context.Context, id model.ProfileID) (*model.BingoCard, error) {
	var card model.BingoCard
	if err := s.get(cardsBucket, id, model.ErrCardNotFound, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *Storage) DeleteBingoCard(ctx context.Context, id model.ProfileID) error {
	return s.delete(id, cardsBucket)
}
