package source

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/backlogbingo/internal/metrics"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/dynamic"
	"github.com/mcoot/backlogbingo/internal/services/rules"
	"github.com/mcoot/backlogbingo/internal/storage"
)

// Origin says where a card source came from
type Origin string

const (
	OriginUpload Origin = "upload"
	OriginFetch  Origin = "fetch"
)

// LoadResult is what loading a card source produced
type LoadResult struct {
	Source *model.CardSource

	// Rules are the profile's rules after any source defaults were applied
	Rules        model.GameRules
	RulesApplied bool

	// TemplateErrors lists malformed dynamic tokens. They do not stop the
	// source from loading.
	TemplateErrors []*dynamic.TokenError
}

// Summary describes a stored card source
type Summary struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Version       float64        `json:"version"`
	CategoryCount int            `json:"category_count"`
	DynamicCount  int            `json:"dynamic_count"`
	Groups        []string       `json:"groups"`
	MaxGridSize   model.GridSize `json:"max_grid_size"`
	ShrinkGrid    bool           `json:"shrink_grid"`
}

// Service loads, stores and summarises card sources
type Service struct {
	storage storage.Storage
	rules   *rules.Service
	fetcher *Fetcher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new source Service
func New(storage storage.Storage, rules *rules.Service, fetcher *Fetcher, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		rules:   rules,
		fetcher: fetcher,
		metrics: metrics,
		logger:  logger,
	}
}

// Load parses and validates data, stores the card source for the profile and
// applies its default rules
func (s *Service) Load(ctx context.Context, id model.ProfileID, data []byte, format Format) (*LoadResult, error) {
	doc, err := Decode(data, format)
	if err != nil {
		s.rejected(err)
		return nil, err
	}
	return s.store(ctx, id, doc, OriginUpload)
}

// Fetch downloads a card source and loads it
func (s *Service) Fetch(ctx context.Context, id model.ProfileID, url string) (*LoadResult, error) {
	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.rejected(err)
		return nil, err
	}
	return s.store(ctx, id, doc, OriginFetch)
}

func (s *Service) store(ctx context.Context, id model.ProfileID, doc *Document, origin Origin) (*LoadResult, error) {
	src, err := doc.CardSource()
	if err != nil {
		s.rejected(err)
		return nil, err
	}

	templateErrs := dynamic.ValidateCategories(src.Categories)

	previous, err := s.storage.GetCardSource(ctx, id)
	if err != nil && !errors.Is(err, model.ErrSourceNotFound) {
		return nil, err
	}

	if err := s.storage.SaveCardSource(ctx, id, src); err != nil {
		return nil, err
	}

	updated, applied, err := s.rules.ApplySourceDefaults(ctx, id, src.GameRules)
	if err != nil {
		s.restore(ctx, id, previous)
		return nil, err
	}

	s.metrics.SourceLoaded(string(doc.Format()), string(origin))
	s.logger.Info("card source loaded",
		"profile_id", id,
		"name", src.Name,
		"categories", len(src.Categories),
		"template_errors", len(templateErrs),
		"origin", origin,
	)

	return &LoadResult{
		Source:         src,
		Rules:          updated,
		RulesApplied:   applied,
		TemplateErrors: templateErrs,
	}, nil
}

// restore puts back the card source a failed load replaced, or removes the
// new one when there was none
func (s *Service) restore(ctx context.Context, id model.ProfileID, previous *model.CardSource) {
	var err error
	if previous != nil {
		err = s.storage.SaveCardSource(ctx, id, previous)
	} else {
		err = s.storage.DeleteCardSource(ctx, id)
	}
	if err != nil {
		s.logger.Error("failed to restore card source", "profile_id", id, "error", err)
	}
}

func (s *Service) rejected(err error) {
	var status *StatusError
	reason := "other"
	switch {
	case errors.As(err, &status):
		reason = "download_status"
	case errors.Is(err, ErrInvalidSource):
		reason = "invalid_source"
	case errors.Is(err, ErrInvalidDocument):
		reason = "invalid_document"
	case errors.Is(err, ErrBlockedAddress):
		reason = "blocked_address"
	case errors.Is(err, ErrUnexpectedResponse):
		reason = "unexpected_response"
	case errors.Is(err, ErrWrongDocumentType):
		reason = "wrong_document_type"
	}
	s.metrics.SourceRejected(reason)
	s.logger.Debug("card source rejected", "reason", reason, "error", err)
}

// Get returns the stored card source
func (s *Service) Get(ctx context.Context, id model.ProfileID) (*model.CardSource, error) {
	return s.storage.GetCardSource(ctx, id)
}

// Summarize describes the stored card source
func (s *Service) Summarize(ctx context.Context, id model.ProfileID) (*Summary, error) {
	src, err := s.storage.GetCardSource(ctx, id)
	if err != nil {
		return nil, err
	}
	return Summarize(src), nil
}

// Delete discards the stored card source
func (s *Service) Delete(ctx context.Context, id model.ProfileID) error {
	if _, err := s.storage.GetCardSource(ctx, id); err != nil {
		return err
	}
	return s.storage.DeleteCardSource(ctx, id)
}

// Summarize describes src
func Summarize(src *model.CardSource) *Summary {
	summary := &Summary{
		Name:          src.Name,
		Description:   src.Description,
		Version:       src.Version,
		CategoryCount: len(src.Categories),
		Groups:        src.Groups(),
		ShrinkGrid:    src.ShouldShrinkGrid(),
	}
	if summary.Groups == nil {
		summary.Groups = []string{}
	}
	for _, c := range src.Categories {
		if dynamic.IsDynamic(c.Text) {
			summary.DynamicCount++
		}
	}
	if size, err := src.MaxGridSize(); err == nil {
		summary.MaxGridSize = size
	}
	return summary
}
