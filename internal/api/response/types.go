package response

import (
	"time"

	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/card"
	"github.com/mcoot/backlogbingo/internal/services/dynamic"
	"github.com/mcoot/backlogbingo/internal/services/selector"
	"github.com/mcoot/backlogbingo/internal/services/source"
)

// Profile represents a profile in API responses
type Profile struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileFromModel converts a model.Profile
func ProfileFromModel(p *model.Profile) Profile {
	return Profile{
		ID:        string(p.ID),
		CreatedAt: p.CreatedAt,
	}
}

// CreateProfileResponse is returned when a profile is created. The token
// authenticates later requests.
type CreateProfileResponse struct {
	Profile Profile         `json:"profile"`
	Token   string          `json:"token"`
	Rules   model.GameRules `json:"rules"`
}

// RulesResponse is a profile's game rules with the preset they match
type RulesResponse struct {
	Rules model.GameRules `json:"rules"`
	Mode  model.GameMode  `json:"mode"`

	// Locked is true while a card is in play
	Locked bool `json:"locked"`
}

// TemplateError describes a malformed dynamic token
type TemplateError struct {
	Token   string `json:"token"`
	Line    string `json:"line"`
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

// TemplateErrorsFrom converts token errors, never returning nil so the field
// always encodes as a list
func TemplateErrorsFrom(errs []*dynamic.TokenError) []TemplateError {
	out := make([]TemplateError, 0, len(errs))
	for _, e := range errs {
		out = append(out, TemplateError{
			Token:   e.Token,
			Line:    e.Line,
			Message: e.Error(),
			Hint:    e.Hint(),
		})
	}
	return out
}

// SourceLoadedResponse is returned when a card source is uploaded or fetched
type SourceLoadedResponse struct {
	Source         *source.Summary `json:"source"`
	Rules          model.GameRules `json:"rules"`
	RulesApplied   bool            `json:"rules_applied"`
	TemplateErrors []TemplateError `json:"template_errors"`
}

// SourceLoadedFromResult converts a source.LoadResult
func SourceLoadedFromResult(res *source.LoadResult) SourceLoadedResponse {
	return SourceLoadedResponse{
		Source:         source.Summarize(res.Source),
		Rules:          res.Rules,
		RulesApplied:   res.RulesApplied,
		TemplateErrors: TemplateErrorsFrom(res.TemplateErrors),
	}
}

// CardResponse is a card laid out as a grid
type CardResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	Grid      *card.Grid `json:"grid"`
}

// CardFromModel combines a card with its grid
func CardFromModel(c *model.BingoCard, grid *card.Grid) CardResponse {
	return CardResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		Grid:      grid,
	}
}

// GeneratedCardResponse is a newly generated card and how it was built
type GeneratedCardResponse struct {
	Card           CardResponse    `json:"card"`
	Selection      selector.Stats  `json:"selection"`
	TemplateErrors []TemplateError `json:"template_errors"`
}

// GeneratedCardFromResult converts a card.Result
func GeneratedCardFromResult(res *card.Result, grid *card.Grid) GeneratedCardResponse {
	return GeneratedCardResponse{
		Card:           CardFromModel(res.Card, grid),
		Selection:      res.Report.Selection,
		TemplateErrors: TemplateErrorsFrom(res.Report.TemplateErrors),
	}
}

// HealthResponse is the liveness answer
type HealthResponse struct {
	Status string `json:"status"`
}
