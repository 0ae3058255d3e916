package request

import "github.com/mcoot/backlogbingo/internal/model"

// ResetRulesRequest is the request body for resetting rules to a preset
type ResetRulesRequest struct {
	Mode model.GameMode `json:"mode"`
}

// FetchSourceRequest is the request body for downloading a card source
type FetchSourceRequest struct {
	URL string `json:"url"`
}

// GenerateCardRequest is the request body for generating a card. An empty
// name uses the card source's name.
type GenerateCardRequest struct {
	Name string `json:"name,omitempty"`
}

// SetEntryRequest is the request body for marking a cell. An empty entry
// clears the cell.
type SetEntryRequest struct {
	Entry string `json:"entry"`
}

// PreviewCardRequest is the request body for a stateless card. Rules are
// applied over the standard preset.
type PreviewCardRequest struct {
	Name       string            `json:"name"`
	Rules      *model.RulesPatch `json:"rules,omitempty"`
	Categories []model.Category  `json:"categories"`
}
