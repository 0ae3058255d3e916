package model

import "time"

// CardExport is the document written when a card is exported. The
// "exported" key is what distinguishes it from a card source.
type CardExport struct {
	Exported   time.Time      `json:"exported"`
	Name       string         `json:"name"`
	Categories []CardCategory `json:"categories"`
	GameRules  GameRules      `json:"gamerules"`
	StarEntry  *string        `json:"starEntry,omitempty"`
}
