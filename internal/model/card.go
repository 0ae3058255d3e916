package model

import "time"

// CardCategory is one selected, expanded category on a card
type CardCategory struct {
	ID   CategoryID `json:"id"`
	Text string     `json:"text"`

	// Entry is what the player wrote against this category; nil when unmarked
	Entry *string `json:"entry,omitempty"`
}

// IsMarked reports whether the player has entered something
func (c CardCategory) IsMarked() bool {
	return c.Entry != nil && *c.Entry != ""
}

// BingoCard is a generated card. Categories are in selection order.
type BingoCard struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Categories []CardCategory `json:"categories"`
	CreatedAt  time.Time      `json:"createdAt"`

	// StarEntry is the entry against a wildcard star tile
	StarEntry *string `json:"starEntry,omitempty"`
}

// Clone returns a deep copy of the card
func (c *BingoCard) Clone() *BingoCard {
	clone := *c
	clone.Categories = make([]CardCategory, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Entry != nil {
			entry := *cat.Entry
			cat.Entry = &entry
		}
		clone.Categories[i] = cat
	}
	if c.StarEntry != nil {
		entry := *c.StarEntry
		clone.StarEntry = &entry
	}
	return &clone
}
