package model

import "time"

// ProfileID identifies one player's saved state
type ProfileID string

// Profile owns a set of game rules, a card source and a card
type Profile struct {
	ID        ProfileID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
