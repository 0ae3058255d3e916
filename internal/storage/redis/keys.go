package redis

import (
	"fmt"

	"github.com/mcoot/backlogbingo/internal/model"
)

// Key prefix for all bingo data
const keyPrefix = "bingo"

func profileKey(id model.ProfileID) string {
	return fmt.Sprintf("%s:profile:%s", keyPrefix, id)
}

func gameRulesKey(id model.ProfileID) string {
	return fmt.Sprintf("%s:gamerules:%s", keyPrefix, id)
}

func cardSourceKey(id model.ProfileID) string {
	return fmt.Sprintf("%s:card_source:%s", keyPrefix, id)
}

func bingoCardKey(id model.ProfileID) string {
	return fmt.Sprintf("%s:bingo_card:%s", keyPrefix, id)
}

// ownedKeys returns every key belonging to a profile
func ownedKeys(id model.ProfileID) []string {
	return []string{profileKey(id), gameRulesKey(id), cardSourceKey(id), bingoCardKey(id)}
}
