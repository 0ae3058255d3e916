package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryIDAcceptsStringsAndNumbers(t *testing.T) {
	var cats []Category
	err := json.Unmarshal([]byte(`[{"id":"abc","name":"One"},{"id":42,"name":"Two"},{"name":"Three"}]`), &cats)
	require.NoError(t, err)

	assert.Equal(t, CategoryID("abc"), cats[0].ID)
	assert.Equal(t, CategoryID("42"), cats[1].ID)
	assert.Equal(t, CategoryID(""), cats[2].ID)
}

func TestCategoryIDRejectsObjects(t *testing.T) {
	var cat Category
	err := json.Unmarshal([]byte(`{"id":{"nested":true},"name":"Bad"}`), &cat)
	assert.Error(t, err)
}

func TestCategoryGroupKey(t *testing.T) {
	assert.Empty(t, Category{}.GroupKey())
	assert.Empty(t, Category{NumericGroup: true}.GroupKey())
	assert.Equal(t, "$1", Category{Group: "1"}.GroupKey())
	assert.Equal(t, "#1", Category{Group: "1", NumericGroup: true}.GroupKey())
	assert.Equal(t, "$#1", Category{Group: "#1"}.GroupKey())
}

func TestInsufficientCategoriesError(t *testing.T) {
	err := error(&InsufficientCategoriesError{Have: 5, Need: 9})

	assert.True(t, errors.Is(err, ErrNotEnoughCategories))
	assert.Contains(t, err.Error(), "have 5, need 9")

	var ice *InsufficientCategoriesError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, 9, ice.Need)
}

func TestCardSourceGroupsAndGrid(t *testing.T) {
	src := &CardSource{Categories: []Category{
		{ID: "1", Group: "a"}, {ID: "2"}, {ID: "3", Group: "b"}, {ID: "4", Group: "a"},
		{ID: "5"}, {ID: "6"}, {ID: "7"}, {ID: "8"}, {ID: "9"},
	}}

	assert.Equal(t, []string{"a", "b"}, src.Groups())

	size, err := src.MaxGridSize()
	require.NoError(t, err)
	assert.Equal(t, GridSmall, size)
	assert.True(t, src.ShouldShrinkGrid())
}

func TestMaxGridSize(t *testing.T) {
	size, err := MaxGridSize(49)
	require.NoError(t, err)
	assert.Equal(t, GridLarge, size)

	size, err = MaxGridSize(48)
	require.NoError(t, err)
	assert.Equal(t, GridMedium, size)

	_, err = MaxGridSize(8)
	assert.ErrorIs(t, err, ErrInvalidGridSize)
}

func TestBingoCardClone(t *testing.T) {
	entry := "Celeste"
	card := &BingoCard{Name: "Test", Categories: []CardCategory{{ID: "1", Text: "Platformer", Entry: &entry}}}

	clone := card.Clone()
	*clone.Categories[0].Entry = "Hollow Knight"

	assert.Equal(t, "Celeste", *card.Categories[0].Entry)
	assert.True(t, card.Categories[0].IsMarked())
}
