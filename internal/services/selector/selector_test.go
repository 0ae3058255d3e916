package selector

import (
	"fmt"
	"testing"

	"github.com/mcoot/backlogbingo/internal/dependencies/mocks"
	"github.com/mcoot/backlogbingo/internal/dependencies/random"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type SelectorSuite struct {
	suite.Suite
	selector *Selector
}

func TestSelectorSuite(t *testing.T) {
	suite.Run(t, new(SelectorSuite))
}

func (s *SelectorSuite) SetupTest() {
	s.selector = New(testutil.NopLogger())
}

func ungroupedPool(n int) []model.Category {
	pool := make([]model.Category, n)
	for i := range pool {
		id := fmt.Sprintf("c%d", i+1)
		pool[i] = model.Category{ID: model.CategoryID(id), Text: "Cat " + id}
	}
	return pool
}

func groupedPool() []model.Category {
	return []model.Category{
		{ID: "a1", Text: "A1", Group: "a"},
		{ID: "a2", Text: "A2", Group: "a"},
		{ID: "a3", Text: "A3", Group: "a"},
		{ID: "b1", Text: "B1", Group: "b"},
		{ID: "b2", Text: "B2", Group: "b"},
		{ID: "c1", Text: "C1"},
	}
}

func ids(cats []model.Category) []model.CategoryID {
	out := make([]model.CategoryID, len(cats))
	for i, c := range cats {
		out[i] = c.ID
	}
	return out
}

func (s *SelectorSuite) TestSeededSelectionIsReproducible() {
	pool := ungroupedPool(9)

	first, _, err := s.selector.Select(pool, 9, false, random.NewSeeded("test"))
	s.Require().NoError(err)
	second, _, err := s.selector.Select(pool, 9, false, random.NewSeeded("test"))
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal([]model.CategoryID{"c8", "c1", "c6", "c9", "c7", "c2", "c4", "c3", "c5"}, ids(first))
}

func (s *SelectorSuite) TestSelectsFirstKOfShuffle() {
	selected, stats, err := s.selector.Select(ungroupedPool(9), 8, false, random.NewSeeded("test"))

	s.Require().NoError(err)
	s.Equal([]model.CategoryID{"c8", "c1", "c6", "c9", "c7", "c2", "c4", "c3"}, ids(selected))
	s.Equal(Stats{Passes: 1}, stats)
}

func (s *SelectorSuite) TestNoDuplicatesForEveryK() {
	pool := ungroupedPool(12)

	for k := 1; k <= len(pool); k++ {
		selected, _, err := s.selector.Select(pool, k, false, random.NewSeeded(fmt.Sprint("k", k)))
		s.Require().NoError(err)
		s.Len(selected, k)

		seen := make(map[model.CategoryID]bool)
		for _, c := range selected {
			s.False(seen[c.ID], "duplicate %s for k=%d", c.ID, k)
			seen[c.ID] = true
		}
	}
}

func (s *SelectorSuite) TestSpreadsGroupsAcrossPasses() {
	selected, stats, err := s.selector.Select(groupedPool(), 6, false, random.NewSeeded("groups"))

	s.Require().NoError(err)
	s.Equal([]model.CategoryID{"a1", "c1", "b1", "a3", "b2", "a2"}, ids(selected))
	s.Equal(3, stats.Passes)
	s.Equal(4, stats.Discards)
}

func (s *SelectorSuite) TestAllowSimilarKeepsShuffleOrder() {
	selected, stats, err := s.selector.Select(groupedPool(), 6, true, random.NewSeeded("groups"))

	s.Require().NoError(err)
	s.Equal([]model.CategoryID{"a1", "a3", "c1", "a2", "b1", "b2"}, ids(selected))
	s.Equal(Stats{Passes: 1}, stats)
}

func (s *SelectorSuite) TestSingleGroupFallsBackAcrossPasses() {
	pool := make([]model.Category, 9)
	for i := range pool {
		pool[i] = model.Category{ID: model.CategoryID(fmt.Sprintf("x%d", i+1)), Group: "same"}
	}

	selected, stats, err := s.selector.Select(pool, 9, false, random.NewSeeded("one"))
	s.Require().NoError(err)
	s.Equal([]model.CategoryID{"x7", "x1", "x4", "x2", "x9", "x8", "x3", "x6", "x5"}, ids(selected))
	s.Equal(9, stats.Passes)
	s.Equal(36, stats.Discards)

	selected, stats, err = s.selector.Select(pool, 5, false, random.NewSeeded("one"))
	s.Require().NoError(err)
	s.Len(selected, 5)
	s.Equal(5, stats.Passes)
	s.Equal(26, stats.Discards)
}

func (s *SelectorSuite) TestNumericAndStringGroupsDiffer() {
	pool := []model.Category{
		{ID: "n1", Text: "N1", Group: "1", NumericGroup: true},
		{ID: "s1", Text: "S1", Group: "1"},
	}

	selected, stats, err := s.selector.Select(pool, 2, false, random.NewSeeded("groups"))
	s.Require().NoError(err)
	s.Len(selected, 2)
	s.Equal(1, stats.Passes)
	s.Zero(stats.Discards)

	pool[1].NumericGroup = true
	_, stats, err = s.selector.Select(pool, 2, false, random.NewSeeded("groups"))
	s.Require().NoError(err)
	s.Equal(2, stats.Passes)
	s.Equal(1, stats.Discards)
}

func (s *SelectorSuite) TestGroupsAreStripped() {
	pool := groupedPool()
	pool[0].Dynamic = true

	selected, _, err := s.selector.Select(pool, 6, false, random.NewSeeded("groups"))
	s.Require().NoError(err)

	for _, c := range selected {
		s.Empty(c.Group)
		s.False(c.NumericGroup)
		s.False(c.Dynamic)
	}
	s.Equal("a", pool[0].Group)
	s.True(pool[0].Dynamic)
}

func (s *SelectorSuite) TestInsufficientPool() {
	src := mocks.NewMockRandom(0.5)

	selected, _, err := s.selector.Select(ungroupedPool(5), 9, false, src)

	s.Nil(selected)
	s.ErrorIs(err, model.ErrNotEnoughCategories)
	s.EqualError(err, "not enough categories provided (have 5, need 9)")
	s.Equal(0, src.Calls())
}

func (s *SelectorSuite) TestZeroK() {
	selected, _, err := s.selector.Select(ungroupedPool(3), 0, false, random.NewSeeded("x"))

	s.Require().NoError(err)
	s.Empty(selected)
}
