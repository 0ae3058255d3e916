package source

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/backlogbingo/internal/dependencies/random"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/selector"
	"github.com/mcoot/backlogbingo/internal/testutil"
)

type DocumentSuite struct {
	suite.Suite
}

func TestDocumentSuite(t *testing.T) {
	suite.Run(t, new(DocumentSuite))
}

func categoriesJSON(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"name":"Category %d"}`, i+1)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func (s *DocumentSuite) decode(data string, format Format) *Document {
	doc, err := Decode([]byte(data), format)
	s.Require().NoError(err)
	return doc
}

func (s *DocumentSuite) validationErrors(err error) []string {
	var verrs *ValidationErrors
	s.Require().True(errors.As(err, &verrs), "expected *ValidationErrors, got %v", err)
	s.ErrorIs(err, ErrInvalidSource)
	return verrs.Lines()
}

// Decoding

func (s *DocumentSuite) TestDecodeRejectsEmpty() {
	_, err := Decode([]byte("  \n"), FormatJSON)
	s.ErrorIs(err, ErrInvalidDocument)
}

func (s *DocumentSuite) TestDecodeRejectsSyntaxErrors() {
	_, err := Decode([]byte(`{"name": `), FormatJSON)
	s.ErrorIs(err, ErrInvalidDocument)

	_, err = Decode([]byte("name: [unclosed"), FormatYAML)
	s.ErrorIs(err, ErrInvalidDocument)
}

func (s *DocumentSuite) TestDecodeRejectsNonObjects() {
	_, err := Decode([]byte(`[1, 2, 3]`), FormatJSON)
	s.ErrorIs(err, ErrInvalidDocument)
}

func (s *DocumentSuite) TestDetermineType() {
	s.Equal(TypeCardSource, s.decode(`{"name":"x"}`, FormatJSON).DetermineType())
	s.Equal(TypeBingoExport, s.decode(`{"exported":"2025-01-01T00:00:00Z"}`, FormatJSON).DetermineType())
}

// Card sources

func (s *DocumentSuite) TestValidCardSource() {
	doc := s.decode(`{
		"version": 1,
		"name": "Backlog",
		"description": "Games I own",
		"gamerules": {"gridSize": "small", "star": "free", "allowDuplicates": true, "seed": "abc"},
		"categories": [
			{"id": 7, "name": "Play NUMBER[1,5] hours", "group": 1},
			{"id": "x", "cat": "Legacy key"},
			{"name": "Three", "group": "g"},
			{"name": "Four"}, {"name": "Five"}, {"name": "Six"},
			{"name": "Seven"}, {"name": "Eight"}, {"name": "Nine"}
		]
	}`, FormatJSON)

	src, err := doc.CardSource()
	s.Require().NoError(err)

	s.Equal(1.0, src.Version)
	s.Equal("Backlog", src.Name)
	s.Equal("Games I own", src.Description)
	s.Require().Len(src.Categories, 9)

	s.Equal(model.Category{ID: "7", Text: "Play NUMBER[1,5] hours", Group: "1", NumericGroup: true, Dynamic: true}, src.Categories[0])
	s.Equal(model.Category{ID: "x", Text: "Legacy key"}, src.Categories[1])
	s.Equal(model.CategoryID("cat-3"), src.Categories[2].ID)
	s.Equal("g", src.Categories[2].Group)

	s.Require().NotNil(src.GameRules)
	s.Equal(model.GridSmall, *src.GameRules.GridSize)
	s.Equal(model.StarFree, *src.GameRules.Star)
	s.True(*src.GameRules.AllowSimilar)
	s.Equal("abc", *src.GameRules.Seed)
	s.Nil(src.GameRules.WinCondition)
}


func (s *DocumentSuite) TestCategoryGroups() {
	doc := s.decode(`{
		"version": 1,
		"name": "Groups",
		"categories": [
			{"name": "One", "group": 0},
			{"name": "Two", "group": 0.0},
			{"name": "Three", "group": ""},
			{"name": "Four", "group": 1},
			{"name": "Five", "group": "1"},
			{"name": "Six", "group": 1.0},
			{"name": "Seven"}, {"name": "Eight"}, {"name": "Nine"}
		]
	}`, FormatJSON)

	src, err := doc.CardSource()
	s.Require().NoError(err)

	for _, c := range src.Categories[:3] {
		s.Empty(c.GroupKey(), c.Text)
	}
	s.Equal(src.Categories[3].GroupKey(), src.Categories[5].GroupKey())
	s.NotEqual(src.Categories[3].GroupKey(), src.Categories[4].GroupKey())
	s.Equal([]string{"1", "1"}, src.Groups())
}

func (s *DocumentSuite) TestZeroGroupDoesNotDeferSelection() {
	var b strings.Builder
	b.WriteString(`{"version": 1, "name": "Zero", "categories": [`)
	for i := 1; i <= 9; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		if i <= 2 {
			fmt.Fprintf(&b, `{"name": "Category %d", "group": 0}`, i)
		} else {
			fmt.Fprintf(&b, `{"name": "Category %d"}`, i)
		}
	}
	b.WriteString("]}")

	src, err := s.decode(b.String(), FormatJSON).CardSource()
	s.Require().NoError(err)

	selected, stats, err := selector.New(testutil.NopLogger()).Select(src.Categories, 9, false, random.NewSeeded("z"))
	s.Require().NoError(err)

	var got []model.CategoryID
	for _, c := range selected {
		got = append(got, c.ID)
	}
	s.Equal([]model.CategoryID{"cat-6", "cat-1", "cat-3", "cat-7", "cat-4", "cat-2", "cat-8", "cat-9", "cat-5"}, got)
	s.Equal(1, stats.Passes)
	s.Zero(stats.Discards)
}
func (s *DocumentSuite) TestValidYAMLCardSource() {
	var b strings.Builder
	b.WriteString("version: 2\nname: YAML list\ngamerules:\n  gridSize: medium\ncategories:\n")
	for i := 1; i <= 9; i++ {
		fmt.Fprintf(&b, "  - id: %d\n    name: Category %d\n    group: %s\n", i, i, []string{"a", "b", "c"}[i%3])
	}

	src, err := s.decode(b.String(), FormatYAML).CardSource()
	s.Require().NoError(err)

	s.Equal(2.0, src.Version)
	s.Len(src.Categories, 9)
	s.Equal(model.CategoryID("1"), src.Categories[0].ID)
	s.Equal("b", src.Categories[0].Group)
	s.Equal([]string{"b", "c", "a"}, src.Groups())
}

func (s *DocumentSuite) TestMissingRequiredKeys() {
	_, err := s.decode(`{"description": "nothing else"}`, FormatJSON).CardSource()

	s.Equal([]string{
		"version: missing required key",
		"name: missing required key",
		"categories: missing required key",
	}, s.validationErrors(err))
}

func (s *DocumentSuite) TestCollectsEveryViolation() {
	doc := s.decode(`{
		"version": "one",
		"name": 5,
		"extra": true,
		"gamerules": {"star": "sparkly", "allowSimilar": "yes", "lockRandom": false},
		"categories": `+categoriesJSON(9)+`
	}`, FormatJSON)

	_, err := doc.CardSource()

	s.Equal([]string{
		"extra: unknown key",
		"version: expected a number",
		"name: expected a string",
		"gamerules.lockRandom: unknown key",
		`gamerules.star: invalid value "sparkly", expected one of: wildcard, free, disabled`,
		"gamerules.allowSimilar: expected a boolean",
	}, s.validationErrors(err))
}

func (s *DocumentSuite) TestTooFewCategories() {
	doc := s.decode(`{"version": 1, "name": "Short", "categories": `+categoriesJSON(5)+`}`, FormatJSON)

	_, err := doc.CardSource()

	s.Equal([]string{"categories: has 5 entries, need at least 9"}, s.validationErrors(err))
}

func (s *DocumentSuite) TestBadCategoryEntries() {
	doc := s.decode(`{"version": 1, "name": "Bad", "categories": [
		"just a string",
		{"id": {"nested": true}, "name": "Bad id"},
		{"group": "g"},
		{"name": "Fine", "colour": "red"},
		{"name": "5"}, {"name": "6"}, {"name": "7"}, {"name": "8"}, {"name": "9"}
	]}`, FormatJSON)

	_, err := doc.CardSource()

	s.Equal([]string{
		"categories[0]: expected an object",
		"categories[1].id: expected a string or number",
		`categories[2]: missing required key "name"`,
		"categories[3].colour: unknown key",
	}, s.validationErrors(err))
}

func (s *DocumentSuite) TestDuplicateAndEmptyCategories() {
	doc := s.decode(`{"version": 1, "name": "Dupes", "categories": [
		{"id": 1, "name": "One"}, {"id": "1", "name": "Also one"}, {"name": "  "},
		{"name": "4"}, {"name": "5"}, {"name": "6"}, {"name": "7"}, {"name": "8"}, {"name": "9"}
	]}`, FormatJSON)

	_, err := doc.CardSource()

	s.Equal([]string{
		`categories[1].id: duplicate id "1" (also used by categories[0])`,
		"categories[2].name: must not be empty",
	}, s.validationErrors(err))
}

func (s *DocumentSuite) TestExportIsNotACardSource() {
	_, err := s.decode(`{"exported": "2025-01-01T00:00:00Z"}`, FormatJSON).CardSource()
	s.ErrorIs(err, ErrWrongDocumentType)
}

// Exports

func (s *DocumentSuite) TestValidExport() {
	cats := make([]string, 8)
	for i := range cats {
		cats[i] = fmt.Sprintf(`{"id": %d, "text": "Cat %d"}`, i+1, i+1)
	}
	cats[0] = `{"id": 1, "text": "Cat 1", "entry": "Celeste"}`

	doc := s.decode(`{
		"exported": "2025-03-14T10:00:00Z",
		"name": "Imported",
		"gamerules": {"winCondition": "row-col", "gridSize": "small", "golf": false, "allowSimilar": false, "star": "free", "seed": ""},
		"categories": [`+strings.Join(cats, ",")+`]
	}`, FormatJSON)

	export, err := doc.Export()
	s.Require().NoError(err)

	s.Equal("Imported", export.Name)
	s.Equal(2025, export.Exported.Year())
	s.Len(export.Categories, 8)
	s.Equal(model.CategoryID("1"), export.Categories[0].ID)
	s.Require().NotNil(export.Categories[0].Entry)
	s.Equal("Celeste", *export.Categories[0].Entry)
	s.Equal(model.GridSmall, export.GameRules.GridSize)
}

func (s *DocumentSuite) TestExportWithWrongCategoryCount() {
	doc := s.decode(`{
		"exported": "2025-03-14T10:00:00Z",
		"name": "Imported",
		"gamerules": {"winCondition": "row-col", "gridSize": "small", "star": "disabled"},
		"categories": [{"id": 1, "text": "Only one"}]
	}`, FormatJSON)

	_, err := doc.Export()

	s.Equal([]string{"categories: has 1 entries, a small card needs 9"}, s.validationErrors(err))
}

func (s *DocumentSuite) TestCardSourceIsNotAnExport() {
	_, err := s.decode(`{"name": "x"}`, FormatJSON).Export()
	s.ErrorIs(err, ErrWrongDocumentType)
}

// Formats

func (s *DocumentSuite) TestFormatDetection() {
	s.Equal(FormatYAML, FormatFromContentType("application/yaml"))
	s.Equal(FormatYAML, FormatFromContentType("text/x-yaml; charset=utf-8"))
	s.Equal(FormatJSON, FormatFromContentType("application/json"))
	s.Equal(FormatJSON, FormatFromContentType(""))

	s.Equal(FormatYAML, FormatFromPath("/lists/backlog.yml", FormatJSON))
	s.Equal(FormatJSON, FormatFromPath("/lists/backlog.json", FormatYAML))
	s.Equal(FormatYAML, FormatFromPath("/lists/backlog", FormatYAML))
}
