package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/dynamic"
)

// Format is the encoding of an uploaded or downloaded document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromContentType picks YAML for any yaml media type and JSON otherwise
func FormatFromContentType(contentType string) Format {
	if strings.Contains(strings.ToLower(contentType), "yaml") {
		return FormatYAML
	}
	return FormatJSON
}

// FormatFromPath picks a format from a file name or URL path extension,
// falling back to fallback
func FormatFromPath(path string, fallback Format) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	}
	return fallback
}

// DocumentType tells card sources apart from exported cards
type DocumentType string

const (
	TypeCardSource  DocumentType = "category-list"
	TypeBingoExport DocumentType = "bingo-import"
)

// Document is a decoded but not yet validated upload
type Document struct {
	tree   map[string]any
	format Format
}

// Decode parses data as JSON or YAML. Syntax errors and non-object documents
// wrap ErrInvalidDocument.
func Decode(data []byte, format Format) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidDocument)
	}

	var tree any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
	default:
		format = FormatJSON
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidDocument)
		}
	}

	obj, ok := tree.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object at the top level", ErrInvalidDocument)
	}
	return &Document{tree: obj, format: format}, nil
}

// Format is the encoding the document was decoded from
func (d *Document) Format() Format {
	return d.format
}

// DetermineType reports whether the document is an exported card or a card
// source, based on the presence of the "exported" key
func (d *Document) DetermineType() DocumentType {
	if _, ok := d.tree["exported"]; ok {
		return TypeBingoExport
	}
	return TypeCardSource
}

// CardSource validates the document and builds a card source from it. All
// violations are reported together as *ValidationErrors. Categories without
// an ID are numbered "cat-1", "cat-2", ... by position, and dynamic text is
// flagged.
func (d *Document) CardSource() (*model.CardSource, error) {
	if d.DetermineType() != TypeCardSource {
		return nil, fmt.Errorf("%w: document is an exported card", ErrWrongDocumentType)
	}

	errs := &ValidationErrors{}
	validate(d.tree, cardSourceSchema, "", errs)
	if err := errs.err(); err != nil {
		return nil, err
	}

	src := &model.CardSource{
		Version:     toFloat(d.tree["version"]),
		Name:        d.tree["name"].(string),
		Description: stringOr(d.tree["description"]),
	}
	if raw, ok := d.tree["gamerules"].(map[string]any); ok {
		src.GameRules = buildRulesPatch(raw)
	}

	seen := make(map[model.CategoryID]int)
	for i, item := range d.tree["categories"].([]any) {
		raw := item.(map[string]any)
		path := fmt.Sprintf("categories[%d]", i)

		text, ok := raw["name"].(string)
		if !ok {
			text, _ = raw["cat"].(string)
		}
		if strings.TrimSpace(text) == "" {
			errs.add(path+".name", "must not be empty")
		}

		id := model.CategoryID(scalarString(raw["id"]))
		if id == "" {
			id = model.CategoryID(fmt.Sprintf("cat-%d", i+1))
		}
		if prev, dup := seen[id]; dup {
			errs.add(path+".id", "duplicate id %q (also used by categories[%d])", id, prev)
		}
		seen[id] = i

		group, numeric := categoryGroup(raw["group"])
		src.Categories = append(src.Categories, model.Category{
			ID:           id,
			Text:         text,
			Group:        group,
			NumericGroup: numeric,
		})
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	src.Categories = dynamic.MarkDynamic(src.Categories)
	return src, nil
}

// Export validates the document as an exported card
func (d *Document) Export() (*model.CardExport, error) {
	if d.DetermineType() != TypeBingoExport {
		return nil, fmt.Errorf("%w: document is not an exported card", ErrWrongDocumentType)
	}

	// The tree only holds JSON-compatible values, so a round trip gives
	// the typed form.
	data, err := json.Marshal(d.tree)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	var export model.CardExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	errs := &ValidationErrors{}
	if export.Name == "" {
		errs.add("name", "missing required key")
	}
	if err := export.GameRules.Validate(); err != nil {
		errs.add("gamerules", "%v", err)
	} else if want := export.GameRules.CategoryCount(); len(export.Categories) != want {
		errs.add("categories", "has %d entries, a %s card needs %d", len(export.Categories), export.GameRules.GridSize, want)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return &export, nil
}

func buildRulesPatch(raw map[string]any) *model.RulesPatch {
	patch := &model.RulesPatch{}
	if v, ok := raw["winCondition"].(string); ok {
		w := model.WinCondition(v)
		patch.WinCondition = &w
	}
	if v, ok := raw["gridSize"].(string); ok {
		g := model.GridSize(v)
		patch.GridSize = &g
	}
	if v, ok := raw["star"].(string); ok {
		st := model.StarMode(v)
		patch.Star = &st
	}
	if v, ok := raw["golf"].(bool); ok {
		patch.Golf = &v
	}
	if v, ok := raw["allowSimilar"].(bool); ok {
		patch.AllowSimilar = &v
	} else if v, ok := raw["allowDuplicates"].(bool); ok {
		patch.AllowSimilar = &v
	}
	if v, ok := raw["seed"].(string); ok {
		patch.Seed = &v
	}
	return patch
}

func stringOr(v any) string {
	s, _ := v.(string)
	return s
}

// scalarString renders a string or number value as a string
func scalarString(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case json.Number:
		return n.String()
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// categoryGroup reads a category's group. Numeric groups are kept apart
// from string ones, and zero like the empty string means no group.
func categoryGroup(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, false
	}
	if !isNumber(v) {
		return "", false
	}
	f := toFloat(v)
	if f == 0 || math.IsNaN(f) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, _ := n.Float64()
		return f
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
