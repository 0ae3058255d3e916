package source

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/mcoot/backlogbingo/internal/model"
)

type kind int

const (
	kindString kind = iota + 1
	kindNumber
	kindBool
	kindScalar // string or number
	kindEnum
	kindObject
	kindArray
)

// rule describes the expected shape of one value
type rule struct {
	kind     kind
	required bool

	enum []string // kindEnum

	fields     []field  // kindObject
	requireAny []string // kindObject: at least one of these keys

	items    *rule // kindArray
	minItems int   // kindArray
}

type field struct {
	name string
	rule rule
}

func enumOf[T ~string](values ...T) rule {
	r := rule{kind: kindEnum}
	for _, v := range values {
		r.enum = append(r.enum, string(v))
	}
	return r
}

var categoryRule = rule{
	kind: kindObject,
	fields: []field{
		{"id", rule{kind: kindScalar}},
		{"name", rule{kind: kindString}},
		{"cat", rule{kind: kindString}},
		{"group", rule{kind: kindScalar}},
	},
	requireAny: []string{"name", "cat"},
}

var gameRulesRule = rule{
	kind: kindObject,
	fields: []field{
		{"winCondition", enumOf(model.WinRowCol, model.WinRowColDiag, model.WinBlackout)},
		{"star", enumOf(model.StarWildcard, model.StarFree, model.StarDisabled)},
		{"gridSize", enumOf(model.GridSmall, model.GridMedium, model.GridLarge)},
		{"allowSimilar", rule{kind: kindBool}},
		{"allowDuplicates", rule{kind: kindBool}},
		{"golf", rule{kind: kindBool}},
		{"seed", rule{kind: kindString}},
	},
}

var cardSourceSchema = rule{
	kind: kindObject,
	fields: []field{
		{"version", rule{kind: kindNumber, required: true}},
		{"name", rule{kind: kindString, required: true}},
		{"description", rule{kind: kindString}},
		{"gamerules", gameRulesRule},
		{"categories", rule{kind: kindArray, required: true, items: &categoryRule, minItems: model.MinCategories}},
	},
}

// validate walks value against r, recording every violation
func validate(value any, r rule, path string, errs *ValidationErrors) {
	switch r.kind {
	case kindString:
		if _, ok := value.(string); !ok {
			errs.add(path, "expected a string")
		}
	case kindNumber:
		if !isNumber(value) {
			errs.add(path, "expected a number")
		}
	case kindBool:
		if _, ok := value.(bool); !ok {
			errs.add(path, "expected a boolean")
		}
	case kindScalar:
		if _, ok := value.(string); !ok && !isNumber(value) {
			errs.add(path, "expected a string or number")
		}
	case kindEnum:
		s, ok := value.(string)
		if !ok || !slices.Contains(r.enum, s) {
			errs.add(path, "invalid value %s, expected one of: %s", describe(value), strings.Join(r.enum, ", "))
		}
	case kindObject:
		validateObject(value, r, path, errs)
	case kindArray:
		items, ok := value.([]any)
		if !ok {
			errs.add(path, "expected an array")
			return
		}
		if len(items) < r.minItems {
			errs.add(path, "has %d entries, need at least %d", len(items), r.minItems)
		}
		if r.items != nil {
			for i, item := range items {
				validate(item, *r.items, fmt.Sprintf("%s[%d]", path, i), errs)
			}
		}
	}
}

func validateObject(value any, r rule, path string, errs *ValidationErrors) {
	obj, ok := value.(map[string]any)
	if !ok {
		errs.add(path, "expected an object")
		return
	}

	known := make(map[string]bool, len(r.fields))
	for _, f := range r.fields {
		known[f.name] = true
	}
	var unknown []string
	for key := range obj {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		errs.add(join(path, key), "unknown key")
	}

	for _, f := range r.fields {
		v, present := obj[f.name]
		if !present {
			if f.rule.required {
				errs.add(join(path, f.name), "missing required key")
			}
			continue
		}
		validate(v, f.rule, join(path, f.name), errs)
	}

	if len(r.requireAny) > 0 && !slices.ContainsFunc(r.requireAny, func(k string) bool {
		_, ok := obj[k]
		return ok
	}) {
		errs.add(path, "missing required key %q", r.requireAny[0])
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func isNumber(v any) bool {
	switch v.(type) {
	case json.Number, int, int64, uint64, float64:
		return true
	}
	return false
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}
