// Package dynamic expands NUMBER[min,max] and CHOOSE[a|b|...] tokens embedded
// in category text.
package dynamic

import (
	"math"
	"regexp"
	"strings"

	"github.com/mcoot/backlogbingo/internal/dependencies/random"
	"github.com/mcoot/backlogbingo/internal/model"
)

const (
	kindNumber = "NUMBER"
	kindChoose = "CHOOSE"
)

var tokenPattern = regexp.MustCompile(`(NUMBER|CHOOSE)\[([^\]]+)\]`)

// Result is the outcome of expanding one line of text
type Result struct {
	Text   string
	Errors []*TokenError
}

// Valid reports whether every token in the line was well formed
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// IsDynamic reports whether text contains at least one token
func IsDynamic(text string) bool {
	return tokenPattern.MatchString(text)
}

// Expand replaces every token in text, left to right, drawing exactly one
// value from src per token. Malformed tokens are reported in the result but
// still substituted; a NUMBER token without numeric bounds becomes "NaN".
func Expand(text string, src random.Source) Result {
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return Result{Text: text}
	}

	var (
		b    strings.Builder
		errs []*TokenError
		last int
	)
	for _, m := range matches {
		token := text[m[0]:m[1]]
		kind := text[m[2]:m[3]]
		values := text[m[4]:m[5]]

		b.WriteString(text[last:m[0]])
		last = m[1]

		var (
			replacement string
			kinds       []error
		)
		switch kind {
		case kindNumber:
			replacement, kinds = expandNumber(values, src.Float64())
		case kindChoose:
			replacement, kinds = expandChoose(values, src.Float64())
		}
		b.WriteString(replacement)

		for _, k := range kinds {
			errs = append(errs, &TokenError{Kind: k, Token: token, Line: text})
		}
	}
	b.WriteString(text[last:])

	return Result{Text: b.String(), Errors: errs}
}

func expandNumber(values string, r float64) (string, []error) {
	var errs []error

	parts := strings.Split(values, ",")
	if len(parts) > 2 {
		errs = append(errs, ErrTooManyValues)
	}

	lo, hi := parseBound(parts, 0), parseBound(parts, 1)

	if math.IsNaN(lo) || math.IsNaN(hi) || lo >= hi {
		errs = append(errs, ErrInvalidRange)
	}
	if !isInteger(lo) || !isInteger(hi) {
		errs = append(errs, ErrNonInteger)
	}

	return formatNumber(math.Floor(r*(hi-lo+1)) + lo), errs
}

func expandChoose(values string, r float64) (string, []error) {
	terms := strings.Split(values, "|")

	var errs []error
	if len(terms) < 2 {
		errs = append(errs, ErrTooFewValues)
	}
	return terms[int(r*float64(len(terms)))], errs
}

// parseBound reads parts[i] as a number. A missing bound is NaN.
func parseBound(parts []string, i int) float64 {
	if i >= len(parts) {
		return math.NaN()
	}
	return parseNumber(parts[i])
}

// ValidateCategories dry-runs every dynamic category and returns the token
// errors found, in pool order
func ValidateCategories(categories []model.Category) []*TokenError {
	zero := random.SourceFunc(func() float64 { return 0 })

	var errs []*TokenError
	for _, c := range categories {
		if !IsDynamic(c.Text) {
			continue
		}
		errs = append(errs, Expand(c.Text, zero).Errors...)
	}
	return errs
}

// MarkDynamic returns a copy of categories with Dynamic set from the text
func MarkDynamic(categories []model.Category) []model.Category {
	out := make([]model.Category, len(categories))
	for i, c := range categories {
		c.Dynamic = IsDynamic(c.Text)
		out[i] = c
	}
	return out
}
