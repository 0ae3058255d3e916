package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mcoot/backlogbingo/internal/api/response"
	"github.com/mcoot/backlogbingo/internal/model"
	"github.com/mcoot/backlogbingo/internal/services/card"
	"github.com/mcoot/backlogbingo/internal/services/sample"
	"github.com/mcoot/backlogbingo/internal/services/source"
)

// maxCellWidth caps the width of category text in a rendered grid
const maxCellWidth = 24

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	p      *message.Printer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{
		format: format,
		w:      w,
		p:      message.NewPrinter(language.English),
	}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.CreateProfileResponse:
		o.printProfile(v.Profile)
		o.printf("Token: %s\n", v.Token)
		o.printRules(v.Rules, model.ModeOf(v.Rules), false)
	case response.Profile:
		o.printProfile(v)
	case response.RulesResponse:
		o.printRules(v.Rules, v.Mode, v.Locked)
	case response.SourceLoadedResponse:
		o.printSourceLoaded(v)
	case source.Summary:
		o.printSummary(&v)
	case response.GeneratedCardResponse:
		o.printGenerated(v)
	case response.CardResponse:
		o.printGrid(v.Grid)
	case response.HealthResponse:
		o.printf("Status: %s\n", v.Status)
	case *sample.Report:
		o.printSampleReport(v)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = o.p.Fprintf(o.w, format, args...)
}

func (o *Output) printProfile(p response.Profile) {
	o.printf("Profile: %s\n", p.ID)
	o.printf("Created: %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
}

func (o *Output) printRules(r model.GameRules, mode model.GameMode, locked bool) {
	seed := r.Seed
	if seed == "" {
		seed = "(random)"
	}
	rows := [][2]string{
		{"Mode", string(mode)},
		{"Win condition", string(r.WinCondition)},
		{"Grid size", string(r.GridSize)},
		{"Star tile", string(r.Star)},
		{"Golf", yesNo(r.Golf)},
		{"Allow similar", yesNo(r.AllowSimilar)},
		{"Seed", seed},
	}
	if locked {
		rows = append(rows, [2]string{"Locked", "yes, a card is in play"})
	}
	o.printTable("Game rules", rows)
}

func (o *Output) printSummary(s *source.Summary) {
	if s == nil {
		return
	}
	groups := strings.Join(s.Groups, ", ")
	if groups == "" {
		groups = "-"
	}
	rows := [][2]string{
		{"Name", s.Name},
		{"Categories", o.p.Sprintf("%d", s.CategoryCount)},
		{"Dynamic", o.p.Sprintf("%d", s.DynamicCount)},
		{"Groups", groups},
		{"Largest grid", string(s.MaxGridSize)},
	}
	if s.Description != "" {
		rows = slices.Insert(rows, 1, [2]string{"Description", s.Description})
	}
	o.printTable("Card source", rows)
}

func (o *Output) printSourceLoaded(r response.SourceLoadedResponse) {
	o.printSummary(r.Source)
	if r.RulesApplied {
		o.printf("Rules updated from the card source\n")
		o.printRules(r.Rules, model.ModeOf(r.Rules), false)
	}
	o.printTemplateErrors(r.TemplateErrors)
}

func (o *Output) printGenerated(r response.GeneratedCardResponse) {
	o.printGrid(r.Card.Grid)
	o.printf("Selection: %d passes, %d discards\n", r.Selection.Passes, r.Selection.Discards)
	o.printTemplateErrors(r.TemplateErrors)
}

func (o *Output) printTemplateErrors(errs []response.TemplateError) {
	if len(errs) == 0 {
		return
	}
	o.printf("\nTemplate errors (%d):\n", len(errs))
	for _, e := range errs {
		o.printf("  - %s\n    in %q\n", e.Message, e.Line)
		if e.Hint != "" {
			o.printf("    %s\n", e.Hint)
		}
	}
}

// printGrid draws the card as a table. Each cell shows its index, which
// `card mark` takes, its category and the entry beneath.
func (o *Output) printGrid(g *card.Grid) {
	if g == nil || g.RowLength == 0 {
		return
	}

	indexWidth := len(fmt.Sprint(len(g.Cells) - 1))
	textWidth := 0
	for _, c := range g.Cells {
		textWidth = max(textWidth, runewidth.StringWidth(c.Category), runewidth.StringWidth(c.Entry))
	}
	textWidth = min(textWidth, maxCellWidth)
	colWidth := indexWidth + 1 + textWidth

	divider := "+" + strings.Repeat(strings.Repeat("-", colWidth+2)+"+", g.RowLength) + "\n"

	if g.Name != "" {
		o.printf("%s\n", g.Name)
	}
	var sb strings.Builder
	sb.WriteString(divider)
	for _, row := range g.Rows() {
		sb.WriteString("|")
		for _, c := range row {
			label := runewidth.FillRight(fmt.Sprint(c.Index), indexWidth)
			sb.WriteString(" " + label + " " + fitCell(c.Category, textWidth) + " |")
		}
		sb.WriteString("\n|")
		for _, c := range row {
			mark := " "
			if c.IsSatisfied {
				mark = "x"
			}
			sb.WriteString(" " + runewidth.FillRight(mark, indexWidth) + " " + fitCell(c.Entry, textWidth) + " |")
		}
		sb.WriteString("\n" + divider)
	}
	_, _ = io.WriteString(o.w, sb.String())
	o.printf("Satisfied: %d/%d\n", g.Satisfied(), len(g.Cells))
}

func (o *Output) printSampleReport(r *sample.Report) {
	o.printTable("Sample", [][2]string{
		{"Cards", o.p.Sprintf("%d", r.Cards)},
		{"Categories per card", o.p.Sprintf("%d", r.PerCard)},
		{"Expected selections", o.p.Sprintf("%.2f", r.ExpectedSelected)},
		{"Mean selections", o.p.Sprintf("%.2f", r.MeanSelected)},
		{"Std dev selections", o.p.Sprintf("%.2f", r.StdDevSelected)},
		{"Mean passes", o.p.Sprintf("%.2f", r.MeanPasses)},
		{"Max passes", o.p.Sprintf("%d", r.MaxPasses)},
		{"Mean group repeats", o.p.Sprintf("%.2f", r.MeanGroupRepeats)},
		{"Template errors", o.p.Sprintf("%d", r.TemplateErrors)},
	})

	rows := make([][2]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		text := c.Text
		if c.Group != "" {
			text += " [" + c.Group + "]"
		}
		rows = append(rows, [2]string{
			runewidth.Truncate(text, 2*maxCellWidth, "…"),
			o.p.Sprintf("%d (%.1f%%)", c.Selected, c.Frequency*100),
		})
	}
	o.printTable("Selections", rows)
}

// printTable draws two columns of key/value rows under a centred title
func (o *Output) printTable(title string, rows [][2]string) {
	keyWidth, valWidth := 0, 0
	for _, r := range rows {
		keyWidth = max(keyWidth, runewidth.StringWidth(r[0]))
		valWidth = max(valWidth, runewidth.StringWidth(r[1]))
	}
	keyWidth += 2
	valWidth += 2
	inner := keyWidth + valWidth + 1
	if w := runewidth.StringWidth(title) + 2; w > inner {
		valWidth += w - inner
		inner = w
	}

	divider := "+" + strings.Repeat("-", keyWidth) + "+" + strings.Repeat("-", valWidth) + "+\n"
	left := (inner - runewidth.StringWidth(title)) / 2

	var sb strings.Builder
	sb.WriteString("+" + strings.Repeat("-", inner) + "+\n")
	sb.WriteString("|" + runewidth.FillRight(blank(left)+title, inner) + "|\n")
	sb.WriteString(divider)
	for _, r := range rows {
		sb.WriteString("| " + runewidth.FillRight(r[0], keyWidth-2) + " | " + runewidth.FillRight(r[1], valWidth-2) + " |\n")
	}
	sb.WriteString(divider)
	_, _ = io.WriteString(o.w, sb.String())
}

func fitCell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
