package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/five82/shakeit/internal/cocktaildb"
	"github.com/five82/shakeit/internal/recipe"
	"github.com/five82/shakeit/internal/state"
)

const (
	defaultColumns = 3
	maxCellWidth   = 28
)

// Printer writes recipes and catalog data to a terminal or file.
type Printer struct {
	w       io.Writer
	styles  Styles
	columns int
}

// New returns a Printer writing to w. columns sets the grid width; values
// below one use the default.
func New(w io.Writer, columns int) *Printer {
	if columns < 1 {
		columns = defaultColumns
	}
	return &Printer{w: w, styles: DefaultTheme().Styles(w), columns: columns}
}

// Results prints recipes under title in the given layout.
func (p *Printer) Results(title string, recipes []recipe.Recipe, mode state.ViewMode) error {
	var b strings.Builder
	if title != "" {
		b.WriteString(p.styles.Title.Render(title))
		b.WriteString("\n")
	}
	switch {
	case len(recipes) == 0:
		b.WriteString(p.styles.MutedText.Render("No cocktails found."))
	case mode == state.ViewGrid:
		b.WriteString(p.grid(lo.Map(recipes, func(r recipe.Recipe, _ int) string { return r.Name })))
	default:
		lines := lo.Map(recipes, func(r recipe.Recipe, _ int) string { return p.listLine(r) })
		b.WriteString(strings.Join(lines, "\n"))
	}
	return p.println(b.String())
}

func (p *Printer) listLine(r recipe.Recipe) string {
	line := p.styles.FaintText.Render(fmt.Sprintf("%-7s", r.ID)) + " " + p.styles.Text.Render(r.Name)
	if meta := joinNonEmpty(" · ", r.Category, r.Glass); meta != "" {
		line += "  " + p.styles.MutedText.Render(meta)
	}
	return line
}

// Recipe prints the full detail of one recipe.
func (p *Printer) Recipe(r recipe.Recipe, favorite bool) error {
	var b strings.Builder

	header := p.styles.Title.Render(r.Name)
	if favorite {
		header += " " + p.styles.WarningText.Render("★")
	}
	b.WriteString(header)
	if meta := joinNonEmpty(" · ", r.Category, r.Alcoholic, r.Glass); meta != "" {
		b.WriteString("\n")
		b.WriteString(p.styles.MutedText.Render(meta))
	}

	if pairs := r.IngredientsWithMeasures(); len(pairs) > 0 {
		b.WriteString("\n\n")
		b.WriteString(p.styles.AccentText.Render("Ingredients"))
		width := lo.Max(lo.Map(pairs, func(pair recipe.Pair, _ int) int { return lipgloss.Width(pair.Measure) }))
		for _, pair := range pairs {
			b.WriteString("\n  ")
			measure := ""
			if pair.HasMeasure {
				measure = pair.Measure
			}
			b.WriteString(p.styles.MutedText.Render(fmt.Sprintf("%-*s", width, measure)))
			b.WriteString("  ")
			b.WriteString(p.styles.Text.Render(pair.Ingredient))
		}
	}

	if r.Instructions != "" {
		b.WriteString("\n\n")
		b.WriteString(p.styles.AccentText.Render("Instructions"))
		b.WriteString("\n")
		b.WriteString(p.styles.Text.Width(72).Render(r.Instructions))
	}

	if r.ImageURL != "" {
		b.WriteString("\n\n")
		b.WriteString(p.styles.FaintText.Render(r.ImageURL))
	}

	return p.println(p.styles.Card.Render(b.String()))
}

// Ingredients prints the ingredient catalog as a grid with a thumbnail URL
// hint for the first entry.
func (p *Printer) Ingredients(names []string) error {
	if len(names) == 0 {
		return p.println(p.styles.MutedText.Render("No ingredients available."))
	}
	var b strings.Builder
	b.WriteString(p.styles.Title.Render(fmt.Sprintf("Ingredients (%d)", len(names))))
	b.WriteString("\n")
	b.WriteString(p.grid(names))
	b.WriteString("\n")
	b.WriteString(p.styles.FaintText.Render("images: " + cocktaildb.IngredientImageURL(names[0], cocktaildb.ImageSmall)))
	return p.println(b.String())
}

// Error prints msg as an error line.
func (p *Printer) Error(msg string) error {
	return p.println(p.styles.DangerText.Render(msg))
}

// Info prints a plain status line.
func (p *Printer) Info(format string, args ...any) error {
	return p.println(p.styles.SuccessText.Render(fmt.Sprintf(format, args...)))
}

// grid lays names out row by row in p.columns equal-width columns.
func (p *Printer) grid(names []string) string {
	width := min(lo.Max(lo.Map(names, func(n string, _ int) int { return lipgloss.Width(n) })), maxCellWidth)
	cell := p.styles.Cell.Width(width + 2)
	rows := lo.Map(lo.Chunk(names, p.columns), func(row []string, _ int) string {
		cells := lo.Map(row, func(n string, _ int) string {
			return cell.Render(truncate(n, width))
		})
		return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	})
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (p *Printer) println(s string) error {
	_, err := fmt.Fprintln(p.w, s)
	return err
}
