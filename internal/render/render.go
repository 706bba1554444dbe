// Package render draws seals for the terminal with lipgloss. Colours are
// dropped automatically when output is not a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"seals-go/internal/database"
	"seals-go/internal/seals"
)

// HistoryLimit is the number of gild records shown on a seal card.
const HistoryLimit = 8

// barWidth is the number of cells in a progress bar.
const barWidth = 20

// paletteColors maps palette keys to ANSI 256-colour codes.
var paletteColors = map[string]lipgloss.Color{
	"ember":   lipgloss.Color("208"),
	"aether":  lipgloss.Color("141"),
	"verdant": lipgloss.Color("71"),
	"void":    lipgloss.Color("99"),
	"iron":    lipgloss.Color("246"),
}

var tierColors = map[seals.Tier]lipgloss.Color{
	seals.Gold:   lipgloss.Color("220"),
	seals.Silver: lipgloss.Color("250"),
	seals.Bronze: lipgloss.Color("173"),
}

var (
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("71"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Accent returns the colour of a palette. Unknown keys use the default palette.
func Accent(palette string) lipgloss.Color {
	return paletteColors[seals.NormalizePalette(palette)]
}

// PaletteName returns the display name of a palette key.
func PaletteName(palette string) string {
	key := seals.NormalizePalette(palette)
	for _, p := range seals.Palettes {
		if p.Key == key {
			return p.Name
		}
	}
	return key
}

// ProgressBar draws a fixed-width bar followed by the percentage.
func ProgressBar(c seals.Completion, accent lipgloss.Color) string {
	filled := c.Pct * barWidth / 100
	bar := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("█", filled)) +
		faintStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %3d%%", bar, c.Pct)
}

func checkbox(done bool) string {
	if done {
		return doneStyle.Render("[x]")
	}
	return "[ ]"
}

func header(s seals.Seal, active bool) string {
	accent := Accent(s.Palette)
	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(s.Title)
	line := fmt.Sprintf("%s  %s", title, faintStyle.Render(fmt.Sprintf("[%s · %s]", seals.NormalizeIcon(s.Icon), PaletteName(s.Palette))))
	if active {
		line += "  " + lipgloss.NewStyle().Foreground(accent).Render("(active)")
	}
	return line
}

func status(s seals.Seal, year string) string {
	var parts []string
	if s.Earned() {
		parts = append(parts, "earned "+*s.EarnedOn)
	} else {
		parts = append(parts, "not yet earned")
	}
	parts = append(parts, fmt.Sprintf("gilded %d× in %s", s.GildCount(year), year))
	return strings.Join(parts, " · ")
}

// SealCard renders the full view of one seal: progress, triumphs grouped by
// tier, books and the newest gilds.
func SealCard(s seals.Seal, year string, active bool) string {
	c := seals.Complete(s)
	accent := Accent(s.Palette)

	var b strings.Builder
	b.WriteString(header(s, active) + "\n")
	b.WriteString(faintStyle.Render(s.ID) + "\n")
	b.WriteString(s.Theme + "\n")
	if s.Flavor != "" {
		b.WriteString(lipgloss.NewStyle().Italic(true).Render(s.Flavor) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %d/%d triumphs\n", ProgressBar(c, accent), c.Done, c.Total))
	b.WriteString(status(s, year) + "\n")
	if c.Full() {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Ready to gild") + "\n")
	}

	for _, g := range seals.GroupByTier(s) {
		tierStyle := lipgloss.NewStyle().Bold(true).Foreground(tierColors[g.Tier])
		b.WriteString(fmt.Sprintf("\n%s %d/%d\n", tierStyle.Render(string(g.Tier)), g.Done, len(g.Triumphs)))
		for _, t := range g.Triumphs {
			b.WriteString(fmt.Sprintf("  %s %s  %s\n", checkbox(t.Done), t.Text, faintStyle.Render(t.ID)))
		}
	}

	b.WriteString(fmt.Sprintf("\nBooks %d/%d finished\n", seals.FinishedBooks(s), len(s.Books)))
	for _, book := range s.Books {
		b.WriteString(fmt.Sprintf("  %s %s  %s\n", checkbox(book.Finished), bookLine(book), faintStyle.Render(book.ID)))
	}

	if recent := seals.RecentGilds(s, HistoryLimit); len(recent) > 0 {
		b.WriteString("\nGilds\n")
		for _, g := range recent {
			line := fmt.Sprintf("  %s (%s)", g.Date, g.Year)
			if g.Note != nil {
				line += "  " + *g.Note
			}
			b.WriteString(line + "\n")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}

func bookLine(book seals.Book) string {
	line := book.Title
	if book.Author != nil {
		line += " by " + *book.Author
	}
	if book.Pages != nil {
		line += fmt.Sprintf(", %d pages", *book.Pages)
	}
	if book.Notes != nil {
		line += faintStyle.Render(" (" + *book.Notes + ")")
	}
	return line
}

// SealList renders one line per seal with its completion.
func SealList(list []seals.Seal, activeID, year string) string {
	if len(list) == 0 {
		return faintStyle.Render("No seals match.")
	}
	var b strings.Builder
	for _, s := range list {
		marker := "  "
		if s.ID == activeID {
			marker = lipgloss.NewStyle().Foreground(Accent(s.Palette)).Render("▶ ")
		}
		c := seals.Complete(s)
		b.WriteString(fmt.Sprintf("%s%s  %s  %s\n",
			marker, header(s, false), ProgressBar(c, Accent(s.Palette)), faintStyle.Render(status(s, year))))
		b.WriteString(fmt.Sprintf("    %s  %s\n", s.Theme, faintStyle.Render(s.ID)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Operations renders journal entries, newest first.
func Operations(ops []*database.Operation) string {
	if len(ops) == 0 {
		return faintStyle.Render("No operations recorded.")
	}
	var b strings.Builder
	for _, op := range ops {
		st := op.Status
		if st == "error" {
			st = errorStyle.Render(st)
		}
		line := fmt.Sprintf("%4d  %s  %-18s %-9s", op.ID, op.StartedAt.Local().Format("2006-01-02 15:04:05"), op.Operation, st)
		if op.Parameters != "" {
			line += "  " + faintStyle.Render(op.Parameters)
		}
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
