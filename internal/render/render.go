// Package render turns studio results into terminal text. Terminals cannot
// show the story preview, so it is referenced by the path it was saved to.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"digicreative/internal/content"
	"digicreative/internal/storage"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ctaStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Background(lipgloss.Color("63")).Padding(0, 2)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// Result renders the heading plus the body for the result's variant.
func Result(r *content.Result) string {
	if r == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Title()))
	b.WriteString("\n")

	switch {
	case r.Story != nil && len(r.Story.Chapters) > 0:
		b.WriteString(chapters(r.Story.Chapters))
	case r.Campaign != nil && len(r.Campaign.AdVariations) > 0:
		b.WriteString(adCards(r.Campaign.AdVariations))
	default:
		b.WriteString(rawJSON(r.Payload()))
	}
	return b.String()
}

func chapters(chs []content.Chapter) string {
	cards := make([]string, 0, len(chs))
	for _, ch := range chs {
		cards = append(cards, cardStyle.Render(headingStyle.Render(ch.ChapterTitle)+"\n"+ch.Content))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func adCards(ads []content.AdVariation) string {
	cards := make([]string, 0, len(ads))
	for i, ad := range ads {
		body := lipgloss.JoinVertical(lipgloss.Left,
			labelStyle.Render(fmt.Sprintf("AD COPY %d", i+1)),
			headingStyle.Render(ad.Headline),
			ad.Body,
			"",
			ctaStyle.Render(strings.ToUpper(ad.CallToAction)),
		)
		cards = append(cards, cardStyle.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func rawJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return codeStyle.Render(string(data))
}

func Preview(path string) string {
	return successStyle.Render("AI GENERATED") + " preview saved to " + path
}

func Failure(message string) string {
	return errorStyle.Render(message)
}

func Saved(location string) string {
	return successStyle.Render("✓ Saved to " + location)
}

// Catalog lists modules with their icon, label and description.
func Catalog(modules []content.Module) string {
	var b strings.Builder
	for _, m := range modules {
		fmt.Fprintf(&b, "%s %s %s\n    %s\n",
			m.Icon,
			headingStyle.Render(m.Label),
			mutedStyle.Render("("+m.Kind.String()+")"),
			m.Description,
		)
	}
	return b.String()
}

func Library(entries []storage.Entry) string {
	if len(entries) == 0 {
		return infoStyle.Render("No exported drafts yet.") + "\n"
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-12s %s %s\n",
			labelStyle.Render(e.Kind.String()),
			e.Location,
			mutedStyle.Render(e.UpdatedAt.Local().Format("2006-01-02 15:04")),
		)
	}
	return b.String()
}
