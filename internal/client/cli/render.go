package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/moodjournal/internal/client/dashboard"
	"github.com/dmitrijs2005/moodjournal/internal/client/models"
	"github.com/dmitrijs2005/moodjournal/internal/client/theme"
)

const (
	snippetLen = 60
	barWidth   = 20
)

func renderAnalysis(p theme.Palette, id int64, r models.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.Title.Render(fmt.Sprintf("Entry #%d analyzed", id)))
	fmt.Fprintf(&b, "%s %s\n", p.Label.Render("Sentiment:  "), p.Sentiment(r.Sentiment).Render(string(r.Sentiment)))
	fmt.Fprintf(&b, "%s %s\n", p.Label.Render("Emotions:   "), strings.Join(r.Emotions, ", "))
	if r.Feedback != "" {
		fmt.Fprintf(&b, "%s %s\n", p.Label.Render("Feedback:   "), r.Feedback)
	}
	if r.Affirmation != "" {
		fmt.Fprintf(&b, "%s %s\n", p.Label.Render("Affirmation:"), r.Affirmation)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderEntries prints one line per entry. emotions picks which labels of
// an entry are shown.
func renderEntries(p theme.Palette, list []models.JournalEntry, now time.Time, emotions func(models.JournalEntry) []string) string {
	if len(list) == 0 {
		return p.Muted.Render("No entries yet. Use 'write' to add one.")
	}

	lines := make([]string, 0, len(list))
	for _, e := range list {
		mood := "not analyzed"
		if e.Analyzed() {
			mood = string(e.Sentiment())
			if labels := emotions(e); len(labels) > 0 {
				mood += " · " + strings.Join(labels, ", ")
			}
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s\n      %s",
			p.Label.Render(fmt.Sprintf("#%d", e.ID)),
			p.Muted.Render(humanize.RelTime(e.CreatedAt, now, "ago", "from now")),
			p.Sentiment(e.Sentiment()).Render(mood),
			snippet(e.Content)))
	}
	return strings.Join(lines, "\n")
}

func renderDashboard(p theme.Palette, d dashboard.Dashboard, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n", p.Title.Render("Dashboard"),
		p.Muted.Render(fmt.Sprintf("(%d entries, %d analyzed)", d.Total, d.Analyzed)))

	b.WriteString(p.Label.Render("Emotions") + "\n")
	if len(d.Emotions) == 0 {
		b.WriteString(p.Muted.Render("  nothing analyzed yet") + "\n")
	}
	width := 0
	for _, c := range d.Emotions {
		width = max(width, len(c.Label))
	}
	for _, c := range d.Emotions {
		fmt.Fprintf(&b, "  %-*s %s %d\n", width, c.Label, p.Bar.Render(bar(c.Count, d.Emotions[0].Count)), c.Count)
	}

	b.WriteString("\n" + p.Label.Render("Mood over time") + "\n")
	if len(d.Timeline) == 0 {
		b.WriteString(p.Muted.Render("  nothing analyzed yet") + "\n")
	}
	for _, pt := range d.Timeline {
		fmt.Fprintf(&b, "  %s  %s\n", pt.DisplayDate, scoreMark(p, pt.Score))
	}

	b.WriteString("\n" + p.Label.Render("Recent entries") + "\n")
	b.WriteString(renderEntries(p, d.Recent, now, dashboard.PreviewEmotions))

	return b.String()
}

func bar(n, most int) string {
	if most <= 0 || n <= 0 {
		return ""
	}
	return strings.Repeat("█", max(1, n*barWidth/most))
}

func scoreMark(p theme.Palette, score int) string {
	switch {
	case score > 0:
		return p.Positive.Render("▲ +1")
	case score < 0:
		return p.Negative.Render("▼ -1")
	default:
		return p.Neutral.Render("■  0")
	}
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= snippetLen {
		return s
	}
	return string(r[:snippetLen-1]) + "…"
}
