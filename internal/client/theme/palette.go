package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
)

// Palette holds the styles the CLI renders with.
type Palette struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Bar      lipgloss.Style
	Error    lipgloss.Style
	Positive lipgloss.Style
	Neutral  lipgloss.Style
	Negative lipgloss.Style
}

func For(m Mode) Palette {
	if m == Light {
		return Palette{
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("55")),
			Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("24")).Bold(true),
			Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			Bar:      lipgloss.NewStyle().Foreground(lipgloss.Color("61")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
			Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			Neutral:  lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
			Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		}
	}
	return Palette{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Bar:      lipgloss.NewStyle().Foreground(lipgloss.Color("170")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("120")),
		Neutral:  lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("210")),
	}
}

// Sentiment picks the style for a sentiment; unanalyzed entries are muted.
func (p Palette) Sentiment(s models.Sentiment) lipgloss.Style {
	switch s {
	case models.SentimentPositive:
		return p.Positive
	case models.SentimentNeutral:
		return p.Neutral
	case models.SentimentNegative:
		return p.Negative
	default:
		return p.Muted
	}
}
