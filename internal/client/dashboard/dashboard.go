// Package dashboard derives the dashboard views from a snapshot of journal
// entries. Entries are expected newest-first, as returned by the backend.
// No function here modifies its input.
package dashboard

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
)

const (
	DefaultPreviewLimit = 5

	// previewEmotions is how many emotions a recent entry shows.
	previewEmotions = 2

	dateLayout = "2006-01-02"
)

type EmotionCount struct {
	Label string
	Count int
}

type TimelinePoint struct {
	Date        time.Time
	DisplayDate string
	Score       int
}

type Dashboard struct {
	Emotions []EmotionCount
	Timeline []TimelinePoint
	Recent   []models.JournalEntry
	Total    int
	Analyzed int
}

// EmotionFrequency counts emotion labels over analyzed entries. The result
// is ordered by count descending; equal counts keep the order in which the
// labels were first seen.
func EmotionFrequency(entries []models.JournalEntry) []EmotionCount {
	index := make(map[string]int)
	var counts []EmotionCount

	for _, e := range entries {
		if !e.Analyzed() {
			continue
		}
		for _, label := range e.Emotions() {
			i, ok := index[label]
			if !ok {
				i = len(counts)
				index[label] = i
				counts = append(counts, EmotionCount{Label: label})
			}
			counts[i].Count++
		}
	}

	slices.SortStableFunc(counts, func(a, b EmotionCount) int {
		return b.Count - a.Count
	})
	return counts
}

// SentimentTimeline returns one point per entry with a sentiment, oldest first.
func SentimentTimeline(entries []models.JournalEntry) []TimelinePoint {
	points := make([]TimelinePoint, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		s := e.Sentiment()
		if s == "" {
			continue
		}
		points = append(points, TimelinePoint{
			Date:        e.CreatedAt,
			DisplayDate: e.CreatedAt.Format(dateLayout),
			Score:       s.Score(),
		})
	}
	return points
}

// RecentPreview returns the first limit entries. A non-positive limit yields none.
func RecentPreview(entries []models.JournalEntry, limit int) []models.JournalEntry {
	limit = max(0, min(limit, len(entries)))
	return slices.Clone(entries[:limit])
}

// PreviewEmotions returns the first emotions of an entry for list display.
func PreviewEmotions(e models.JournalEntry) []string {
	emotions := e.Emotions()
	return slices.Clone(emotions[:min(previewEmotions, len(emotions))])
}

// Since keeps entries created at or after t.
func Since(entries []models.JournalEntry, t time.Time) []models.JournalEntry {
	var out []models.JournalEntry
	for _, e := range entries {
		if !e.CreatedAt.Before(t) {
			out = append(out, e)
		}
	}
	return out
}

// Build computes all views from the same snapshot.
func Build(entries []models.JournalEntry, previewLimit int) Dashboard {
	d := Dashboard{
		Emotions: EmotionFrequency(entries),
		Timeline: SentimentTimeline(entries),
		Recent:   RecentPreview(entries, previewLimit),
		Total:    len(entries),
	}
	for _, e := range entries {
		if e.Analyzed() {
			d.Analyzed++
		}
	}
	return d
}
