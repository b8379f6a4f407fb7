package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// entryJSON is the backend representation, where sentiment and emotions are
// independently nullable.
type entryJSON struct {
	ID        int64     `json:"id"`
	User      int64     `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Sentiment Sentiment `json:"sentiment"`
	Emotions  []string  `json:"emotions"`
}

func (e JournalEntry) MarshalJSON() ([]byte, error) {
	w := entryJSON{ID: e.ID, User: e.UserID, Content: e.Content, CreatedAt: e.CreatedAt}
	out := struct {
		entryJSON
		Sentiment *Sentiment `json:"sentiment"`
		Emotions  []string   `json:"emotions"`
	}{entryJSON: w}
	if e.Analysis != nil {
		s := e.Analysis.Sentiment
		out.Sentiment = &s
		out.Emotions = e.Analysis.Emotions
		if out.Emotions == nil {
			out.Emotions = []string{}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON treats the sentiment as the marker of a finished analysis.
// Without one the entry is unanalyzed and any emotions sent along are
// dropped; with one a missing emotion list becomes empty. An unknown
// sentiment value is an error.
func (e *JournalEntry) UnmarshalJSON(b []byte) error {
	var w entryJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("entry: %w", err)
	}

	*e = JournalEntry{ID: w.ID, UserID: w.User, Content: w.Content, CreatedAt: w.CreatedAt}
	if w.Sentiment == "" {
		return nil
	}

	emotions := w.Emotions
	if emotions == nil {
		emotions = []string{}
	}
	e.Analysis = &Analysis{Sentiment: w.Sentiment, Emotions: emotions}
	return nil
}
