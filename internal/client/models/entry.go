// Package models contains the client-side domain types of the journal.
package models

import "time"

// User is an account as returned by the backend.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Tokens is the credential pair issued on login or refresh.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Analysis is the optional outcome attached to an entry. Sentiment and
// emotions are always set together.
type Analysis struct {
	Sentiment Sentiment
	Emotions  []string
}

// JournalEntry is a persisted journal entry. Analysis is nil until the
// analysis phase has completed for it.
type JournalEntry struct {
	ID        int64
	UserID    int64
	Content   string
	CreatedAt time.Time
	Analysis  *Analysis
}

// Analyzed reports whether the entry carries an analysis outcome.
func (e JournalEntry) Analyzed() bool {
	return e.Analysis != nil
}

// Sentiment returns the entry sentiment, or "" when not analyzed.
func (e JournalEntry) Sentiment() Sentiment {
	if e.Analysis == nil {
		return ""
	}
	return e.Analysis.Sentiment
}

// Emotions returns the entry emotions in arrival order, or nil when not analyzed.
func (e JournalEntry) Emotions() []string {
	if e.Analysis == nil {
		return nil
	}
	return e.Analysis.Emotions
}

// AnalysisResult is produced once per entry by the analysis engine.
type AnalysisResult struct {
	Sentiment   Sentiment `json:"sentiment"`
	Emotions    []string  `json:"emotions"`
	Feedback    string    `json:"feedback"`
	Affirmation string    `json:"affirmation"`
}

// Analysis returns the part of the result that is stored on the entry.
func (r AnalysisResult) Analysis() *Analysis {
	emotions := make([]string, len(r.Emotions))
	copy(emotions, r.Emotions)
	return &Analysis{Sentiment: r.Sentiment, Emotions: emotions}
}
