// Package journal runs the two-phase submission of a journal entry: the
// entry is first persisted, then analyzed. The phases are not atomic. When
// analysis fails the persisted entry stays unanalyzed and can be analyzed
// later with Reanalyze; nothing is rolled back or retried automatically.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/moodjournal/internal/client/flight"
	"github.com/dmitrijs2005/moodjournal/internal/client/metrics"
	"github.com/dmitrijs2005/moodjournal/internal/client/models"
	"github.com/dmitrijs2005/moodjournal/internal/common"
	"github.com/dmitrijs2005/moodjournal/internal/logging"
)

// Session is the view of the session manager the orchestrator needs.
type Session interface {
	CanAccess() bool
	Username() string
}

// Collaborator persists and analyzes entries.
type Collaborator interface {
	CreateEntry(ctx context.Context, content string) (models.JournalEntry, error)
	Analyze(ctx context.Context, entryID int64) (models.AnalysisResult, error)
}

type Recorder interface {
	SubmissionFinished(outcome string)
	ObservePhase(phase string, d time.Duration)
}

// Submission is a fully analyzed entry. Entry.Analysis is populated from Result.
type Submission struct {
	Entry  models.JournalEntry
	Result models.AnalysisResult
}

// AnalysisFailure reports an entry that was persisted but not analyzed.
type AnalysisFailure struct {
	EntryID int64
	Err     error
}

func (e *AnalysisFailure) Error() string {
	return fmt.Sprintf("%s: entry %d saved without analysis: %v", common.ErrAnalysis, e.EntryID, e.Err)
}

func (e *AnalysisFailure) Unwrap() []error {
	return []error{common.ErrAnalysis, e.Err}
}

type Orchestrator struct {
	session Session
	api     Collaborator
	guard   flight.Guard
	rec     Recorder
	log     logging.Logger
	now     func() time.Time
}

type Option func(*Orchestrator)

func WithGuard(g flight.Guard) Option {
	return func(o *Orchestrator) { o.guard = g }
}

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.rec = r }
}

func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

func NewOrchestrator(session Session, api Collaborator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		session: session,
		api:     api,
		guard:   flight.NewLocalGuard(),
		rec:     nopRecorder{},
		log:     logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ValidateContent checks that content, trimmed, has at least
// common.MinEntryLength characters.
func ValidateContent(content string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < common.MinEntryLength {
		return fmt.Errorf("%w: entry must be at least %d characters, got %d",
			common.ErrValidation, common.MinEntryLength, n)
	}
	return nil
}

// Submit persists content as a new entry and then analyzes it. A nil error
// means the caller may clear its input. Errors wrap one of
// common.ErrValidation, common.ErrSessionInvalid, common.ErrSubmitInFlight,
// common.ErrCreation or common.ErrAnalysis; the latter comes as
// *AnalysisFailure.
//
// Both phases run under ctx. Cancelling it while the analysis is in flight
// leaves the created entry unanalyzed, the same partial state as a failed
// analysis; Reanalyze completes it.
func (o *Orchestrator) Submit(ctx context.Context, content string) (Submission, error) {
	if err := ValidateContent(content); err != nil {
		o.rec.SubmissionFinished(metrics.OutcomeValidation)
		return Submission{}, err
	}

	release, err := o.acquire(ctx)
	if err != nil {
		return Submission{}, err
	}
	defer o.release(ctx, release)

	log := o.log.With("user", o.session.Username())

	start := o.now()
	entry, err := o.api.CreateEntry(ctx, content)
	o.rec.ObservePhase(metrics.PhaseCreate, o.now().Sub(start))
	if err != nil {
		o.rec.SubmissionFinished(metrics.OutcomeCreation)
		log.Warn(ctx, "entry creation failed", "error", err)
		return Submission{}, fmt.Errorf("%w: %w", common.ErrCreation, err)
	}
	log.Info(ctx, "entry created", "entry_id", entry.ID)

	result, err := o.analyze(ctx, log, entry.ID)
	if err != nil {
		return Submission{}, err
	}

	entry.Analysis = result.Analysis()
	o.rec.SubmissionFinished(metrics.OutcomeSuccess)
	return Submission{Entry: entry, Result: result}, nil
}

// Reanalyze runs the analysis phase again for an entry left unanalyzed by a
// failed submission.
func (o *Orchestrator) Reanalyze(ctx context.Context, entryID int64) (models.AnalysisResult, error) {
	release, err := o.acquire(ctx)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	defer o.release(ctx, release)

	result, err := o.analyze(ctx, o.log.With("user", o.session.Username()), entryID)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	o.rec.SubmissionFinished(metrics.OutcomeSuccess)
	return result, nil
}

func (o *Orchestrator) analyze(ctx context.Context, log logging.Logger, entryID int64) (models.AnalysisResult, error) {
	start := o.now()
	result, err := o.api.Analyze(ctx, entryID)
	o.rec.ObservePhase(metrics.PhaseAnalyze, o.now().Sub(start))
	if err != nil {
		o.rec.SubmissionFinished(metrics.OutcomeAnalysis)
		log.Warn(ctx, "entry analysis failed, entry kept unanalyzed", "entry_id", entryID, "error", err)
		return models.AnalysisResult{}, &AnalysisFailure{EntryID: entryID, Err: err}
	}

	log.Info(ctx, "entry analyzed", "entry_id", entryID, "sentiment", result.Sentiment)
	return result, nil
}

// acquire checks the session and takes the per-session single-flight slot.
func (o *Orchestrator) acquire(ctx context.Context) (flight.ReleaseFunc, error) {
	if !o.session.CanAccess() {
		o.rec.SubmissionFinished(metrics.OutcomeSession)
		return nil, common.ErrSessionInvalid
	}

	release, err := o.guard.TryAcquire(ctx, "journal:"+o.session.Username())
	if errors.Is(err, flight.ErrHeld) {
		o.rec.SubmissionFinished(metrics.OutcomeRejected)
		return nil, common.ErrSubmitInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("single-flight guard: %w", err)
	}
	return release, nil
}

func (o *Orchestrator) release(ctx context.Context, release flight.ReleaseFunc) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		o.log.Error(ctx, "failed to release submission slot", "error", err)
	}
}

type nopRecorder struct{}

func (nopRecorder) SubmissionFinished(string)          {}
func (nopRecorder) ObservePhase(string, time.Duration) {}
