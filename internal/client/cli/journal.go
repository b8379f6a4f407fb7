package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/moodjournal/internal/client/journal"
	"github.com/dmitrijs2005/moodjournal/internal/common"
)

// Write reads a new entry, submits it and prints the analysis. The text is
// kept as a draft when the submission does not fully succeed. The next Write
// offers to send it again, or, when the entry was saved but not analyzed, to
// analyze the saved entry instead of creating a second one.
func (a *App) Write(ctx context.Context) error {
	if id := a.draftEntryID; id != 0 {
		again, err := confirm(a.reader, fmt.Sprintf("Entry #%d was saved without analysis. Analyze it now?", id), a.out)
		if err != nil {
			return err
		}
		if again {
			return a.reanalyze(ctx, id)
		}
		a.draft, a.draftEntryID = "", 0
		printlnFn(fmt.Sprintf("Entry #%d stays unanalyzed; 'reanalyze %d' is still available.", id, id))
	}

	content := ""
	if a.draft != "" {
		again, err := confirm(a.reader, "Resubmit the previous draft?", a.out)
		if err != nil {
			return err
		}
		if again {
			content = a.draft
		}
	}

	if content == "" {
		var err error
		content, err = getMultiline(a.reader, "How are you feeling today?", a.out)
		if errors.Is(err, io.EOF) {
			return errors.New("no entry written")
		}
		if err != nil {
			return err
		}
	}

	sub, err := a.journal.Submit(ctx, content)
	if err != nil {
		if !errors.Is(err, common.ErrValidation) {
			a.draft, a.draftEntryID = content, 0
		}

		var af *journal.AnalysisFailure
		if errors.As(err, &af) {
			a.draftEntryID = af.EntryID
			printlnFn(fmt.Sprintf("Entry #%d was saved but not analyzed. Run 'reanalyze %d' to try again.", af.EntryID, af.EntryID))
		}
		return err
	}

	a.draft, a.draftEntryID = "", 0
	if err := a.entries.Remember(ctx, sub.Entry); err != nil {
		a.log.Warn(ctx, "failed to cache entry", "entry_id", sub.Entry.ID, "error", err)
	}

	printlnFn(renderAnalysis(a.palette(ctx), sub.Entry.ID, sub.Result))
	return nil
}

// Reanalyze retries the analysis of an entry saved without one.
func (a *App) Reanalyze(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: reanalyze <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid entry id %q", args[0])
	}

	return a.reanalyze(ctx, id)
}

func (a *App) reanalyze(ctx context.Context, id int64) error {
	result, err := a.journal.Reanalyze(ctx, id)
	if err != nil {
		return err
	}

	if id == a.draftEntryID {
		a.draft, a.draftEntryID = "", 0
	}
	printlnFn(renderAnalysis(a.palette(ctx), id, result))
	return nil
}
