package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	whencommon "github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/dmitrijs2005/moodjournal/internal/client/dashboard"
	"github.com/dmitrijs2005/moodjournal/internal/client/models"
)

// Entries lists the journal, newest first.
func (a *App) Entries(ctx context.Context) error {
	list, err := a.fetch(ctx)
	if err != nil {
		return err
	}
	printlnFn(renderEntries(a.palette(ctx), list, a.now(), models.JournalEntry.Emotions))
	return nil
}

// Dashboard prints emotion frequencies, the mood timeline and the most
// recent entries. "dashboard since <when>" restricts it to entries created
// after a natural-language point in time ("last week", "2024-03-01").
func (a *App) Dashboard(ctx context.Context, args []string) error {
	var since time.Time
	if len(args) > 0 {
		if !strings.EqualFold(args[0], "since") || len(args) == 1 {
			return fmt.Errorf("usage: dashboard [since <when>]")
		}
		t, err := parseSince(strings.Join(args[1:], " "), a.now())
		if err != nil {
			return err
		}
		since = t
	}

	list, err := a.fetch(ctx)
	if err != nil {
		return err
	}
	if !since.IsZero() {
		list = dashboard.Since(list, since)
	}

	printlnFn(renderDashboard(a.palette(ctx), dashboard.Build(list, dashboard.DefaultPreviewLimit), a.now()))
	return nil
}

func (a *App) fetch(ctx context.Context) ([]models.JournalEntry, error) {
	res, err := a.entries.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if res.Offline {
		printlnFn(a.palette(ctx).Muted.Render("Server unreachable, showing cached entries."))
	}
	return res.Entries, nil
}

var sinceLayouts = []string{"2006-01-02", "2006-01-02T15:04:05", time.RFC3339, "2006/01/02"}

// parseSince understands a few date layouts and natural-language expressions.
func parseSince(expr string, now time.Time) (time.Time, error) {
	for _, layout := range sinceLayouts {
		if t, err := time.ParseInLocation(layout, expr, now.Location()); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(whencommon.All...)

	if r, err := w.Parse(expr, now); err == nil && r != nil {
		return r.Time, nil
	}
	return time.Time{}, fmt.Errorf("cannot understand %q as a point in time", expr)
}
