package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
	"github.com/dmitrijs2005/moodjournal/internal/client/repositories/entries"
	"github.com/dmitrijs2005/moodjournal/internal/common"
	"github.com/dmitrijs2005/moodjournal/internal/dbx"
	"github.com/dmitrijs2005/moodjournal/internal/logging"
)

type EntryFetcher interface {
	FetchEntries(ctx context.Context) ([]models.JournalEntry, error)
}

type Access interface {
	CanAccess() bool
}

// FetchResult is a snapshot of the journal, newest-first. Offline is set when
// the snapshot comes from the local cache because the server was unreachable.
type FetchResult struct {
	Entries []models.JournalEntry
	Offline bool
}

// EntryService loads the journal and keeps the local cache in step with it.
type EntryService struct {
	api     EntryFetcher
	session Access
	db      *sql.DB
	log     logging.Logger
}

func NewEntryService(api EntryFetcher, session Access, db *sql.DB, log logging.Logger) *EntryService {
	return &EntryService{api: api, session: session, db: db, log: log}
}

func (s *EntryService) Fetch(ctx context.Context) (FetchResult, error) {
	if !s.session.CanAccess() {
		return FetchResult{}, common.ErrSessionInvalid
	}

	list, err := s.api.FetchEntries(ctx)
	if errors.Is(err, common.ErrUnavailable) {
		cached, cerr := entries.NewSQLiteRepository(s.db).GetAll(ctx)
		if cerr != nil {
			return FetchResult{}, fmt.Errorf("error fetching entries: %w (cache: %v)", err, cerr)
		}
		s.log.Warn(ctx, "server unavailable, using cached entries", "count", len(cached))
		return FetchResult{Entries: cached, Offline: true}, nil
	}
	if err != nil {
		return FetchResult{}, fmt.Errorf("error fetching entries: %w", err)
	}

	if err := s.replaceCache(ctx, list); err != nil {
		s.log.Warn(ctx, "failed to refresh entry cache", "error", err)
	}

	return FetchResult{Entries: list}, nil
}

// Remember stores a single entry in the cache, e.g. right after it was
// created or analyzed.
func (s *EntryService) Remember(ctx context.Context, e models.JournalEntry) error {
	if err := entries.NewSQLiteRepository(s.db).Upsert(ctx, e); err != nil {
		return fmt.Errorf("error caching entry %d: %w", e.ID, err)
	}
	return nil
}

// Forget empties the cache. It is called on logout so that the next user
// never sees the previous journal offline.
func (s *EntryService) Forget(ctx context.Context) error {
	return entries.NewSQLiteRepository(s.db).DeleteAll(ctx)
}

func (s *EntryService) replaceCache(ctx context.Context, list []models.JournalEntry) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := entries.NewSQLiteRepository(tx)
		if err := repo.DeleteAll(ctx); err != nil {
			return err
		}
		for _, e := range list {
			if err := repo.Upsert(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})
}
