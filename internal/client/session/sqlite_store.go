package session

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/moodjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/moodjournal/internal/dbx"
)

// SQLiteStore keeps credentials in the local metadata table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (Credentials, bool, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	access, err := repo.Get(ctx, KeyAccessCredential)
	if err != nil {
		return Credentials{}, false, err
	}
	if len(access) == 0 {
		return Credentials{}, false, nil
	}

	refresh, err := repo.Get(ctx, KeyRefreshCredential)
	if err != nil {
		return Credentials{}, false, err
	}
	username, err := repo.Get(ctx, KeyDisplayUsername)
	if err != nil {
		return Credentials{}, false, err
	}

	return Credentials{
		AccessToken:  string(access),
		RefreshToken: string(refresh),
		Username:     string(username),
	}, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, c Credentials) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessCredential, []byte(c.AccessToken)); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyRefreshCredential, []byte(c.RefreshToken)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyDisplayUsername, []byte(c.Username))
	})
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	repo := metadata.NewSQLiteRepository(s.db)
	if err := repo.Delete(ctx, KeyAccessCredential, KeyRefreshCredential, KeyDisplayUsername); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
