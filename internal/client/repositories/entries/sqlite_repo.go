package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
	"github.com/dmitrijs2005/moodjournal/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, e models.JournalEntry) error {
	var sentiment, emotions sql.NullString
	if e.Analysis != nil {
		b, err := json.Marshal(e.Analysis.Emotions)
		if err != nil {
			return fmt.Errorf("failed to encode emotions: %w", err)
		}
		sentiment = sql.NullString{String: string(e.Analysis.Sentiment), Valid: true}
		emotions = sql.NullString{String: string(b), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (id, user_id, content, created_at, sentiment, emotions)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id,
			content = excluded.content,
			created_at = excluded.created_at,
			sentiment = excluded.sentiment,
			emotions = excluded.emotions
	`, e.ID, e.UserID, e.Content, e.CreatedAt.UnixNano(), sentiment, emotions)
	if err != nil {
		return fmt.Errorf("failed to upsert entry %d: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, content, created_at, sentiment, emotions
		FROM entries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make([]models.JournalEntry, 0)
	for rows.Next() {
		var (
			e                   models.JournalEntry
			createdAt           int64
			sentiment, emotions sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &createdAt, &sentiment, &emotions); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.CreatedAt = time.Unix(0, createdAt).UTC()

		if sentiment.Valid && emotions.Valid {
			s, err := models.ParseSentiment(sentiment.String)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", e.ID, err)
			}
			a := &models.Analysis{Sentiment: s}
			if err := json.Unmarshal([]byte(emotions.String), &a.Emotions); err != nil {
				return nil, fmt.Errorf("entry %d: failed to decode emotions: %w", e.ID, err)
			}
			e.Analysis = a
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}
