package client

import (
	"context"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
)

// Client is the set of backend operations used by the client core.
type Client interface {
	Authenticate(ctx context.Context, username, password string) (models.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.Tokens, error)
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Me(ctx context.Context) (models.User, error)
	FetchEntries(ctx context.Context) ([]models.JournalEntry, error)
	CreateEntry(ctx context.Context, content string) (models.JournalEntry, error)
	Analyze(ctx context.Context, entryID int64) (models.AnalysisResult, error)
	Close() error
}

// TokenSource supplies credentials for authenticated calls and receives the
// pair issued by a transparent refresh. The session manager implements it.
type TokenSource interface {
	Tokens() models.Tokens
	TokensRefreshed(ctx context.Context, t models.Tokens)
	// CredentialsRejected reports an access credential the backend refused
	// and that no refresh could replace.
	CredentialsRejected(ctx context.Context, access string)
}
