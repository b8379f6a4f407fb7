package session

import "context"

// Persisted key names. themePreference lives next to them but is owned by
// the theme package.
const (
	KeyAccessCredential  = "accessCredential"
	KeyRefreshCredential = "refreshCredential"
	KeyDisplayUsername   = "displayUsername"
)

// Credentials is what survives a process restart for one session.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Username     string
}

// Store is the credential persistence port. The three keys are written and
// removed together.
type Store interface {
	// Load reports ok=false when no access credential is stored.
	Load(ctx context.Context) (creds Credentials, ok bool, err error)
	Save(ctx context.Context, creds Credentials) error
	// Clear removes the credential keys and nothing else.
	Clear(ctx context.Context) error
}
