package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
	"github.com/dmitrijs2005/moodjournal/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func newManager(store Store, auth Authenticator, opts ...Option) *Manager {
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	return NewManager(store, auth, opts...)
}

func TestManager_StartsUnresolved(t *testing.T) {
	m := newManager(&memStore{}, &fakeAuth{})

	assert.Equal(t, StateUnresolved, m.State())
	assert.False(t, m.CanAccess())
	assert.ErrorIs(t, m.Require(), common.ErrSessionInvalid)
}

func TestResume_NoStoredCredentials(t *testing.T) {
	auth := &fakeAuth{}
	m := newManager(&memStore{}, auth)

	require.NoError(t, m.Resume(context.Background()))
	assert.Equal(t, StateAnonymous, m.State())
	assert.Empty(t, auth.Calls)
}

func TestResume_OpaqueCredentialTrustedWithoutRoundTrip(t *testing.T) {
	store := &memStore{present: true, creds: Credentials{AccessToken: "opaque", RefreshToken: "r", Username: "alice"}}
	auth := &fakeAuth{}
	m := newManager(store, auth)

	require.NoError(t, m.Resume(context.Background()))
	assert.Equal(t, StateAuthenticated, m.State())
	assert.True(t, m.CanAccess())
	assert.NoError(t, m.Require())
	assert.Equal(t, "alice", m.Username())
	assert.Equal(t, models.Tokens{Access: "opaque", Refresh: "r"}, m.Tokens())
	assert.Empty(t, auth.Calls)
}

func TestResume_ValidJWT(t *testing.T) {
	access := signedToken(t, testNow.Add(time.Hour))
	store := &memStore{present: true, creds: Credentials{AccessToken: access, RefreshToken: "r", Username: "alice"}}
	auth := &fakeAuth{}
	m := newManager(store, auth)

	require.NoError(t, m.Resume(context.Background()))
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Empty(t, auth.Calls)
}

func TestResume_ExpiredJWTRefreshed(t *testing.T) {
	access := signedToken(t, testNow.Add(-time.Minute))
	store := &memStore{present: true, creds: Credentials{AccessToken: access, RefreshToken: "r1", Username: "alice"}}
	auth := &fakeAuth{RefreshTokens: models.Tokens{Access: "a2", Refresh: "r2"}}
	m := newManager(store, auth)

	require.NoError(t, m.Resume(context.Background()))
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "r1", auth.LastRefresh)
	assert.Equal(t, models.Tokens{Access: "a2", Refresh: "r2"}, m.Tokens())
	assert.Equal(t, Credentials{AccessToken: "a2", RefreshToken: "r2", Username: "alice"}, store.creds)
}

func TestResume_ExpiredJWTRefreshRejected(t *testing.T) {
	access := signedToken(t, testNow.Add(-time.Minute))
	store := &memStore{present: true, creds: Credentials{AccessToken: access, RefreshToken: "r1", Username: "alice"}}
	auth := &fakeAuth{RefreshErr: common.ErrUnauthorized}
	m := newManager(store, auth)

	err := m.Resume(context.Background())
	require.ErrorIs(t, err, common.ErrTokenExpired)
	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, store.present)
	assert.Empty(t, m.Username())
}

func TestResume_ExpiredJWTWithoutRefreshCredential(t *testing.T) {
	access := signedToken(t, testNow.Add(-time.Minute))
	store := &memStore{present: true, creds: Credentials{AccessToken: access, Username: "alice"}}
	auth := &fakeAuth{}
	m := newManager(store, auth)

	require.ErrorIs(t, m.Resume(context.Background()), common.ErrTokenExpired)
	assert.Equal(t, StateAnonymous, m.State())
	assert.Empty(t, auth.Calls)
}

func TestResume_ExpiredJWTServerDownKeepsSession(t *testing.T) {
	access := signedToken(t, testNow.Add(-time.Minute))
	store := &memStore{present: true, creds: Credentials{AccessToken: access, RefreshToken: "r1", Username: "alice"}}
	auth := &fakeAuth{RefreshErr: common.ErrUnavailable}
	m := newManager(store, auth)

	require.NoError(t, m.Resume(context.Background()))
	assert.Equal(t, StateAuthenticated, m.State())
	assert.True(t, store.present)
}

func TestResume_Verify(t *testing.T) {
	tests := []struct {
		name      string
		meErr     error
		wantState State
		wantErr   bool
		wantClear bool
	}{
		{name: "accepted", wantState: StateAuthenticated},
		{name: "rejected", meErr: common.ErrUnauthorized, wantState: StateAnonymous, wantErr: true, wantClear: true},
		{name: "server down", meErr: common.ErrUnavailable, wantState: StateAuthenticated},
		{name: "server error", meErr: errors.New("500"), wantState: StateAuthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{present: true, creds: Credentials{AccessToken: "opaque", RefreshToken: "r"}}
			auth := &fakeAuth{MeUser: models.User{ID: 3, Username: "bob"}, MeErr: tt.meErr}
			m := newManager(store, auth, WithVerifyOnResume(true))

			err := m.Resume(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantState, m.State())
			assert.Equal(t, []string{"me"}, auth.Calls)
			assert.Equal(t, tt.wantClear, store.Clears == 1)
		})
	}
}

func TestResume_VerifyFillsMissingUsername(t *testing.T) {
	store := &memStore{present: true, creds: Credentials{AccessToken: "opaque"}}
	auth := &fakeAuth{MeUser: models.User{ID: 3, Username: "bob"}}
	m := newManager(store, auth, WithVerifyOnResume(true))

	require.NoError(t, m.Resume(context.Background()))
	assert.Equal(t, "bob", m.Username())
}

func TestResume_StoreFailureResolvesAnonymous(t *testing.T) {
	store := &memStore{LoadErr: errors.New("disk gone")}
	m := newManager(store, &fakeAuth{})

	require.Error(t, m.Resume(context.Background()))
	assert.Equal(t, StateAnonymous, m.State())
}

func TestResume_OnlyOnce(t *testing.T) {
	store := &memStore{}
	m := newManager(store, &fakeAuth{AuthTokens: models.Tokens{Access: "a", Refresh: "r"}})
	ctx := context.Background()

	require.NoError(t, m.Resume(ctx))
	require.NoError(t, m.Login(ctx, "alice", "pw"))
	require.NoError(t, m.Resume(ctx))
	assert.Equal(t, StateAuthenticated, m.State())
}

func TestLogin_Success(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{AuthTokens: models.Tokens{Access: "a", Refresh: "r"}}
	m := newManager(store, auth)
	ctx := context.Background()
	require.NoError(t, m.Resume(ctx))

	require.NoError(t, m.Login(ctx, "alice", "pw"))
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "alice", m.Username())
	assert.Equal(t, Credentials{AccessToken: "a", RefreshToken: "r", Username: "alice"}, store.creds)
	assert.Equal(t, "pw", auth.LastAuthPassword)
}

func TestLogin_WrongPasswordStaysAnonymous(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{AuthErr: common.ErrUnauthorized}
	m := newManager(store, auth)
	ctx := context.Background()
	require.NoError(t, m.Resume(ctx))

	err := m.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, common.ErrAuthentication)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, store.present)
	assert.Zero(t, store.Saves)
	assert.Zero(t, store.Clears)
}

func TestLogin_FailureKeepsPriorAuthenticatedSession(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{AuthTokens: models.Tokens{Access: "a", Refresh: "r"}}
	m := newManager(store, auth)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "alice", "pw"))

	auth.AuthErr = common.ErrUnauthorized
	require.ErrorIs(t, m.Login(ctx, "mallory", "guess"), common.ErrAuthentication)

	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "alice", m.Username())
	assert.Equal(t, "alice", store.creds.Username)
}

func TestLogin_ServerUnavailableIsNotAuthenticationError(t *testing.T) {
	store := &memStore{}
	outage := fmt.Errorf("%w: dial tcp 127.0.0.1:1: connection refused", common.ErrUnavailable)
	m := newManager(store, &fakeAuth{AuthErr: outage})
	ctx := context.Background()
	require.NoError(t, m.Resume(ctx))

	err := m.Login(ctx, "alice", "pw")
	require.ErrorIs(t, err, common.ErrUnavailable)
	assert.NotErrorIs(t, err, common.ErrAuthentication)
	assert.Equal(t, StateAnonymous, m.State())
	assert.Zero(t, store.Saves)
}

func TestLogin_PersistFailure(t *testing.T) {
	store := &memStore{SaveErr: errors.New("read-only")}
	m := newManager(store, &fakeAuth{AuthTokens: models.Tokens{Access: "a"}})
	ctx := context.Background()
	require.NoError(t, m.Resume(ctx))

	require.Error(t, m.Login(ctx, "alice", "pw"))
	assert.Equal(t, StateAnonymous, m.State())
}

func TestRegister_ThenLogsIn(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{AuthTokens: models.Tokens{Access: "a", Refresh: "r"}}
	m := newManager(store, auth)

	require.NoError(t, m.Register(context.Background(), "carol", "carol@example.com", "pw"))
	assert.Equal(t, []string{"register", "authenticate"}, auth.Calls)
	assert.Equal(t, []string{"carol", "carol@example.com", "pw"}, auth.LastRegister)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, "carol", m.Username())
}

func TestRegister_FailureCreatesNoSession(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{RegisterErr: common.ErrValidation}
	m := newManager(store, auth)
	ctx := context.Background()
	require.NoError(t, m.Resume(ctx))

	require.ErrorIs(t, m.Register(ctx, "carol", "bad", "pw"), common.ErrValidation)
	assert.Equal(t, []string{"register"}, auth.Calls)
	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, store.present)
}

func TestLogout_IdempotentFromAnyState(t *testing.T) {
	ctx := context.Background()

	for _, start := range []string{"unresolved", "anonymous", "authenticated"} {
		t.Run(start, func(t *testing.T) {
			store := &memStore{}
			m := newManager(store, &fakeAuth{AuthTokens: models.Tokens{Access: "a", Refresh: "r"}})
			switch start {
			case "anonymous":
				require.NoError(t, m.Resume(ctx))
			case "authenticated":
				require.NoError(t, m.Login(ctx, "alice", "pw"))
			}

			require.NoError(t, m.Logout(ctx))
			once := []any{m.State(), m.Username(), m.Tokens(), store.present}

			require.NoError(t, m.Logout(ctx))
			twice := []any{m.State(), m.Username(), m.Tokens(), store.present}

			assert.Equal(t, once, twice)
			assert.Equal(t, StateAnonymous, m.State())
			assert.False(t, store.present)
		})
	}
}

func TestLogout_ClearFailureStillAnonymous(t *testing.T) {
	store := &memStore{ClearErr: errors.New("locked")}
	m := newManager(store, &fakeAuth{AuthTokens: models.Tokens{Access: "a"}})
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "alice", "pw"))

	require.Error(t, m.Logout(ctx))
	assert.Equal(t, StateAnonymous, m.State())
	assert.Empty(t, m.Tokens().Access)
}

func TestTokensRefreshed_PersistsWhileAuthenticated(t *testing.T) {
	store := &memStore{}
	m := newManager(store, &fakeAuth{AuthTokens: models.Tokens{Access: "a1", Refresh: "r1"}})
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "alice", "pw"))

	m.TokensRefreshed(ctx, models.Tokens{Access: "a2"})
	assert.Equal(t, models.Tokens{Access: "a2", Refresh: "r1"}, m.Tokens())
	assert.Equal(t, "a2", store.creds.AccessToken)

	require.NoError(t, m.Logout(ctx))
	m.TokensRefreshed(ctx, models.Tokens{Access: "a3", Refresh: "r3"})
	assert.Empty(t, m.Tokens().Access)
	assert.False(t, store.present)
}

func TestCredentialsRejected_DiscardsSession(t *testing.T) {
	store := &memStore{present: true, creds: Credentials{AccessToken: "opaque", RefreshToken: "r", Username: "alice"}}
	m := newManager(store, &fakeAuth{})
	ctx := context.Background()
	require.NoError(t, m.Resume(ctx))
	require.True(t, m.CanAccess())

	m.CredentialsRejected(ctx, "opaque")
	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, m.CanAccess())
	assert.ErrorIs(t, m.Require(), common.ErrSessionInvalid)
	assert.Empty(t, m.Username())
	assert.False(t, store.present)
	assert.Equal(t, 1, store.Clears)

	m.CredentialsRejected(ctx, "opaque")
	assert.Equal(t, 1, store.Clears)
}

func TestCredentialsRejected_IgnoresReplacedCredential(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{AuthTokens: models.Tokens{Access: "new", Refresh: "r2"}}
	m := newManager(store, auth)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "alice", "pw"))

	m.CredentialsRejected(ctx, "old")
	m.CredentialsRejected(ctx, "")
	assert.Equal(t, StateAuthenticated, m.State())
	assert.True(t, store.present)
	assert.Zero(t, store.Clears)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unresolved", StateUnresolved.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "State(9)", State(9).String())
}
