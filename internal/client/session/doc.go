// Package session owns the authentication state of a running client.
//
// Manager is a three-state machine (Unresolved, Authenticated, Anonymous)
// over a Store, the credential persistence port. Store has a sqlite adapter
// backed by the local metadata table and a Redis adapter.
//
// Resume policy: stored credentials are trusted without a round trip unless
// the access credential is a JWT past its exp, in which case one refresh is
// attempted. With verification enabled the backend is also asked who the
// credential belongs to. A rejected credential is cleared and the session
// resolves to Anonymous; an unreachable backend keeps the stored session.
package session
