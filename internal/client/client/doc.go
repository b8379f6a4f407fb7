// Package client contains the transport side of the moodjournal client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (Client) for the backend operations the
//     core depends on: authenticate, refresh, register, current user, fetch
//     entries, create entry and analyze entry.
//  2. An HTTP/JSON implementation (HTTPClient) that attaches the bearer
//     access token, refreshes it once on 401 and replays the call, tags
//     every request with an X-Request-ID, throttles outbound calls, and maps
//     HTTP statuses to the sentinel errors in internal/common.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the sqlite database and applies the embedded goose migrations.
//
// # Error Handling
//
// Status failures are returned as *StatusError, which unwraps to one of
// common.ErrValidation, common.ErrUnauthorized, common.ErrNotFound or
// common.ErrUnavailable. Network failures unwrap to common.ErrUnavailable.
package client
