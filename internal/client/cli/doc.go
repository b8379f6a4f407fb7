// Package cli provides the interactive mood journal command-line client.
//
// It wires configuration, the local database, the backend client and the
// session manager, then runs a REPL on top of them. The REPL also acts as the
// route guard: commands that need a session are refused while nobody is
// logged in.
//
// Commands:
//   - register, login, logout, whoami
//   - write: read a multi-line entry, save it and show its analysis
//   - reanalyze <id>: retry the analysis of an entry saved without one
//   - entries, dashboard [since <when>]
//   - theme [dark|light|toggle], backup
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
