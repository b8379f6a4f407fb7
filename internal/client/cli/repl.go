package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/moodjournal/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	CanAccess() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Write(ctx context.Context) error
	Reanalyze(ctx context.Context, args []string) error
	Entries(ctx context.Context) error
	Dashboard(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
	Backup(ctx context.Context) error
}

// protected lists the commands that need an authenticated session. The
// REPL refuses them up front instead of letting them fail deeper down.
var protected = map[string]bool{
	"write":     true,
	"reanalyze": true,
	"entries":   true,
	"dashboard": true,
	"backup":    true,
}

const (
	helpAnonymous = "Available commands: register, login, theme, whoami, help, exit"
	helpSignedIn  = "Available commands: write, reanalyze <id>, entries, dashboard [since <when>], " +
		"backup, theme [dark|light|toggle], whoami, logout, help, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit"/"quit" or when ctx is cancelled.
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("mj %s> ", statusFn()))

		line, err := readLine(ctx, reader)
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if protected[cmd] && !a.CanAccess() {
			printlnFn("Please log in first (try 'login' or 'register').")
			continue
		}

		signedIn := a.CanAccess()

		var cmdErr error
		switch cmd {
		case "help":
			if a.CanAccess() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.Whoami(ctx)
		case "write":
			cmdErr = a.Write(ctx)
		case "reanalyze":
			cmdErr = a.Reanalyze(ctx, args)
		case "entries":
			cmdErr = a.Entries(ctx)
		case "dashboard":
			cmdErr = a.Dashboard(ctx, args)
		case "theme":
			cmdErr = a.Theme(ctx, args)
		case "backup":
			cmdErr = a.Backup(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
			if signedIn && !a.CanAccess() && errors.Is(cmdErr, common.ErrUnauthorized) {
				printlnFn("The server no longer accepts your session. Please log in again.")
			}
		}
	}
}

// readLine reads one line but gives up when ctx is cancelled. The pending
// read is abandoned; the process is about to exit in that case.
func readLine(ctx context.Context, reader *bufio.Reader) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := reader.ReadString('\n')
		ch <- result{line, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.line, r.err
	}
}
