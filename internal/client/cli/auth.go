package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodjournal/internal/common"
)

// Prompt indirections, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	confirm       = Confirm
)

// Register prompts for a username, an email and a password, creates the
// account and signs in with it.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Choose a password", a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	if err := a.session.Register(ctx, username, email, string(password)); err != nil {
		return err
	}

	printlnFn("Account created. Welcome, " + a.session.Username() + "!")
	return nil
}

// Login prompts for credentials and signs in. A rejected password leaves
// the current session as it was.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	err = a.session.Login(ctx, username, string(password))
	if errors.Is(err, common.ErrAuthentication) {
		return errors.New("invalid username or password")
	}
	if err != nil {
		return err
	}

	printlnFn("Logged in as " + a.session.Username() + ".")
	return nil
}

// Logout ends the session and drops the cached journal. It is safe to call
// when nobody is logged in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	if err := a.entries.Forget(ctx); err != nil {
		a.log.Warn(ctx, "failed to clear entry cache", "error", err)
	}
	a.draft, a.draftEntryID = "", 0

	printlnFn("Logged out.")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	if !a.session.CanAccess() {
		printlnFn(fmt.Sprintf("Not logged in (%s).", a.session.State()))
		return nil
	}
	printlnFn(fmt.Sprintf("%s (%s)", a.session.Username(), a.session.State()))
	return nil
}
