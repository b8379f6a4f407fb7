package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/moodjournal/internal/client/theme"
)

// Theme shows, sets or toggles the color theme. It works without a session.
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		m, err := a.theme.Get(ctx)
		if err != nil {
			return err
		}
		printlnFn("Theme: " + string(m))
		return nil
	}
	if len(args) > 1 {
		return errors.New("usage: theme [dark|light|toggle]")
	}

	var (
		m   theme.Mode
		err error
	)
	if strings.EqualFold(args[0], "toggle") {
		m, err = a.theme.Toggle(ctx)
	} else {
		m, err = theme.ParseMode(args[0])
		if err == nil {
			err = a.theme.Set(ctx, m)
		}
	}
	if err != nil {
		return err
	}

	printlnFn(theme.For(m).Title.Render("Theme set to " + string(m) + "."))
	return nil
}
