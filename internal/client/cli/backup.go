package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/moodjournal/internal/client/services"
)

// Backup uploads the journal as JSON to the configured bucket.
func (a *App) Backup(ctx context.Context) error {
	list, err := a.fetch(ctx)
	if err != nil {
		return err
	}

	key, err := a.backup.Export(ctx, a.session.Username(), list)
	if errors.Is(err, services.ErrBackupDisabled) {
		return errors.New("backup is not configured, set backup.bucket in the config file")
	}
	if err != nil {
		return err
	}

	printlnFn("Backup written to " + key + ".")
	return nil
}
