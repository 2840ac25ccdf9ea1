package cli

import (
	"context"
	"fmt"
	"os"
)

// BackupNow takes a backup immediately, ignoring the time-based skip.
func (a *App) BackupNow(ctx context.Context) error {
	skipped, err := a.backups.RunBackup(ctx, true)
	if err != nil {
		printlnFn("Backup failed:", err.Error())
		return err
	}
	if skipped {
		printlnFn("Backup skipped: not connected.")
		return nil
	}
	printlnFn("Backup complete.")
	return nil
}

// Backups lists the backups stored by the provider, newest first.
func (a *App) Backups(ctx context.Context) error {
	list, err := a.backups.ListBackups(ctx)
	if err != nil {
		printlnFn("Listing backups failed:", err.Error())
		return err
	}
	if len(list) == 0 {
		printlnFn("No backups.")
		return nil
	}
	for _, b := range list {
		size := ""
		if b.Size > 0 {
			size = fmt.Sprintf("  %d bytes", b.Size)
		}
		printlnFn(fmt.Sprintf("%s  %s%s", b.ID, b.Timestamp.Local().Format("2006-01-02 15:04:05"), size))
	}
	return nil
}

// Restore replaces the local journal with a stored backup after an explicit
// confirmation. Current data is overwritten, so the user has to type "yes".
func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: restore <id>")
		return nil
	}
	id := args[0]

	answer, err := getSimpleText(a.reader, "Restoring replaces the current journal. Type 'yes' to continue", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.backups.Restore(ctx, id); err != nil {
		printlnFn("Restore failed:", err.Error())
		return err
	}
	printlnFn("Restore complete.")
	return nil
}
