package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/daybook/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Connect signs in to the configured cloud provider and pulls the remote
// snapshot. A provider holding a resumable session connects without
// prompting; when the session is missing or rejected and the provider
// authenticates interactively, the user is asked for credentials once and
// the sign-in is retried.
func (a *App) Connect(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, a.connectTimeout)
	defer cancel()

	err := a.coord.Connect(cctx)
	if err != nil && errors.Is(err, common.ErrorUnauthorized) && a.creds != nil {
		username, perr := getSimpleText(a.reader, "Enter username", os.Stdout)
		if perr != nil {
			return perr
		}
		password, perr := getPassword(os.Stdout)
		if perr != nil {
			return perr
		}
		a.creds.SetCredentials(username, string(password))
		common.WipeByteArray(password)

		err = a.coord.Connect(cctx)
	}
	if err != nil {
		printlnFn("Connect failed:", err.Error())
		return err
	}

	printlnFn("Connected.")
	return nil
}

// Disconnect signs out and returns the journal to local-only operation.
func (a *App) Disconnect(ctx context.Context) error {
	if err := a.coord.Disconnect(ctx); err != nil {
		printlnFn("Disconnect failed:", err.Error())
		return err
	}
	printlnFn("Disconnected.")
	return nil
}

// SyncNow runs a full sync cycle immediately.
func (a *App) SyncNow(ctx context.Context) error {
	if err := a.coord.SyncNow(ctx); err != nil {
		printlnFn("Sync failed:", err.Error())
		return err
	}
	printlnFn("Sync complete.")
	return nil
}

// PauseSync suspends automatic syncing until resume.
func (a *App) PauseSync(ctx context.Context) error {
	a.coord.Pause()
	printlnFn("Sync paused.")
	return nil
}

// ResumeSync re-enables automatic syncing.
func (a *App) ResumeSync(ctx context.Context) error {
	a.coord.Resume()
	printlnFn("Sync resumed.")
	return nil
}

// Status prints the coordinator's current state.
func (a *App) Status(ctx context.Context) error {
	st := a.coord.Status()

	printlnFn("State:     ", st.State.String())
	printlnFn("Connected: ", st.Connected)
	printlnFn("Paused:    ", st.Paused)
	printlnFn("Auto-sync: ", st.AutoSync)
	if !st.LastSync.IsZero() {
		printlnFn("Last sync: ", st.LastSync.Local().Format("2006-01-02 15:04:05"))
	}
	if st.LastError != nil {
		printlnFn(fmt.Sprintf("Last error: %v", st.LastError))
	}
	return nil
}
