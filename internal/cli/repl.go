package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	SyncNow(ctx context.Context) error
	PauseSync(ctx context.Context) error
	ResumeSync(ctx context.Context) error
	Status(ctx context.Context) error
	BackupNow(ctx context.Context) error
	Backups(ctx context.Context) error
	Restore(ctx context.Context, args []string) error
	Today(ctx context.Context) error
	Open(ctx context.Context, args []string) error
	Write(ctx context.Context, args []string) error
	ExportEntry(ctx context.Context, args []string) error
	Templates(ctx context.Context) error
	AddTemplate(ctx context.Context) error
	DeleteTemplate(ctx context.Context, args []string) error
	SetFrequency(ctx context.Context, args []string) error
	Columns(ctx context.Context) error
	AddColumn(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the daybook CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current sync status (from statusFn) and accepts:
//
//	Journal:
//	  - today              — open today's entry
//	  - open <date>        — open the entry for a date (YYYY-MM-DD)
//	  - write [date]       — edit a section of an entry
//	  - export [date]      — print an entry as markdown
//
//	Layout:
//	  - templates          — list section templates
//	  - addtemplate        — create a section template
//	  - deltemplate <id>   — delete a section template
//	  - setfreq <id> <f>   — change a template's recurrence
//	  - columns            — list layout columns
//	  - addcolumn          — create a layout column
//
//	Sync and backup:
//	  - status             — show sync state
//	  - connect            — sign in and start syncing
//	  - disconnect         — sign out
//	  - sync               — synchronize now
//	  - pause | resume     — suspend / restart automatic sync
//	  - backup             — take a backup now
//	  - backups            — list stored backups
//	  - restore <id>       — restore a backup
//	  - exit | quit        — leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("daybook (%s) > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Journal: today, open <date>, write [date], export [date]")
			printlnFn("Layout:  templates, addtemplate, deltemplate <id>, setfreq <id> <freq>, columns, addcolumn")
			printlnFn("Cloud:   status, connect, disconnect, sync, pause, resume, backup, backups, restore <id>")
			printlnFn("Other:   help, exit")

		case "today":
			_ = a.Today(ctx)

		case "open":
			_ = a.Open(ctx, args)

		case "write":
			_ = a.Write(ctx, args)

		case "export":
			_ = a.ExportEntry(ctx, args)

		case "templates":
			_ = a.Templates(ctx)

		case "addtemplate":
			_ = a.AddTemplate(ctx)

		case "deltemplate":
			_ = a.DeleteTemplate(ctx, args)

		case "setfreq":
			_ = a.SetFrequency(ctx, args)

		case "columns":
			_ = a.Columns(ctx)

		case "addcolumn":
			_ = a.AddColumn(ctx)

		case "status":
			_ = a.Status(ctx)

		case "connect":
			_ = a.Connect(ctx)

		case "disconnect":
			_ = a.Disconnect(ctx)

		case "sync":
			_ = a.SyncNow(ctx)

		case "pause":
			_ = a.PauseSync(ctx)

		case "resume":
			_ = a.ResumeSync(ctx)

		case "backup":
			_ = a.BackupNow(ctx)

		case "backups":
			_ = a.Backups(ctx)

		case "restore":
			_ = a.Restore(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
