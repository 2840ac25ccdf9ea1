// Package cli implements the interactive daybook shell: a small REPL over
// the journal service, the sync coordinator and the backup manager.
package cli

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/dmitrijs2005/daybook/internal/backup"
	"github.com/dmitrijs2005/daybook/internal/journal"
	"github.com/dmitrijs2005/daybook/internal/logging"
	syncer "github.com/dmitrijs2005/daybook/internal/sync"
)

// CredentialsSetter is implemented by providers that authenticate with a
// username and password. The S3 provider takes its credentials from config
// and does not implement it.
type CredentialsSetter interface {
	SetCredentials(username, password string)
}

// App wires user commands to the journal, sync and backup services. Command
// handlers log their own errors and return them for the benefit of tests;
// the REPL ignores the return values.
type App struct {
	journal *journal.Service
	coord   *syncer.Coordinator
	backups *backup.Manager

	// creds is non-nil when the configured provider needs interactive
	// sign-in (the API provider); nil for S3.
	creds CredentialsSetter

	// connectTimeout bounds the provider round trips behind connect.
	connectTimeout time.Duration

	reader *bufio.Reader
	log    logging.Logger
}

func NewApp(j *journal.Service, c *syncer.Coordinator, b *backup.Manager, creds CredentialsSetter, connectTimeout time.Duration, log logging.Logger) *App {
	return &App{
		journal:        j,
		coord:          c,
		backups:        b,
		creds:          creds,
		connectTimeout: connectTimeout,
		reader:         bufio.NewReader(os.Stdin),
		log:            log,
	}
}

// Run starts the REPL on stdin and blocks until the user exits or input
// ends.
func (a *App) Run(ctx context.Context) {
	printlnFn("Daybook CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.statusLine, scanner)
}

// statusLine renders the short sync summary shown in the prompt.
func (a *App) statusLine() string {
	st := a.coord.Status()
	s := st.State.String()
	if !st.Connected {
		return "local"
	}
	if st.Paused {
		return s + ", paused"
	}
	return s
}
