// Package backup runs the periodic snapshot backup loop and restore. It is
// deliberately independent from the sync schedule: backups fire on wall
// clock time, not on data changes, and skip by elapsed time rather than by
// content hash.
package backup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/daybook/internal/cloud"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/dmitrijs2005/daybook/internal/repositories/metadata"
)

const (
	// DefaultInterval is the backup ticker period.
	DefaultInterval = 5 * time.Minute

	// DefaultMaxBackups is how many backups retention keeps.
	DefaultMaxBackups = 10

	// lastRunKey is the metadata key holding the last backup time, so the
	// skip rule survives restarts.
	lastRunKey = "backup_last_run"
)

// Store is the slice of the local store the backup engine needs.
type Store interface {
	ExportData(ctx context.Context) ([]byte, error)
	ImportData(ctx context.Context, data []byte) error
}

// SyncControl is the slice of the sync coordinator restore needs: hold sync
// off while local data is being replaced, then make the restored snapshot
// authoritative in the cloud.
type SyncControl interface {
	Pause()
	Resume()
	ForcePush(ctx context.Context) error
}

// Config tunes the backup manager. Zero values select the defaults; the
// minimum interval defaults to half the ticker period so a tick that fires
// slightly early still runs.
type Config struct {
	Interval    time.Duration
	MinInterval time.Duration
	MaxBackups  int
}

// Manager owns the backup lifecycle.
type Manager struct {
	store    Store
	provider cloud.Provider
	syncctl  SyncControl
	meta     metadata.Repository
	cfg      Config
	log      logging.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewManager(store Store, provider cloud.Provider, syncctl SyncControl, meta metadata.Repository, cfg Config, log logging.Logger) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = cfg.Interval / 2
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = DefaultMaxBackups
	}
	return &Manager{
		store:    store,
		provider: provider,
		syncctl:  syncctl,
		meta:     meta,
		cfg:      cfg,
		log:      log,
	}
}

// Start launches the ticker loop. It runs until ctx is canceled.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := m.RunBackup(ctx, false); err != nil {
					m.log.Error(ctx, "scheduled backup failed", "error", err)
				}
			}
		}
	}()
}

// Shutdown waits for the loop and any in-flight backup to finish, bounded
// by ctx. Cancel the Start context first.
func (m *Manager) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunBackup exports a snapshot, compresses it and stores it remotely.
// Automatic runs are skipped (returning true) when the minimum interval has
// not elapsed since the last backup or when no cloud session exists; manual
// runs always execute.
func (m *Manager) RunBackup(ctx context.Context, manual bool) (skipped bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.provider.IsAuthenticated() {
		if manual {
			return false, common.ErrNotConnected
		}
		m.log.Debug(ctx, "skipping backup, no cloud session")
		return true, nil
	}

	now := time.Now().UTC()
	if !manual {
		last, ok, err := metadata.GetTime(ctx, m.meta, lastRunKey)
		if err != nil {
			return false, fmt.Errorf("failed to read last backup time: %w", err)
		}
		if ok && now.Sub(last) < m.cfg.MinInterval {
			m.log.Debug(ctx, "skipping backup, too soon", "elapsed", now.Sub(last))
			return true, nil
		}
	}

	data, err := m.store.ExportData(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to export snapshot: %w", err)
	}

	payload := compress(data)
	if err := m.provider.SaveBackup(ctx, payload, now); err != nil {
		return false, fmt.Errorf("failed to store backup: %w", err)
	}

	if err := metadata.SetTime(ctx, m.meta, lastRunKey, now); err != nil {
		m.log.Warn(ctx, "failed to record backup time", "error", err)
	}

	// retention is best effort, a failed cleanup never fails the backup
	if err := m.provider.CleanupOldBackups(ctx, m.cfg.MaxBackups); err != nil {
		m.log.Warn(ctx, "backup retention cleanup failed", "error", err)
	}

	m.log.Info(ctx, "backup stored", "bytes", len(payload), "manual", manual)
	return false, nil
}

// ListBackups returns the stored backups, newest first.
func (m *Manager) ListBackups(ctx context.Context) ([]cloud.BackupInfo, error) {
	return m.provider.ListBackups(ctx)
}

// DeleteBackup removes one stored backup.
func (m *Manager) DeleteBackup(ctx context.Context, id string) error {
	return m.provider.DeleteBackup(ctx, id)
}

// Restore replaces local data with a stored backup. Sync is paused for the
// whole operation and the restored snapshot is re-uploaded before sync
// resumes, so a resumed sync never sees stale cloud data. A failed upload
// is logged and the local restore stands; the next sync may then surface a
// conflict.
func (m *Manager) Restore(ctx context.Context, id string) error {
	m.syncctl.Pause()
	defer m.syncctl.Resume()

	payload, err := m.provider.LoadBackup(ctx, id)
	if err != nil {
		return err
	}
	data, err := decompress(payload)
	if err != nil {
		return err
	}

	if err := m.store.ImportData(ctx, data); err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}
	m.log.Info(ctx, "backup restored", "id", id)

	if err := m.syncctl.ForcePush(ctx); err != nil {
		m.log.Warn(ctx, "failed to re-upload restored snapshot, cloud may be stale", "error", err)
	}
	return nil
}
