// Package cloud defines the provider port the sync and backup engines talk
// to, plus the adapters implementing it: an S3 bucket and the Daybook HTTP
// API. The engines never see which one is behind the interface.
package cloud

import (
	"context"
	"time"
)

// BackupInfo describes one stored backup.
type BackupInfo struct {
	// ID identifies the backup for load and delete calls. Its shape is
	// provider-specific (an object key, a server-side id).
	ID string

	// Timestamp is when the backup was taken.
	Timestamp time.Time

	// Size is the stored payload size in bytes, 0 when unknown.
	Size int64
}

// Provider is the remote side of sync and backup.
//
// LoadData returns (nil, nil) when the cloud holds no data yet, so callers
// can distinguish an empty cloud from a transport failure.
type Provider interface {
	// Initialize prepares the provider (client setup, reachability check).
	Initialize(ctx context.Context) error

	// SignIn establishes an authenticated session, resuming a stored one
	// when possible.
	SignIn(ctx context.Context) error

	// SignOut drops the session.
	SignOut(ctx context.Context) error

	// IsAuthenticated reports whether calls that need a session can run.
	IsAuthenticated() bool

	// SaveData atomically replaces the primary sync blob.
	SaveData(ctx context.Context, data []byte) error

	// LoadData fetches the primary sync blob, (nil, nil) when absent.
	LoadData(ctx context.Context) ([]byte, error)

	// SaveBackup stores a backup payload tagged with a timestamp.
	SaveBackup(ctx context.Context, data []byte, ts time.Time) error

	// ListBackups returns stored backups, newest first.
	ListBackups(ctx context.Context) ([]BackupInfo, error)

	// LoadBackup fetches one backup payload, common.ErrBackupNotFound when
	// the id is unknown.
	LoadBackup(ctx context.Context, id string) ([]byte, error)

	// DeleteBackup removes one backup.
	DeleteBackup(ctx context.Context, id string) error

	// CleanupOldBackups deletes the oldest backups beyond maxCount.
	CleanupOldBackups(ctx context.Context, maxCount int) error
}
