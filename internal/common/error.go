// Package common defines shared constants and sentinel errors used across
// Daybook components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// Cloud connectivity errors.
	ErrNotConnected = errors.New("not connected to cloud")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Sync engine errors.
	ErrCorruptPayload = errors.New("corrupt payload")
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrSyncPaused     = errors.New("sync is paused")
	ErrStoreNotReady  = errors.New("store not ready")

	// Backup errors.
	ErrBackupNotFound = errors.New("backup not found")
)
