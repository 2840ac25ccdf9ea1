package backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, provider *fakeProvider, syncctl *fakeSyncControl, cfg Config) (*Manager, *fakeStore, *memMetadata) {
	t.Helper()
	store := &fakeStore{data: []byte(`{"version":1,"entries":[]}`)}
	meta := newMemMetadata()
	m := NewManager(store, provider, syncctl, meta, cfg, testLogger())
	return m, store, meta
}

func TestRunBackupStoresCompressedSnapshot(t *testing.T) {
	ctx := context.Background()
	provider := newFakeProvider()
	m, store, _ := newTestManager(t, provider, &fakeSyncControl{}, Config{})

	skipped, err := m.RunBackup(ctx, true)
	require.NoError(t, err)
	assert.False(t, skipped)
	require.Equal(t, 1, provider.saveCount())

	list, err := provider.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	payload, err := provider.LoadBackup(ctx, list[0].ID)
	require.NoError(t, err)
	data, err := decompress(payload)
	require.NoError(t, err)
	assert.Equal(t, store.data, data)
}

func TestRunBackupSkipsWhenTooSoon(t *testing.T) {
	ctx := context.Background()
	provider := newFakeProvider()
	m, _, meta := newTestManager(t, provider, &fakeSyncControl{}, Config{MinInterval: time.Hour})

	require.NoError(t, metadata.SetTime(ctx, meta, lastRunKey, time.Now().UTC()))

	skipped, err := m.RunBackup(ctx, false)
	require.NoError(t, err)
	assert.True(t, skipped)
	assert.Equal(t, 0, provider.saveCount())
}

func TestRunBackupManualIgnoresMinInterval(t *testing.T) {
	ctx := context.Background()
	provider := newFakeProvider()
	m, _, meta := newTestManager(t, provider, &fakeSyncControl{}, Config{MinInterval: time.Hour})

	require.NoError(t, metadata.SetTime(ctx, meta, lastRunKey, time.Now().UTC()))

	skipped, err := m.RunBackup(ctx, true)
	require.NoError(t, err)
	assert.False(t, skipped)
	assert.Equal(t, 1, provider.saveCount())
}

func TestRunBackupSkipsWithoutSession(t *testing.T) {
	ctx := context.Background()
	provider := newFakeProvider()
	provider.authed = false
	m, _, _ := newTestManager(t, provider, &fakeSyncControl{}, Config{})

	skipped, err := m.RunBackup(ctx, false)
	require.NoError(t, err)
	assert.True(t, skipped)

	_, err = m.RunBackup(ctx, true)
	assert.ErrorIs(t, err, common.ErrNotConnected)
}

func TestRunBackupRunsRetention(t *testing.T) {
	ctx := context.Background()
	provider := newFakeProvider()
	m, _, _ := newTestManager(t, provider, &fakeSyncControl{}, Config{MaxBackups: 3})

	// three existing backups; the next run makes four and prunes to three
	t1 := time.Now().UTC().Add(-3 * time.Hour)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	for _, ts := range []time.Time{t1, t2, t3} {
		require.NoError(t, provider.SaveBackup(ctx, []byte("old"), ts))
	}

	skipped, err := m.RunBackup(ctx, true)
	require.NoError(t, err)
	assert.False(t, skipped)

	list, err := provider.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	kept := map[time.Time]bool{}
	for _, b := range list {
		kept[b.Timestamp] = true
	}
	assert.False(t, kept[t1], "the oldest backup should be pruned")
	assert.True(t, kept[t2])
	assert.True(t, kept[t3])
}

func TestRestoreSequence(t *testing.T) {
	ctx := context.Background()
	provider := newFakeProvider()
	syncctl := &fakeSyncControl{}
	m, store, _ := newTestManager(t, provider, syncctl, Config{})

	snapshot := []byte(`{"version":1,"entries":[{"id":"e1"}]}`)
	require.NoError(t, provider.SaveBackup(ctx, compress(snapshot), time.Now()))
	list, err := provider.ListBackups(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Restore(ctx, list[0].ID))

	assert.Equal(t, snapshot, store.data)
	// push happens while sync is still paused
	assert.Equal(t, []string{"pause", "push", "resume"}, syncctl.callOrder())
}

func TestRestoreUploadFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	provider := newFakeProvider()
	syncctl := &fakeSyncControl{pushErr: errors.New("network down")}
	m, store, _ := newTestManager(t, provider, syncctl, Config{})

	snapshot := []byte(`{"version":1}`)
	require.NoError(t, provider.SaveBackup(ctx, compress(snapshot), time.Now()))
	list, err := provider.ListBackups(ctx)
	require.NoError(t, err)

	// the local restore stands even though the cloud re-upload failed
	require.NoError(t, m.Restore(ctx, list[0].ID))
	assert.Equal(t, snapshot, store.data)
	assert.Equal(t, []string{"pause", "push", "resume"}, syncctl.callOrder())
}

func TestRestoreUnknownBackup(t *testing.T) {
	ctx := context.Background()
	provider := newFakeProvider()
	syncctl := &fakeSyncControl{}
	m, store, _ := newTestManager(t, provider, syncctl, Config{})

	err := m.Restore(ctx, "no-such-backup")
	assert.ErrorIs(t, err, common.ErrBackupNotFound)
	assert.Empty(t, store.imports)
	// pause/resume still pair up even when the load fails
	assert.Equal(t, []string{"pause", "resume"}, syncctl.callOrder())
}

func TestStartRunsScheduledBackups(t *testing.T) {
	provider := newFakeProvider()
	m, _, _ := newTestManager(t, provider, &fakeSyncControl{}, Config{
		Interval:    20 * time.Millisecond,
		MinInterval: time.Nanosecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)

	require.Eventually(t, func() bool { return provider.saveCount() >= 1 },
		2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, m.Shutdown(context.Background()))
}

func TestListAndDeleteBackups(t *testing.T) {
	ctx := context.Background()
	provider := newFakeProvider()
	m, _, _ := newTestManager(t, provider, &fakeSyncControl{}, Config{})

	require.NoError(t, provider.SaveBackup(ctx, []byte("b1"), time.Now().Add(-time.Minute)))
	require.NoError(t, provider.SaveBackup(ctx, []byte("b2"), time.Now()))

	list, err := m.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// newest first
	assert.True(t, list[0].Timestamp.After(list[1].Timestamp))

	require.NoError(t, m.DeleteBackup(ctx, list[0].ID))
	list, err = m.ListBackups(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
