package backup

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/daybook/internal/cloud"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
	"github.com/google/uuid"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeStore struct {
	mu      sync.Mutex
	data    []byte
	imports [][]byte
}

func (f *fakeStore) ExportData(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.data...), nil
}

func (f *fakeStore) ImportData(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = append([]byte(nil), data...)
	f.imports = append(f.imports, append([]byte(nil), data...))
	return nil
}

// fakeSyncControl records the order of calls so tests can assert that the
// restored snapshot is pushed before sync resumes.
type fakeSyncControl struct {
	mu      sync.Mutex
	calls   []string
	pushErr error
}

func (f *fakeSyncControl) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "pause")
}

func (f *fakeSyncControl) Resume() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "resume")
}

func (f *fakeSyncControl) ForcePush(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "push")
	return f.pushErr
}

func (f *fakeSyncControl) callOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// memMetadata is an in-memory metadata.Repository.
type memMetadata struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemMetadata() *memMetadata {
	return &memMetadata{values: map[string][]byte{}}
}

func (m *memMetadata) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memMetadata) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *memMetadata) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memMetadata) List(ctx context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *memMetadata) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[string][]byte{}
	return nil
}

// fakeProvider stores backups in memory and prunes like a real adapter.
type fakeProvider struct {
	mu       sync.Mutex
	authed   bool
	backups  map[string][]byte
	stamps   map[string]time.Time
	saves    int
	cleanups []int
	saveErr  error
}

var _ cloud.Provider = (*fakeProvider)(nil)

func newFakeProvider() *fakeProvider {
	return &fakeProvider{authed: true, backups: map[string][]byte{}, stamps: map[string]time.Time{}}
}

func (p *fakeProvider) Initialize(ctx context.Context) error { return nil }
func (p *fakeProvider) SignIn(ctx context.Context) error     { return nil }
func (p *fakeProvider) SignOut(ctx context.Context) error    { return nil }

func (p *fakeProvider) IsAuthenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authed
}

func (p *fakeProvider) SaveData(ctx context.Context, data []byte) error { return nil }
func (p *fakeProvider) LoadData(ctx context.Context) ([]byte, error)    { return nil, nil }

func (p *fakeProvider) SaveBackup(ctx context.Context, data []byte, ts time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	id := uuid.NewString()
	p.backups[id] = append([]byte(nil), data...)
	p.stamps[id] = ts
	p.saves++
	return nil
}

func (p *fakeProvider) ListBackups(ctx context.Context) ([]cloud.BackupInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]cloud.BackupInfo, 0, len(p.backups))
	for id, data := range p.backups {
		out = append(out, cloud.BackupInfo{ID: id, Timestamp: p.stamps[id], Size: int64(len(data))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (p *fakeProvider) LoadBackup(ctx context.Context, id string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.backups[id]
	if !ok {
		return nil, common.ErrBackupNotFound
	}
	return append([]byte(nil), data...), nil
}

func (p *fakeProvider) DeleteBackup(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.backups, id)
	delete(p.stamps, id)
	return nil
}

func (p *fakeProvider) CleanupOldBackups(ctx context.Context, maxCount int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleanups = append(p.cleanups, maxCount)

	ids := make([]string, 0, len(p.backups))
	for id := range p.backups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return p.stamps[ids[i]].After(p.stamps[ids[j]]) })
	for _, id := range ids[min(maxCount, len(ids)):] {
		delete(p.backups, id)
		delete(p.stamps, id)
	}
	return nil
}

func (p *fakeProvider) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}
