package sync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrijs2005/daybook/internal/cloud"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// fakeStore hashes its raw bytes, which keeps the fake consistent with how
// the coordinator expects import to change the hash.
type fakeStore struct {
	mu      sync.Mutex
	data    []byte
	imports [][]byte
}

func newFakeStore(data string) *fakeStore {
	return &fakeStore{data: []byte(data)}
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

func (f *fakeStore) ContentHash(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return hashOf(f.data), nil
}

func (f *fakeStore) setData(data string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = []byte(data)
}

func (f *fakeStore) importCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.imports)
}

func (f *fakeStore) currentData() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return string(f.data)
}

type fakeProvider struct {
	mu        sync.Mutex
	authed    bool
	data      []byte
	saves     int
	loads     int
	saveErr   error
	saveDelay time.Duration
}

var _ cloud.Provider = (*fakeProvider)(nil)

func (p *fakeProvider) Initialize(ctx context.Context) error { return nil }

func (p *fakeProvider) SignIn(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.authed = true
	return nil
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.authed = false
	return nil
}

func (p *fakeProvider) IsAuthenticated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authed
}

func (p *fakeProvider) SaveData(ctx context.Context, data []byte) error {
	p.mu.Lock()
	delay := p.saveDelay
	p.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.data = append([]byte(nil), data...)
	p.saves++
	return nil
}

func (p *fakeProvider) LoadData(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads++
	if p.data == nil {
		return nil, nil
	}
	return append([]byte(nil), p.data...), nil
}

func (p *fakeProvider) SaveBackup(ctx context.Context, data []byte, ts time.Time) error { return nil }

func (p *fakeProvider) ListBackups(ctx context.Context) ([]cloud.BackupInfo, error) { return nil, nil }

func (p *fakeProvider) LoadBackup(ctx context.Context, id string) ([]byte, error) {
	return nil, common.ErrBackupNotFound
}

func (p *fakeProvider) DeleteBackup(ctx context.Context, id string) error { return nil }

func (p *fakeProvider) CleanupOldBackups(ctx context.Context, maxCount int) error { return nil }

func (p *fakeProvider) setCloudData(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = data
}

func (p *fakeProvider) cloudData() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.data...)
}

func (p *fakeProvider) setSaveErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveErr = err
}

func (p *fakeProvider) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

// countingResolver records invocations and replies with a fixed outcome.
type countingResolver struct {
	mu    sync.Mutex
	calls int
	res   Resolution
	err   error
	last  *Conflict
}

func (r *countingResolver) Resolve(ctx context.Context, c *Conflict) (Resolution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.last = c
	return r.res, r.err
}

func (r *countingResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
