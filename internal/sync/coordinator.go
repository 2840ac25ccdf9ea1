package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/daybook/internal/cloud"
	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/logging"
)

// DefaultDebounce is the quiet period after the last data change before a
// scheduled sync fires.
const DefaultDebounce = 2 * time.Second

var errShutdown = errors.New("sync coordinator is shut down")

// Store is the slice of the local store the coordinator needs.
type Store interface {
	// ExportData returns the full snapshot as bytes.
	ExportData(ctx context.Context) ([]byte, error)

	// ImportData replaces local content with a snapshot.
	ImportData(ctx context.Context, data []byte) error

	// ContentHash returns the canonical hash of the current content.
	ContentHash(ctx context.Context) (string, error)
}

// Config tunes the coordinator. The zero value gives the default debounce
// with auto sync off.
type Config struct {
	// Debounce is the quiet period for scheduled syncs.
	Debounce time.Duration

	// AutoSync enables scheduled syncs. Manual SyncNow works regardless.
	AutoSync bool

	// OnReload, when set, runs after cloud data replaces local data, so the
	// application can drop whatever it has cached.
	OnReload func()
}

// Coordinator owns the sync lifecycle. All its background activity funnels
// through a single-writer latch, so at most one push or pull runs at a time;
// a trigger that finds the latch held is dropped, not queued.
type Coordinator struct {
	store    Store
	provider cloud.Provider
	resolver Resolver
	cfg      Config
	log      logging.Logger

	mu            sync.Mutex
	state         State
	lastErr       error
	lastSync      time.Time
	lastSavedHash string
	connected     bool
	paused        bool
	syncing       bool
	closed        bool
	timer         *time.Timer
	wg            sync.WaitGroup
}

// NewCoordinator wires the coordinator to its collaborators. A nil resolver
// installs the default policy: the cloud side wins.
func NewCoordinator(store Store, provider cloud.Provider, resolver Resolver, cfg Config, log logging.Logger) *Coordinator {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if resolver == nil {
		resolver = ResolverFunc(func(ctx context.Context, c *Conflict) (Resolution, error) {
			return UseCloud, nil
		})
	}
	return &Coordinator{
		store:    store,
		provider: provider,
		resolver: resolver,
		cfg:      cfg,
		log:      log,
	}
}

// DataChanged notes that local content changed and (re-)arms the quiet
// period timer. Safe to call from any goroutine, any number of times.
func (c *Coordinator) DataChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.state != StateSyncing {
		c.state = StatePending
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.cfg.Debounce, c.timerFired)
}

// timerFired runs on the timer goroutine once the quiet period elapses.
func (c *Coordinator) timerFired() {
	ctx := context.Background()
	if !c.cfg.AutoSync {
		c.dropPending()
		return
	}
	if err := c.acquire(true); err != nil {
		c.log.Debug(ctx, "scheduled sync dropped", "reason", err)
		c.dropPending()
		return
	}
	c.finish(ctx, c.saveToCloud(ctx, false))
}

// dropPending returns a pending state to idle when the scheduled run it
// announced is dropped, so status does not show "pending" with nothing
// armed. An in-flight or finished sync owns the state and is left alone.
func (c *Coordinator) dropPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePending {
		c.state = StateIdle
	}
}

// acquire takes the single-writer latch and moves the state to Syncing.
// Every successful acquire is paired with exactly one finish call.
func (c *Coordinator) acquire(respectPause bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errShutdown
	}
	if !c.connected {
		return common.ErrNotConnected
	}
	if respectPause && c.paused {
		return common.ErrSyncPaused
	}
	if c.syncing {
		return common.ErrSyncInProgress
	}
	c.syncing = true
	c.state = StateSyncing
	c.wg.Add(1)
	return nil
}

// finish releases the latch and records the outcome.
func (c *Coordinator) finish(ctx context.Context, err error) {
	c.mu.Lock()
	c.syncing = false
	if err != nil {
		c.state = StateError
		c.lastErr = err
	} else {
		c.state = StateIdle
		c.lastErr = nil
		c.lastSync = time.Now()
	}
	c.mu.Unlock()
	c.wg.Done()

	if err != nil {
		c.log.Error(ctx, "sync attempt failed", "error", err)
	}
}

// Connect initializes the provider, signs in and pulls cloud state. A pull
// failure leaves the coordinator connected: local data stays authoritative
// until the next successful sync.
func (c *Coordinator) Connect(ctx context.Context) error {
	if err := c.provider.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize cloud provider: %w", err)
	}
	if err := c.provider.SignIn(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	c.log.Info(ctx, "connected to cloud")

	return c.PullNow(ctx)
}

// Disconnect signs out and stops scheduling. Local data is untouched.
func (c *Coordinator) Disconnect(ctx context.Context) error {
	err := c.provider.SignOut(ctx)

	c.mu.Lock()
	c.connected = false
	c.lastSavedHash = ""
	c.mu.Unlock()
	c.log.Info(ctx, "disconnected from cloud")

	return err
}

// SyncNow pushes local changes immediately, regardless of AutoSync. It
// reports ErrSyncInProgress when a sync is already running and ErrSyncPaused
// while paused.
func (c *Coordinator) SyncNow(ctx context.Context) error {
	if err := c.acquire(true); err != nil {
		return err
	}
	err := c.saveToCloud(ctx, false)
	c.finish(ctx, err)
	return err
}

// PullNow downloads cloud state and reconciles it with local content.
func (c *Coordinator) PullNow(ctx context.Context) error {
	if err := c.acquire(true); err != nil {
		return err
	}
	err := c.loadFromCloud(ctx)
	c.finish(ctx, err)
	return err
}

// ForcePush uploads the local snapshot unconditionally, skipping the no-op
// hash check and ignoring pause. Restore uses it to make restored data
// authoritative while sync is held paused.
func (c *Coordinator) ForcePush(ctx context.Context) error {
	if err := c.acquire(false); err != nil {
		return err
	}
	err := c.saveToCloud(ctx, true)
	c.finish(ctx, err)
	return err
}

// Pause suspends scheduling. A scheduled sync that fires while paused is
// dropped, not queued.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume re-enables scheduling. Syncs dropped while paused are not replayed;
// the next data change schedules normally.
func (c *Coordinator) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Status describes the coordinator for display.
type Status struct {
	State     State
	Connected bool
	Paused    bool
	AutoSync  bool
	LastSync  time.Time
	LastError error
}

// Status returns a point-in-time snapshot of the coordinator.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:     c.state,
		Connected: c.connected,
		Paused:    c.paused,
		AutoSync:  c.cfg.AutoSync,
		LastSync:  c.lastSync,
		LastError: c.lastErr,
	}
}

// Shutdown stops scheduling and waits for any in-flight sync to complete,
// bounded by ctx.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) setLastSavedHash(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSavedHash = hash
}

// saveToCloud pushes the local snapshot. Unless force is set, a content hash
// equal to the last confirmed upload skips the network entirely.
func (c *Coordinator) saveToCloud(ctx context.Context, force bool) error {
	hash, err := c.store.ContentHash(ctx)
	if err != nil {
		return fmt.Errorf("failed to hash local content: %w", err)
	}

	c.mu.Lock()
	last := c.lastSavedHash
	c.mu.Unlock()
	if !force && hash == last {
		c.log.Debug(ctx, "content unchanged since last push, skipping", "hash", hash)
		return nil
	}

	snapshot, err := c.store.ExportData(ctx)
	if err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}
	blob, err := EncodeSnapshot(snapshot, hash)
	if err != nil {
		return err
	}
	if err := c.provider.SaveData(ctx, blob); err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}

	c.setLastSavedHash(hash)
	c.log.Info(ctx, "pushed snapshot to cloud", "bytes", len(blob), "hash", hash)
	return nil
}

// loadFromCloud downloads the cloud blob and reconciles. An empty cloud is
// seeded from local data. Corrupt blobs abort without touching local state.
func (c *Coordinator) loadFromCloud(ctx context.Context) error {
	blob, err := c.provider.LoadData(ctx)
	if err != nil {
		return fmt.Errorf("failed to download snapshot: %w", err)
	}
	if blob == nil {
		c.log.Info(ctx, "cloud is empty, seeding it with local data")
		return c.saveToCloud(ctx, false)
	}

	remoteSnapshot, remoteHash, err := DecodeSnapshot(blob)
	if err != nil {
		return err
	}

	localHash, err := c.store.ContentHash(ctx)
	if err != nil {
		return fmt.Errorf("failed to hash local content: %w", err)
	}

	if localHash == remoteHash {
		c.setLastSavedHash(remoteHash)
		c.log.Debug(ctx, "local and cloud content match", "hash", localHash)
		return nil
	}

	localSnapshot, err := c.store.ExportData(ctx)
	if err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}

	resolution, err := c.resolver.Resolve(ctx, &Conflict{
		LocalSnapshot:  localSnapshot,
		RemoteSnapshot: remoteSnapshot,
		LocalHash:      localHash,
		RemoteHash:     remoteHash,
	})
	if err != nil {
		c.log.Warn(ctx, "conflict resolver failed, canceling this attempt", "error", err)
		resolution = Cancel
	}

	switch resolution {
	case UseLocal:
		blob, err := EncodeSnapshot(localSnapshot, localHash)
		if err != nil {
			return err
		}
		if err := c.provider.SaveData(ctx, blob); err != nil {
			return fmt.Errorf("failed to upload snapshot: %w", err)
		}
		c.setLastSavedHash(localHash)
		c.log.Info(ctx, "conflict resolved, local data kept", "hash", localHash)

	case UseCloud:
		if err := c.store.ImportData(ctx, remoteSnapshot); err != nil {
			return fmt.Errorf("failed to import cloud snapshot: %w", err)
		}
		c.setLastSavedHash(remoteHash)
		c.log.Info(ctx, "conflict resolved, cloud data adopted", "hash", remoteHash)
		if c.cfg.OnReload != nil {
			c.cfg.OnReload()
		}

	case Cancel:
		c.log.Info(ctx, "conflict left unresolved", "localHash", localHash, "remoteHash", remoteHash)
	}

	return nil
}
