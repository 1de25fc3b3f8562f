package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sentra-home/sentra-bridge/internal/config"
	"github.com/sentra-home/sentra-bridge/internal/domain/panel"
	"github.com/sentra-home/sentra-bridge/internal/logger"
)

// Fetcher produces a fresh panel snapshot from the vendor cloud.
type Fetcher interface {
	FetchState(ctx context.Context) (*panel.State, error)
}

// Subscriber receives snapshots whose alarm section is populated.
// Callbacks run on the notifier goroutine and must not block for long.
type Subscriber func(*panel.State)

// notifyBuffer bounds the queue between Set and the notifier goroutine.
const notifyBuffer = 16

// entry wraps a snapshot with its freshness deadline.
type entry struct {
	// state is the cached snapshot.
	state *panel.State
	// deadline is when the snapshot stops being fresh.
	deadline time.Time
}

// Cache is a single-slot TTL cache for panel snapshots.
type Cache struct {
	// fetcher refills the slot after expiry.
	fetcher Fetcher
	// ttl is how long a stored snapshot stays fresh.
	ttl time.Duration
	// checkPeriod is how often the watcher looks for expiry.
	checkPeriod time.Duration
	// onRefreshFailure is called exactly once per failed background refresh.
	onRefreshFailure func(error)

	// mu guards the slot and the subscriber registry.
	mu          sync.RWMutex
	slot        *entry
	subscribers map[string]Subscriber

	// notifyCh carries stored snapshots to the notifier goroutine.
	// Sends happen under mu, so delivery order matches set-completion order.
	notifyCh chan *panel.State

	// done stops the watcher and notifier goroutines.
	done chan struct{}
	wg   sync.WaitGroup

	closeOnce sync.Once
}

// Option configures cache behaviour.
type Option func(*Cache)

// WithTTL sets the snapshot freshness duration.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCheckPeriod sets the expiry check interval.
func WithCheckPeriod(period time.Duration) Option {
	return func(c *Cache) {
		if period > 0 {
			c.checkPeriod = period
		}
	}
}

// WithOnRefreshFailure registers the recovery hook for failed refreshes.
func WithOnRefreshFailure(fn func(error)) Option {
	return func(c *Cache) {
		c.onRefreshFailure = fn
	}
}

// New creates a cache around the provided fetcher.
// Goroutines are not started until Start is called.
func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher:     fetcher,
		ttl:         config.DefaultCacheTTL,
		checkPeriod: config.DefaultCheckPeriod,
		subscribers: make(map[string]Subscriber),
		notifyCh:    make(chan *panel.State, notifyBuffer),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start launches the expiry watcher and the notifier goroutines.
func (c *Cache) Start(ctx context.Context) {
	c.wg.Add(2)

	go c.watch(ctx)
	go c.notify(ctx)
}

// Close stops the watcher and notifier and waits for them to exit.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})

	c.wg.Wait()
}

// Get returns the cached snapshot if one is present and still fresh.
// An expired entry counts as absent even before the watcher sweeps it.
func (c *Cache) Get() (*panel.State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.slot == nil || !time.Now().Before(c.slot.deadline) {
		return nil, false
	}

	return c.slot.state, true
}

// Set stores a snapshot and restarts its TTL.
// Subscribers are notified only when the alarm section is populated,
// an incomplete snapshot is stored silently.
func (c *Cache) Set(state *panel.State) {
	if state == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.slot = &entry{
		state:    state,
		deadline: time.Now().Add(c.ttl),
	}

	if !state.Alarm.Populated() {
		return
	}

	select {
	case c.notifyCh <- state:
	default:
		// Subscribers are not keeping up, dropping is better than
		// blocking the refresh cycle.
	}
}

// Invalidate discards the cached snapshot.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slot = nil
}

// Subscribe registers a subscriber and returns its registration id.
func (c *Cache) Subscribe(fn Subscriber) string {
	id := uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.subscribers[id] = fn

	return id
}

// Unsubscribe removes a previously registered subscriber.
func (c *Cache) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.subscribers, id)
}

// watch drops expired entries and triggers background refreshes.
func (c *Cache) watch(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.checkPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.sweep() {
				continue
			}

			// Refreshes are deliberately not deduplicated, a slow fetch
			// may race a later one and the later write wins the slot.
			c.wg.Add(1)

			go func() {
				defer c.wg.Done()
				c.refresh(ctx)
			}()
		}
	}
}

// sweep removes the entry if it has expired and reports whether it did.
func (c *Cache) sweep() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.slot == nil || time.Now().Before(c.slot.deadline) {
		return false
	}

	c.slot = nil

	return true
}

// refresh fetches a fresh snapshot after an expiry.
// On failure the slot stays empty and the recovery hook fires exactly once.
func (c *Cache) refresh(ctx context.Context) {
	state, err := c.fetcher.FetchState(ctx)
	if err != nil {
		logger.ErrorKV(ctx, "Snapshot refresh failed", "error", err)
		c.Invalidate()

		if c.onRefreshFailure != nil {
			c.onRefreshFailure(err)
		}

		return
	}

	c.Set(state)
}

// notify delivers stored snapshots to subscribers in set-completion order.
func (c *Cache) notify(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-c.done:
			return
		case <-ctx.Done():
			return
		case state := <-c.notifyCh:
			c.mu.RLock()
			subscribers := make([]Subscriber, 0, len(c.subscribers))

			for _, fn := range c.subscribers {
				subscribers = append(subscribers, fn)
			}
			c.mu.RUnlock()

			for _, fn := range subscribers {
				fn(state)
			}
		}
	}
}
