package bridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/sentra-home/sentra-bridge/internal/cache"
	"github.com/sentra-home/sentra-bridge/internal/config"
	"github.com/sentra-home/sentra-bridge/internal/domain/panel"
	"github.com/sentra-home/sentra-bridge/internal/logger"
	"github.com/sentra-home/sentra-bridge/internal/metrics"
	"github.com/sentra-home/sentra-bridge/internal/notify"
	"github.com/sentra-home/sentra-bridge/internal/sentra"
)

// Vendor abstracts the vendor cloud client used by the service.
type Vendor interface {
	Login(ctx context.Context) error
	FetchSyncInfo(ctx context.Context) error
	FetchState(ctx context.Context) (*panel.State, error)
	FetchUserPreferences(ctx context.Context) (*sentra.Preferences, error)
	ArmSite(ctx context.Context, armReq sentra.ArmRequest) error
}

// Default recovery backoff tuning.
const (
	// DefaultBackoffBase is the first re-login delay after a failure.
	DefaultBackoffBase = time.Second
	// DefaultBackoffMax caps the re-login delay.
	DefaultBackoffMax = time.Minute
)

// Service is the state synchronization engine.
// Session fields are written only on the login path and the cache slot only
// by refresh completion and command resync, keeping a single logical writer
// per piece of state.
type Service struct {
	// vendor talks to the Sentra cloud.
	vendor Vendor
	// cache holds the current panel snapshot with its TTL watcher.
	cache *cache.Cache
	// recorder counts refreshes, commands and recoveries.
	recorder *metrics.Recorder
	// publisher pushes state changes to the message bus, may be nil.
	publisher *notify.Publisher

	// name is the configured display name of the bridged panel.
	name string
	// keypadPin disarms the panel, empty when not configured.
	keypadPin string
	// partitionID targets a specific partition in commands, 0 for all.
	partitionID int64
	// stayProfileID selects the stay profile, backfilled from preferences.
	stayProfileID atomic.Int64

	// preferencesRefresh and resyncInterval drive the maintenance jobs.
	preferencesRefresh time.Duration
	resyncInterval     time.Duration

	// backoffBase and backoffMax bound the recovery re-login delays.
	backoffBase time.Duration
	backoffMax  time.Duration

	// targetMu guards the transient user-requested arming state.
	targetMu sync.Mutex
	target   *panel.ArmingState

	// recoveryCh folds fetch failure signals for the recovery loop.
	recoveryCh chan struct{}

	// scheduler runs the maintenance jobs.
	scheduler gocron.Scheduler

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures service behaviour.
type Option func(*Service)

// WithBackoff overrides the recovery backoff bounds.
func WithBackoff(base, maximum time.Duration) Option {
	return func(s *Service) {
		if base > 0 {
			s.backoffBase = base
		}

		if maximum > 0 {
			s.backoffMax = maximum
		}
	}
}

// NewService assembles the engine from validated configuration.
// Goroutines are not started until Start is called.
func NewService(cfg *config.Config, vendor Vendor, recorder *metrics.Recorder, publisher *notify.Publisher, opts ...Option) *Service {
	s := &Service{
		vendor:             vendor,
		recorder:           recorder,
		publisher:          publisher,
		name:               cfg.Name,
		keypadPin:          cfg.KeypadPin,
		partitionID:        cfg.PartitionID,
		preferencesRefresh: cfg.PreferencesRefresh,
		resyncInterval:     cfg.ResyncInterval,
		backoffBase:        DefaultBackoffBase,
		backoffMax:         DefaultBackoffMax,
		recoveryCh:         make(chan struct{}, 1),
		done:               make(chan struct{}),
	}

	s.stayProfileID.Store(cfg.StayProfileID)

	for _, opt := range opts {
		opt(s)
	}

	s.cache = cache.New(s,
		cache.WithTTL(cfg.CacheTTL),
		cache.WithCheckPeriod(cfg.CheckPeriod),
		cache.WithOnRefreshFailure(func(error) {
			s.recorder.SetCachePopulated(false)
			s.signalRecovery()
		}))

	return s
}

// Start logs in, seeds the cache and launches the refresh machinery.
// A login failure here is terminal, the caller should not retry.
func (s *Service) Start(ctx context.Context) error {
	if err := s.connect(ctx); err != nil {
		return fmt.Errorf("connect to vendor cloud: %w", err)
	}

	s.wg.Add(1)

	go s.recoveryLoop(ctx)

	s.cache.Start(ctx)

	if s.publisher != nil {
		s.cache.Subscribe(func(state *panel.State) {
			if err := s.publisher.Publish(state); err != nil {
				logger.WarnKV(ctx, "State publish failed", "error", err)
			}
		})
	}

	if err := s.startScheduler(ctx); err != nil {
		return err
	}

	// Seed the initial snapshot. A failed first fetch degrades into the
	// recovery path instead of aborting startup.
	if state, err := s.FetchState(ctx); err != nil {
		s.handleFetchFailure(ctx, err)
	} else {
		s.cache.Set(state)
		logger.InfoKV(ctx, "Initial snapshot cached", "arming_state", state.Alarm.ArmingState)
	}

	return nil
}

// Close stops the maintenance jobs, the cache watcher and the recovery loop.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})

	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			logger.ErrorKV(context.Background(), "Scheduler shutdown failed", "error", err)
		}
	}

	s.cache.Close()
	s.wg.Wait()
}

// FetchState produces a fresh snapshot through the vendor client.
// It implements the cache refresh hook and keeps the refresh counters.
func (s *Service) FetchState(ctx context.Context) (*panel.State, error) {
	state, err := s.vendor.FetchState(ctx)
	if err != nil {
		s.recorder.IncRefresh(metrics.ResultFailed)

		return nil, err
	}

	s.recorder.IncRefresh(metrics.ResultSuccess)
	s.recorder.SetCachePopulated(true)

	return state, nil
}

// CurrentState returns the cached snapshot if one is present and fresh.
func (s *Service) CurrentState() (*panel.State, bool) {
	return s.cache.Get()
}

// Subscribe registers a snapshot subscriber and returns its registration id.
func (s *Service) Subscribe(fn cache.Subscriber) string {
	return s.cache.Subscribe(fn)
}

// Unsubscribe removes a previously registered subscriber.
func (s *Service) Unsubscribe(id string) {
	s.cache.Unsubscribe(id)
}

// Target returns the in-flight user-requested arming state, if any.
func (s *Service) Target() (panel.ArmingState, bool) {
	s.targetMu.Lock()
	defer s.targetMu.Unlock()

	if s.target == nil {
		return "", false
	}

	return *s.target, true
}

// setTarget records the request marker for the duration of a dispatch.
func (s *Service) setTarget(state panel.ArmingState) {
	s.targetMu.Lock()
	defer s.targetMu.Unlock()

	s.target = &state
}

// clearTarget drops the request marker.
func (s *Service) clearTarget() {
	s.targetMu.Lock()
	defer s.targetMu.Unlock()

	s.target = nil
}

// connect performs the login flow: authenticate, resolve the operable site
// and pick up the auxiliary preferences.
func (s *Service) connect(ctx context.Context) error {
	if err := s.vendor.Login(ctx); err != nil {
		return err
	}

	if err := s.vendor.FetchSyncInfo(ctx); err != nil {
		return err
	}

	// Preferences are best-effort, losing them only costs the stay
	// profile default.
	prefs, err := s.vendor.FetchUserPreferences(ctx)
	if err != nil {
		logger.WarnKV(ctx, "User preferences unavailable", "error", err)

		return nil
	}

	if prefs.DefaultStayProfileID > 0 {
		s.stayProfileID.CompareAndSwap(0, prefs.DefaultStayProfileID)
	}

	return nil
}

// Resync forces a full topology and state refresh into the cache.
// Commands call it after a successful send, the maintenance job hourly.
func (s *Service) Resync(ctx context.Context) error {
	if err := s.vendor.FetchSyncInfo(ctx); err != nil {
		return err
	}

	state, err := s.FetchState(ctx)
	if err != nil {
		return err
	}

	s.cache.Set(state)

	return nil
}

// RequestArmingState reconciles a user-requested arming state against the
// cached snapshot and issues the command when one is needed.
func (s *Service) RequestArmingState(ctx context.Context, desired panel.ArmingState) error {
	label := commandLabel(desired)
	ctx = logger.WithKV(ctx, "desired_state", string(desired))

	switch desired {
	case panel.ArmingStateDisarmed, panel.ArmingStateArmedAway, panel.ArmingStateArmedStay:
	default:
		s.recorder.IncCommand(label, metrics.ResultFailed)

		return fmt.Errorf("%w: %s", errStateNotCommandable, desired)
	}

	s.setTarget(desired)
	defer s.clearTarget()

	if current, ok := s.cache.Get(); ok {
		// Already there, nothing to send.
		if current.Alarm.ArmingState == desired {
			logger.Info(ctx, "Panel already in desired state")
			s.recorder.IncCommand(label, metrics.ResultNoop)

			return nil
		}

		if current.Alarm.ArmingState == panel.ArmingStateNotReady &&
			current.Alarm.FaultStatus == panel.FaultStatusFault {
			s.recorder.IncCommand(label, metrics.ResultPrecondition)

			return &PreconditionError{
				ArmingState: current.Alarm.ArmingState,
				FaultStatus: current.Alarm.FaultStatus,
			}
		}
	}

	armReq := sentra.ArmRequest{
		Arm:         desired != panel.ArmingStateDisarmed,
		PartitionID: s.partitionID,
	}

	if desired == panel.ArmingStateDisarmed {
		if s.keypadPin == "" {
			s.recorder.IncCommand(label, metrics.ResultFailed)

			return ErrPinRequired
		}

		armReq.Pin = s.keypadPin
	}

	if desired == panel.ArmingStateArmedStay {
		armReq.StayProfileID = s.stayProfileID.Load()
	}

	if err := s.vendor.ArmSite(ctx, armReq); err != nil {
		s.recorder.IncCommand(label, metrics.ResultFailed)

		return err
	}

	logger.Info(ctx, "Arming command accepted")

	// The panel reports the effective state itself, commands never write
	// the cache directly.
	if err := s.Resync(ctx); err != nil {
		s.handleFetchFailure(ctx, err)
	}

	s.recorder.IncCommand(label, metrics.ResultSuccess)

	return nil
}

// commandLabel maps a requested state to its metrics label.
func commandLabel(state panel.ArmingState) string {
	switch state {
	case panel.ArmingStateArmedAway:
		return "arm_away"
	case panel.ArmingStateArmedStay:
		return "arm_stay"
	case panel.ArmingStateDisarmed:
		return "disarm"
	default:
		return "unknown"
	}
}
