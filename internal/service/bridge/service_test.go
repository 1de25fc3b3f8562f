package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sentra-home/sentra-bridge/internal/config"
	"github.com/sentra-home/sentra-bridge/internal/domain/panel"
	"github.com/sentra-home/sentra-bridge/internal/metrics"
	"github.com/sentra-home/sentra-bridge/internal/sentra"
)

// fakeVendor is a scripted stand-in for the vendor cloud client.
type fakeVendor struct {
	mu sync.Mutex

	loginErr error
	syncErr  error
	stateErr error
	prefsErr error
	armErr   error

	state *panel.State
	prefs sentra.Preferences

	loginCalls int
	syncCalls  int
	stateCalls int
	prefsCalls int
	armCalls   int

	lastArm sentra.ArmRequest

	// onArm runs synchronously inside ArmSite after the call is recorded.
	onArm func()
}

func (f *fakeVendor) Login(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loginCalls++

	return f.loginErr
}

func (f *fakeVendor) FetchSyncInfo(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.syncCalls++

	return f.syncErr
}

func (f *fakeVendor) FetchState(_ context.Context) (*panel.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stateCalls++

	if f.stateErr != nil {
		return nil, f.stateErr
	}

	if f.state == nil {
		return snapshot(panel.ArmingStateDisarmed), nil
	}

	return f.state.Clone(), nil
}

func (f *fakeVendor) FetchUserPreferences(_ context.Context) (*sentra.Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prefsCalls++

	if f.prefsErr != nil {
		return nil, f.prefsErr
	}

	prefs := f.prefs

	return &prefs, nil
}

func (f *fakeVendor) ArmSite(_ context.Context, armReq sentra.ArmRequest) error {
	f.mu.Lock()

	f.armCalls++
	f.lastArm = armReq
	onArm := f.onArm

	f.mu.Unlock()

	if onArm != nil {
		onArm()
	}

	return f.armError()
}

func (f *fakeVendor) armError() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.armErr
}

// vendorCalls is a point-in-time copy of the fake's call counters.
type vendorCalls struct {
	login, syncInfo, state, prefs, arm int
}

func (f *fakeVendor) calls() vendorCalls {
	f.mu.Lock()
	defer f.mu.Unlock()

	return vendorCalls{
		login:    f.loginCalls,
		syncInfo: f.syncCalls,
		state:    f.stateCalls,
		prefs:    f.prefsCalls,
		arm:      f.armCalls,
	}
}

func (f *fakeVendor) lastArmRequest() sentra.ArmRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastArm
}

func (f *fakeVendor) setStateErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stateErr = err
}

func (f *fakeVendor) setState(state *panel.State) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = state
}

// snapshot builds a healthy panel snapshot in the given arming state.
func snapshot(state panel.ArmingState) *panel.State {
	return &panel.State{
		FetchedAt: time.Now(),
		Alarm: &panel.Alarm{
			ArmingState: state,
			FaultStatus: panel.FaultStatusOK,
		},
	}
}

// faultedSnapshot builds a snapshot of a panel that refuses commands.
func faultedSnapshot() *panel.State {
	return &panel.State{
		FetchedAt: time.Now(),
		Alarm: &panel.Alarm{
			ArmingState: panel.ArmingStateNotReady,
			FaultStatus: panel.FaultStatusFault,
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Name:               "Home Security",
		Username:           "user@example.com",
		Password:           "secret",
		KeypadPin:          "4321",
		BaseURL:            config.DefaultBaseURL,
		CacheTTL:           config.DefaultCacheTTL,
		CheckPeriod:        config.DefaultCheckPeriod,
		CallTimeout:        config.DefaultCallTimeout,
		PreferencesRefresh: config.DefaultPreferencesRefresh,
		ResyncInterval:     config.DefaultResyncInterval,
	}
}

func newTestService(cfg *config.Config, vendor *fakeVendor, opts ...Option) *Service {
	return NewService(cfg, vendor, metrics.NewRecorder(nil), nil, opts...)
}

func TestRequestArmingState_NoopWhenAlreadyDesired(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{}
	svc := newTestService(testConfig(), vendor)

	svc.cache.Set(snapshot(panel.ArmingStateDisarmed))

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateDisarmed)
	require.NoError(t, err)

	calls := vendor.calls()
	require.Zero(t, calls.arm)
	require.Zero(t, calls.syncInfo, "a no-op must not trigger a resync")
}

func TestRequestArmingState_FaultedPanelRefusesCommand(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{}
	svc := newTestService(testConfig(), vendor)

	svc.cache.Set(faultedSnapshot())

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateArmedAway)

	var preconditionErr *PreconditionError
	require.ErrorAs(t, err, &preconditionErr)
	require.Equal(t, panel.ArmingStateNotReady, preconditionErr.ArmingState)
	require.Equal(t, panel.FaultStatusFault, preconditionErr.FaultStatus)
	require.Zero(t, vendor.calls().arm, "no remote call on a failed precondition")

	_, ok := svc.Target()
	require.False(t, ok, "target marker must be cleared after the refusal")
}

func TestRequestArmingState_DisarmWithoutPin(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.KeypadPin = ""

	vendor := &fakeVendor{}
	svc := newTestService(cfg, vendor)

	svc.cache.Set(snapshot(panel.ArmingStateArmedAway))

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateDisarmed)
	require.ErrorIs(t, err, ErrPinRequired)
	require.Zero(t, vendor.calls().arm)

	_, ok := svc.Target()
	require.False(t, ok)
}

func TestRequestArmingState_ArmAwaySendsAndResyncs(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.PartitionID = 3

	vendor := &fakeVendor{state: snapshot(panel.ArmingStateArmedAway)}
	svc := newTestService(cfg, vendor)

	svc.cache.Set(snapshot(panel.ArmingStateDisarmed))

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateArmedAway)
	require.NoError(t, err)

	armReq := vendor.lastArmRequest()
	require.True(t, armReq.Arm)
	require.Empty(t, armReq.Pin, "arming must not carry the PIN")
	require.Zero(t, armReq.StayProfileID)
	require.Equal(t, int64(3), armReq.PartitionID)

	calls := vendor.calls()
	require.Equal(t, 1, calls.arm)
	require.Equal(t, 1, calls.syncInfo, "resync re-reads the topology")
	require.Equal(t, 1, calls.state, "resync re-reads the panel state")

	current, ok := svc.CurrentState()
	require.True(t, ok)
	require.Equal(t, panel.ArmingStateArmedAway, current.Alarm.ArmingState)
}

func TestRequestArmingState_DisarmSendsPin(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{state: snapshot(panel.ArmingStateDisarmed)}
	svc := newTestService(testConfig(), vendor)

	svc.cache.Set(snapshot(panel.ArmingStateArmedAway))

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateDisarmed)
	require.NoError(t, err)

	armReq := vendor.lastArmRequest()
	require.False(t, armReq.Arm)
	require.Equal(t, "4321", armReq.Pin)
}

func TestRequestArmingState_StayUsesConfiguredProfile(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.StayProfileID = 7

	vendor := &fakeVendor{state: snapshot(panel.ArmingStateArmedStay)}
	svc := newTestService(cfg, vendor)

	svc.cache.Set(snapshot(panel.ArmingStateDisarmed))

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateArmedStay)
	require.NoError(t, err)

	armReq := vendor.lastArmRequest()
	require.True(t, armReq.Arm)
	require.Equal(t, int64(7), armReq.StayProfileID)
}

func TestRequestArmingState_StayProfileFromPreferences(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{
		state: snapshot(panel.ArmingStateArmedStay),
		prefs: sentra.Preferences{DefaultStayProfileID: 9},
	}
	svc := newTestService(testConfig(), vendor)

	// The login flow backfills the stay profile from account preferences.
	require.NoError(t, svc.connect(context.Background()))

	svc.cache.Set(snapshot(panel.ArmingStateDisarmed))

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateArmedStay)
	require.NoError(t, err)
	require.Equal(t, int64(9), vendor.lastArmRequest().StayProfileID)
}

func TestRequestArmingState_VendorRejectionPassesThrough(t *testing.T) {
	t.Parallel()

	rejection := &sentra.CommandError{Cause: errors.New("panel offline")}
	vendor := &fakeVendor{armErr: rejection}
	svc := newTestService(testConfig(), vendor)

	svc.cache.Set(snapshot(panel.ArmingStateDisarmed))

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateArmedAway)
	require.ErrorIs(t, err, rejection)

	calls := vendor.calls()
	require.Equal(t, 1, calls.arm)
	require.Zero(t, calls.syncInfo, "no resync after a rejected command")

	current, ok := svc.CurrentState()
	require.True(t, ok, "cache keeps the pre-command snapshot")
	require.Equal(t, panel.ArmingStateDisarmed, current.Alarm.ArmingState)
}

func TestRequestArmingState_UncommandableState(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{}
	svc := newTestService(testConfig(), vendor)

	for _, desired := range []panel.ArmingState{panel.ArmingStateNotReady, "TRIGGERED", ""} {
		err := svc.RequestArmingState(context.Background(), desired)
		require.ErrorIs(t, err, errStateNotCommandable)
	}

	require.Zero(t, vendor.calls().arm)
}

func TestRequestArmingState_EmptyCacheStillSends(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{state: snapshot(panel.ArmingStateArmedAway)}
	svc := newTestService(testConfig(), vendor)

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateArmedAway)
	require.NoError(t, err)
	require.Equal(t, 1, vendor.calls().arm)
}

func TestRequestArmingState_ResyncFailureSignalsRecovery(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{}
	svc := newTestService(testConfig(), vendor)

	svc.cache.Set(snapshot(panel.ArmingStateDisarmed))

	// The command itself succeeds, only the follow-up state read breaks.
	vendor.onArm = func() {
		vendor.setStateErr(errors.New("cloud hiccup"))
	}

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateArmedAway)
	require.NoError(t, err, "a failed resync must not fail the accepted command")

	_, ok := svc.CurrentState()
	require.False(t, ok, "stale snapshot is dropped when the resync fails")
	require.Len(t, svc.recoveryCh, 1, "exactly one recovery signal is raised")
}

func TestRequestArmingState_TargetVisibleDuringDispatch(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{state: snapshot(panel.ArmingStateArmedAway)}
	svc := newTestService(testConfig(), vendor)

	svc.cache.Set(snapshot(panel.ArmingStateDisarmed))

	var (
		observed   panel.ArmingState
		observedOK bool
	)

	vendor.onArm = func() {
		observed, observedOK = svc.Target()
	}

	err := svc.RequestArmingState(context.Background(), panel.ArmingStateArmedAway)
	require.NoError(t, err)

	require.True(t, observedOK, "target marker is visible while the command is in flight")
	require.Equal(t, panel.ArmingStateArmedAway, observed)

	_, ok := svc.Target()
	require.False(t, ok, "target marker is cleared once the dispatch finishes")
}

func TestStart_LoginFailureIsTerminal(t *testing.T) {
	t.Parallel()

	loginErr := &sentra.AuthError{Cause: errors.New("bad credentials")}
	vendor := &fakeVendor{loginErr: loginErr}
	svc := newTestService(testConfig(), vendor)

	err := svc.Start(context.Background())
	require.ErrorIs(t, err, loginErr)
}

func TestStart_SeedsCache(t *testing.T) {
	t.Parallel()

	vendor := &fakeVendor{state: snapshot(panel.ArmingStateArmedStay)}
	svc := newTestService(testConfig(), vendor)

	require.NoError(t, svc.Start(context.Background()))

	defer svc.Close()

	current, ok := svc.CurrentState()
	require.True(t, ok)
	require.Equal(t, panel.ArmingStateArmedStay, current.Alarm.ArmingState)

	calls := vendor.calls()
	require.Equal(t, 1, calls.login)
	require.Equal(t, 1, calls.syncInfo)
	require.Equal(t, 1, calls.prefs)
	require.Equal(t, 1, calls.state)
}

func TestService_RecoversAfterRefreshFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.CacheTTL = 40 * time.Millisecond
	cfg.CheckPeriod = 10 * time.Millisecond

	vendor := &fakeVendor{state: snapshot(panel.ArmingStateArmedAway)}
	svc := newTestService(cfg, vendor, WithBackoff(5*time.Millisecond, 20*time.Millisecond))

	require.NoError(t, svc.Start(context.Background()))

	defer svc.Close()

	seeded := vendor.calls()

	// Break the cloud. The next expiry refresh fails, empties the cache
	// and wakes the recovery loop.
	vendor.setStateErr(errors.New("cloud down"))

	require.Eventually(t, func() bool {
		return vendor.calls().state > seeded.state
	}, 2*time.Second, 10*time.Millisecond, "watcher should attempt a refresh after expiry")

	require.Eventually(t, func() bool {
		return vendor.calls().login > seeded.login
	}, 2*time.Second, 10*time.Millisecond, "recovery should re-login after the failure")

	// Heal the cloud. Recovery retries until the snapshot lands again.
	vendor.setState(snapshot(panel.ArmingStateDisarmed))
	vendor.setStateErr(nil)

	require.Eventually(t, func() bool {
		current, ok := svc.CurrentState()

		return ok && current.Alarm.ArmingState == panel.ArmingStateDisarmed
	}, 2*time.Second, 10*time.Millisecond, "cache should repopulate after recovery")
}
