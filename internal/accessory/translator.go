package accessory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sentra-home/sentra-bridge/internal/cache"
	"github.com/sentra-home/sentra-bridge/internal/domain/panel"
	"github.com/sentra-home/sentra-bridge/internal/logger"
)

// errUnknownTargetState is returned for target codes outside the platform range.
var errUnknownTargetState = errors.New("unknown target state code")

// Engine abstracts the bridge operations the translator depends on.
type Engine interface {
	CurrentState() (*panel.State, bool)
	Target() (panel.ArmingState, bool)
	Subscribe(fn cache.Subscriber) string
	Unsubscribe(id string)
	RequestArmingState(ctx context.Context, desired panel.ArmingState) error
}

// Sink receives characteristic updates for the platform to apply.
// Calls arrive on the cache notifier goroutine and must not block for long.
type Sink interface {
	UpdateCurrentState(state CurrentState)
	UpdateTargetState(state TargetState)
	UpdateContactSensor(sensorID string, state ContactState)
}

// Translator diffs consecutive panel snapshots into characteristic updates.
type Translator struct {
	// name is the display name of the bridged accessory.
	name string
	// engine provides snapshots, the target marker and command dispatch.
	engine Engine

	// mu guards the sink and the diff baseline.
	mu           sync.Mutex
	sink         Sink
	lastCurrent  *CurrentState
	lastTarget   *TargetState
	lastSensors  map[string]ContactState
	subscription string
}

// NewTranslator creates the translation layer on top of the engine.
// No sink is required, updates are dropped until one is registered.
func NewTranslator(name string, engine Engine) *Translator {
	return &Translator{
		name:        name,
		engine:      engine,
		lastSensors: make(map[string]ContactState),
	}
}

// SetSink registers the platform sink. The diff baseline resets so the next
// snapshot replays every characteristic to the new sink, and a cached
// snapshot replays immediately.
func (t *Translator) SetSink(ctx context.Context, sink Sink) {
	t.mu.Lock()
	t.sink = sink
	t.lastCurrent = nil
	t.lastTarget = nil
	t.lastSensors = make(map[string]ContactState)
	t.mu.Unlock()

	if state, ok := t.engine.CurrentState(); ok {
		t.apply(ctx, state)
	}
}

// Attach seeds the characteristics from the cached snapshot and subscribes
// for subsequent updates.
func (t *Translator) Attach(ctx context.Context) {
	if state, ok := t.engine.CurrentState(); ok {
		t.apply(ctx, state)
	}

	id := t.engine.Subscribe(func(state *panel.State) {
		t.apply(ctx, state)
	})

	t.mu.Lock()
	t.subscription = id
	t.mu.Unlock()

	logger.InfoKV(ctx, "Accessory translator attached", "name", t.name)
}

// Detach cancels the cache subscription.
func (t *Translator) Detach() {
	t.mu.Lock()
	id := t.subscription
	t.subscription = ""
	t.mu.Unlock()

	if id != "" {
		t.engine.Unsubscribe(id)
	}
}

// SetTargetState handles a user-issued target change from the platform.
func (t *Translator) SetTargetState(ctx context.Context, target TargetState) error {
	desired, ok := PanelStateFromTarget(target)
	if !ok {
		return fmt.Errorf("%w: %d", errUnknownTargetState, target)
	}

	return t.engine.RequestArmingState(ctx, desired)
}

// apply diffs a snapshot against the baseline and delivers the changes.
// Sink calls happen outside the lock, a sink may call back into the engine.
func (t *Translator) apply(ctx context.Context, state *panel.State) {
	current := CurrentStateFromPanel(state.Alarm)

	// An in-flight command pins the target characteristic, otherwise the
	// target follows the panel so external changes stay consistent.
	var target TargetState
	if desired, ok := t.engine.Target(); ok {
		target = TargetStateFromPanel(desired)
	} else if state.Alarm != nil {
		target = TargetStateFromPanel(state.Alarm.ArmingState)
	}

	t.mu.Lock()

	sink := t.sink

	var calls []func(Sink)

	if t.lastCurrent == nil || *t.lastCurrent != current {
		t.lastCurrent = &current
		calls = append(calls, func(s Sink) { s.UpdateCurrentState(current) })
		logger.DebugKV(ctx, "Current state characteristic changed", "value", int(current))
	}

	if t.lastTarget == nil || *t.lastTarget != target {
		t.lastTarget = &target
		calls = append(calls, func(s Sink) { s.UpdateTargetState(target) })
		logger.DebugKV(ctx, "Target state characteristic changed", "value", int(target))
	}

	sensors := make(map[string]ContactState, len(state.ContactSensors))

	for id, sensorState := range state.ContactSensors {
		code := ContactStateFromSensor(sensorState)
		sensors[id] = code

		if previous, seen := t.lastSensors[id]; !seen || previous != code {
			sensorID := id
			calls = append(calls, func(s Sink) { s.UpdateContactSensor(sensorID, code) })
			logger.DebugKV(ctx, "Contact sensor characteristic changed",
				"sensor_id", sensorID,
				"value", int(code))
		}
	}

	t.lastSensors = sensors
	t.mu.Unlock()

	if sink == nil {
		return
	}

	for _, call := range calls {
		call(sink)
	}
}
