package panel

import (
	"strings"
	"time"
)

// ArmingState is the panel arming mode as reported by the vendor cloud.
type ArmingState string

// Arming states understood by the bridge.
const (
	// ArmingStateDisarmed means the panel is disarmed and ready.
	ArmingStateDisarmed ArmingState = "DISARMED"
	// ArmingStateArmedAway means the panel is fully armed.
	ArmingStateArmedAway ArmingState = "ARMED_AWAY"
	// ArmingStateArmedStay means the panel is armed with a stay profile.
	ArmingStateArmedStay ArmingState = "ARMED_STAY"
	// ArmingStateNotReady means the panel refuses arming, typically due to open zones.
	ArmingStateNotReady ArmingState = "NOT_READY"
)

// ParseArmingState converts a raw vendor value to an ArmingState.
func ParseArmingState(s string) (ArmingState, bool) {
	switch ArmingState(strings.ToUpper(strings.TrimSpace(s))) {
	case ArmingStateDisarmed:
		return ArmingStateDisarmed, true
	case ArmingStateArmedAway:
		return ArmingStateArmedAway, true
	case ArmingStateArmedStay:
		return ArmingStateArmedStay, true
	case ArmingStateNotReady:
		return ArmingStateNotReady, true
	default:
		return "", false
	}
}

// Armed reports whether the state describes an armed panel.
func (s ArmingState) Armed() bool {
	return s == ArmingStateArmedAway || s == ArmingStateArmedStay
}

// FaultStatus reports whether the panel has an active fault condition.
type FaultStatus string

// Fault statuses understood by the bridge.
const (
	// FaultStatusOK means no fault is reported.
	FaultStatusOK FaultStatus = "OK"
	// FaultStatusFault means the panel reports an active fault.
	FaultStatusFault FaultStatus = "FAULT"
)

// SensorState is the reported position of a contact sensor.
type SensorState string

// Contact sensor states.
const (
	// SensorStateClosed means the contact is closed.
	SensorStateClosed SensorState = "CLOSED"
	// SensorStateOpen means the contact is open.
	SensorStateOpen SensorState = "OPEN"
)

// Alarm is the alarm section of a panel snapshot.
type Alarm struct {
	// ArmingState is the current arming mode.
	ArmingState ArmingState
	// FaultStatus is the current fault condition.
	FaultStatus FaultStatus
	// SirenActive indicates an alarm is currently sounding.
	SirenActive bool
}

// Populated reports whether the alarm section carries a usable arming state.
// Subscribers are only notified about snapshots with a populated alarm.
func (a *Alarm) Populated() bool {
	return a != nil && a.ArmingState != ""
}

// Clone returns a deep copy of the alarm section and handles nil safely.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// State represents the remote panel status at a specific point in time.
// A new instance replaces the previous one on every successful fetch.
type State struct {
	// FetchedAt is when the snapshot was retrieved from the vendor cloud.
	FetchedAt time.Time
	// Alarm is the alarm section of the snapshot.
	Alarm *Alarm
	// ContactSensors maps sensor identifiers to their reported positions.
	ContactSensors map[string]SensorState
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}

	var sensors map[string]SensorState
	if s.ContactSensors != nil {
		sensors = make(map[string]SensorState, len(s.ContactSensors))
		for id, ss := range s.ContactSensors {
			sensors[id] = ss
		}
	}

	return &State{
		FetchedAt:      s.FetchedAt,
		Alarm:          s.Alarm.Clone(),
		ContactSensors: sensors,
	}
}
