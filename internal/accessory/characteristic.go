package accessory

import (
	"github.com/sentra-home/sentra-bridge/internal/domain/panel"
)

// CurrentState is the platform's security-system current-state characteristic.
type CurrentState int

// Security-system current-state codes.
const (
	// CurrentStateStayArm means the system is armed with people home.
	CurrentStateStayArm CurrentState = 0
	// CurrentStateAwayArm means the system is fully armed.
	CurrentStateAwayArm CurrentState = 1
	// CurrentStateNightArm means the system is armed for the night.
	CurrentStateNightArm CurrentState = 2
	// CurrentStateDisarmed means the system is disarmed.
	CurrentStateDisarmed CurrentState = 3
	// CurrentStateAlarmTriggered means the alarm is sounding.
	CurrentStateAlarmTriggered CurrentState = 4
)

// TargetState is the platform's security-system target-state characteristic.
type TargetState int

// Security-system target-state codes.
const (
	// TargetStateStayArm requests arming with people home.
	TargetStateStayArm TargetState = 0
	// TargetStateAwayArm requests full arming.
	TargetStateAwayArm TargetState = 1
	// TargetStateNightArm requests night arming.
	TargetStateNightArm TargetState = 2
	// TargetStateDisarm requests disarming.
	TargetStateDisarm TargetState = 3
)

// ContactState is the platform's contact-sensor characteristic.
type ContactState int

// Contact-sensor codes.
const (
	// ContactStateDetected means the contact is made, the sensor is closed.
	ContactStateDetected ContactState = 0
	// ContactStateNotDetected means the contact is broken, the sensor is open.
	ContactStateNotDetected ContactState = 1
)

// CurrentStateFromPanel maps the alarm section of a snapshot to the
// current-state code. An active siren wins over the arming mode.
func CurrentStateFromPanel(alarm *panel.Alarm) CurrentState {
	if alarm == nil {
		return CurrentStateDisarmed
	}

	if alarm.SirenActive {
		return CurrentStateAlarmTriggered
	}

	switch alarm.ArmingState {
	case panel.ArmingStateArmedAway:
		return CurrentStateAwayArm
	case panel.ArmingStateArmedStay:
		return CurrentStateStayArm
	default:
		// NOT_READY still means nobody armed the panel.
		return CurrentStateDisarmed
	}
}

// TargetStateFromPanel maps a panel arming state to the target-state code.
func TargetStateFromPanel(state panel.ArmingState) TargetState {
	switch state {
	case panel.ArmingStateArmedAway:
		return TargetStateAwayArm
	case panel.ArmingStateArmedStay:
		return TargetStateStayArm
	default:
		return TargetStateDisarm
	}
}

// PanelStateFromTarget maps a target-state code to the panel arming state to
// request. The panel has no night mode, night arming uses the stay profile.
func PanelStateFromTarget(target TargetState) (panel.ArmingState, bool) {
	switch target {
	case TargetStateAwayArm:
		return panel.ArmingStateArmedAway, true
	case TargetStateStayArm, TargetStateNightArm:
		return panel.ArmingStateArmedStay, true
	case TargetStateDisarm:
		return panel.ArmingStateDisarmed, true
	default:
		return "", false
	}
}

// ContactStateFromSensor maps a sensor position to the contact-sensor code.
func ContactStateFromSensor(state panel.SensorState) ContactState {
	if state == panel.SensorStateOpen {
		return ContactStateNotDetected
	}

	return ContactStateDetected
}
