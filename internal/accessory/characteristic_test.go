package accessory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentra-home/sentra-bridge/internal/domain/panel"
)

func TestCurrentStateFromPanel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		alarm    *panel.Alarm
		expected CurrentState
	}{
		{
			name:     "nil alarm is disarmed",
			alarm:    nil,
			expected: CurrentStateDisarmed,
		},
		{
			name:     "disarmed",
			alarm:    &panel.Alarm{ArmingState: panel.ArmingStateDisarmed},
			expected: CurrentStateDisarmed,
		},
		{
			name:     "not ready counts as disarmed",
			alarm:    &panel.Alarm{ArmingState: panel.ArmingStateNotReady},
			expected: CurrentStateDisarmed,
		},
		{
			name:     "armed away",
			alarm:    &panel.Alarm{ArmingState: panel.ArmingStateArmedAway},
			expected: CurrentStateAwayArm,
		},
		{
			name:     "armed stay",
			alarm:    &panel.Alarm{ArmingState: panel.ArmingStateArmedStay},
			expected: CurrentStateStayArm,
		},
		{
			name: "siren wins over arming mode",
			alarm: &panel.Alarm{
				ArmingState: panel.ArmingStateArmedAway,
				SirenActive: true,
			},
			expected: CurrentStateAlarmTriggered,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.expected, CurrentStateFromPanel(tt.alarm))
		})
	}
}

func TestPanelStateFromTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		target   TargetState
		expected panel.ArmingState
		ok       bool
	}{
		{name: "away", target: TargetStateAwayArm, expected: panel.ArmingStateArmedAway, ok: true},
		{name: "stay", target: TargetStateStayArm, expected: panel.ArmingStateArmedStay, ok: true},
		{name: "night maps to stay", target: TargetStateNightArm, expected: panel.ArmingStateArmedStay, ok: true},
		{name: "disarm", target: TargetStateDisarm, expected: panel.ArmingStateDisarmed, ok: true},
		{name: "out of range", target: TargetState(9), ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state, ok := PanelStateFromTarget(tt.target)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, state)
		})
	}
}

func TestContactStateFromSensor(t *testing.T) {
	t.Parallel()

	require.Equal(t, ContactStateDetected, ContactStateFromSensor(panel.SensorStateClosed))
	require.Equal(t, ContactStateNotDetected, ContactStateFromSensor(panel.SensorStateOpen))
}
