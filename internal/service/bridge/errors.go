package bridge

import (
	"errors"
	"fmt"

	"github.com/sentra-home/sentra-bridge/internal/domain/panel"
)

var (
	// ErrPinRequired is returned when a disarm is requested without a
	// configured keypad PIN. The PIN is never sent empty to the vendor.
	ErrPinRequired = errors.New("keypad PIN must be configured to disarm")
	// errStateNotCommandable is returned when the requested state is not
	// one a user can command the panel into.
	errStateNotCommandable = errors.New("requested state cannot be commanded")
)

// PreconditionError reports a command refused locally because the current
// panel state makes it invalid to attempt. No remote call is made.
type PreconditionError struct {
	// ArmingState is the panel state that blocked the command.
	ArmingState panel.ArmingState
	// FaultStatus is the fault condition that blocked the command.
	FaultStatus panel.FaultStatus
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("panel is not ready: state %s, fault %s", e.ArmingState, e.FaultStatus)
}
