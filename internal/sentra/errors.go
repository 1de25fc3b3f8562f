package sentra

import "errors"

var (
	// errBaseURLRequired is returned when the vendor cloud endpoint is missing.
	errBaseURLRequired = errors.New("base URL must be provided")
	// errCredentialsRequired is returned when the account credentials are missing.
	errCredentialsRequired = errors.New("username and password must be provided")
	// errNotAuthenticated is returned when a call requires a session but none is held.
	errNotAuthenticated = errors.New("session is not authenticated")
	// errLoginRejected is returned when the vendor cloud declines the credentials.
	errLoginRejected = errors.New("login rejected by vendor cloud")
	// errTokenMissing is returned when a successful login carries no token.
	errTokenMissing = errors.New("login response carries no token")
	// errSyncRejected is returned when the sync info request is declined.
	errSyncRejected = errors.New("sync info rejected by vendor cloud")
	// errNoMasterSites is returned when the account has no master sites.
	errNoMasterSites = errors.New("no master sites in sync info")
	// errStateRejected is returned when the state info request is declined.
	errStateRejected = errors.New("state info rejected by vendor cloud")
	// errUnknownArmingState is returned when the panel reports an unmapped arming state.
	errUnknownArmingState = errors.New("unknown arming state in state info")
	// errAlarmSectionMissing is returned when a snapshot lacks the alarm section.
	errAlarmSectionMissing = errors.New("alarm section missing from state info")
	// errPreferencesRejected is returned when the preferences request is declined.
	errPreferencesRejected = errors.New("user preferences rejected by vendor cloud")
	// errCommandRejected is returned when the vendor cloud declines an arming command.
	errCommandRejected = errors.New("arming command rejected by vendor cloud")
)

// AuthError reports a failed login or an unusable login response.
type AuthError struct {
	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return "authentication failed: " + e.Cause.Error()
}

// Unwrap exposes the underlying failure to errors.Is and errors.As.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// SyncError reports a failed or unusable sync info exchange.
type SyncError struct {
	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	return "sync info failed: " + e.Cause.Error()
}

// Unwrap exposes the underlying failure to errors.Is and errors.As.
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// StateInfoError reports a failed or unusable state info exchange.
type StateInfoError struct {
	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *StateInfoError) Error() string {
	return "state info failed: " + e.Cause.Error()
}

// Unwrap exposes the underlying failure to errors.Is and errors.As.
func (e *StateInfoError) Unwrap() error {
	return e.Cause
}

// PreferencesError reports a failed user preferences exchange.
type PreferencesError struct {
	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *PreferencesError) Error() string {
	return "user preferences failed: " + e.Cause.Error()
}

// Unwrap exposes the underlying failure to errors.Is and errors.As.
func (e *PreferencesError) Unwrap() error {
	return e.Cause
}

// FetchError reports that a panel snapshot could not be produced.
// It wraps the stage that failed so callers never see partial state.
type FetchError struct {
	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return "state fetch failed: " + e.Cause.Error()
}

// Unwrap exposes the underlying failure to errors.Is and errors.As.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// CommandError reports a failed arming command.
type CommandError struct {
	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return "arming command failed: " + e.Cause.Error()
}

// Unwrap exposes the underlying failure to errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	return e.Cause
}
