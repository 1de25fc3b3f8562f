// Package panel contains core domain types for the security panel state.
//
// It defines the ArmingState and FaultStatus enumerations, the Alarm section
// of a snapshot, and State (the full panel status at a point in time) with
// Clone helpers to avoid leaking internal references.
package panel
