// Package bridge implements the state synchronization engine between the
// Sentra vendor cloud and the accessory platform.
//
// The service owns the session lifecycle, the snapshot cache refresh cycle,
// the arm/disarm command protocol with its precondition checks, and the
// recovery path that re-authenticates with capped exponential backoff after
// fetch failures.
package bridge
