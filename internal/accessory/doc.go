// Package accessory translates panel snapshots into smart-home platform
// characteristic updates.
//
// The translator subscribes to the state cache, diffs consecutive snapshots
// and pushes security-system and contact-sensor characteristic codes to a
// registered sink. User-issued target-state changes travel the other way,
// mapped to panel arming states and dispatched through the engine. The
// platform protocol itself lives outside this module, only the value
// translation happens here.
package accessory
