// Package notify publishes panel state changes to a NATS message bus.
//
// Publishing is optional and best-effort. A nil Publisher swallows calls,
// so the bridge can wire the subscriber unconditionally and only connect
// when a bus URL is configured.
package notify
