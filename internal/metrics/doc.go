// Package metrics exposes Prometheus instrumentation for the bridge.
//
// The Recorder registers its collectors on a private registry and serves
// them through Handler, so tests and multiple instances never collide on
// the global default registry.
package metrics
