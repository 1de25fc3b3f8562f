// Package cache implements the single-slot TTL cache for panel snapshots.
//
// The slot holds at most one snapshot. A watcher goroutine checks for
// expiry on a fixed period, drops the stale entry and triggers a background
// re-fetch. Subscribers are notified about every stored snapshot whose
// alarm section is populated, in set-completion order.
package cache
