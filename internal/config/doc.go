// Package config defines bridge settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type holds the vendor cloud credentials, cache tuning and the
// optional metrics and message-bus endpoints. Credentials may also arrive
// through SENTRA_* environment variables, which take precedence over file
// values.
package config
