// Package sentra implements the client for the Sentra vendor cloud HTTP API.
//
// It owns the session lifecycle (login, re-login, site resolution), the typed
// request and response schemas, panel state fetching and the arm/disarm
// command. Responses are validated at the boundary so a missing required
// field surfaces as a typed error instead of a partial value.
package sentra
