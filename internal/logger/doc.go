// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger writing plain console lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing and a runtime level switch for the CLI flag,
//   - convenience functions (InfoKV, ErrorKV, etc.).
//
// Every component takes a context and extracts its logger from it, so log
// scope follows the call chain instead of being wired per struct.
package logger
