// Package timeouts provides centralized timeout values for handler
// operations.
//
// These are used with context.WithTimeout for database operations and
// other I/O in HTTP handlers. Guidelines:
//   - Ping: health checks and connectivity verification
//   - Short: simple single-document reads or form renders
//   - Medium: list queries, moderate writes
//   - Long: multi-collection writes (adhesion submission, review actions)
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for single-document reads and form renders.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { return medium }

// Long returns the timeout for writes touching multiple collections.
func Long() time.Duration { return long }
