package cds

import "github.com/rs/zerolog"

// logger returns l if non-nil, else a no-op logger. Every call site in
// this package goes through this helper so a caller may construct a
// CdsSolver/AsyncDriver with a nil *zerolog.Logger, mirroring the
// teacher's nil-receiver-safe SolverMonitor pattern.
func logger(l *zerolog.Logger) zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return *l
}
