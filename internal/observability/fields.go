package observability

import "go.uber.org/zap"

// Field constructors re-exported so callers don't import zap directly.
//
//nolint:gochecknoglobals // aliases of zap constructors
var (
	String   = zap.String
	Int      = zap.Int
	Bool     = zap.Bool
	Float64  = zap.Float64
	Duration = zap.Duration
	Error    = zap.Error
)
