package chrome

import "errors"

// Render errors - returned during page rendering
var (
	ErrNavigateFailed = errors.New("navigation failed")
	ErrExtractHTML    = errors.New("HTML extraction failed")
)

// Pool errors - returned during Chrome instance management
var (
	ErrPoolShutdown  = errors.New("pool is shutting down")
	ErrRestartFailed = errors.New("chrome restart failed")
)
