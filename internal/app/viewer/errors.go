package viewer

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid_request")
	ErrRunNotFound      = errors.New("run_not_found")
	ErrStrategyNotFound = errors.New("strategy_not_found")
	ErrSeedNotFound     = errors.New("seed_not_found")
)
