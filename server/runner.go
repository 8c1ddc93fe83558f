package server

import (
	"context"
	"errors"

	"github.com/jonwraymond/jsxbridge/bridge"
)

// Sentinel errors for server construction.
var (
	ErrRunnerRequired = errors.New("server: Runner is required")
	ErrStoreRequired  = errors.New("server: Store is required")
)

// Runner executes scripts against the application. *bridge.Bridge is
// the production implementation; tests substitute a fake.
//
// Contract: Execute never panics and never returns a zero Result with a
// nil error for a failed call; failures arrive in Result.Err. Evaluate
// reports script-level failures in-band with the jsx.ErrorPrefix marker
// and reserves its error return for transport problems.
type Runner interface {
	Execute(ctx context.Context, req bridge.Request) bridge.Result
	Evaluate(ctx context.Context, expression string) (string, error)
}
