package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonwraymond/jsxbridge/jsx"
)

// DefaultSlowCallThreshold is the elapsed-time warning threshold when
// Options.SlowCallThreshold is unset.
const DefaultSlowCallThreshold = 30 * time.Second

// Options configures a Bridge.
type Options struct {
	// Dialer acquires connection handles. Required.
	Dialer Dialer

	// ProgIDs is the acquisition preference order, newest version first.
	// Default: DefaultProgIDs.
	ProgIDs []string

	// SlowCallThreshold is the elapsed wall-clock duration above which a
	// completed call is logged as slow. Purely an operability signal; no
	// call is ever aborted. Default: DefaultSlowCallThreshold.
	SlowCallThreshold time.Duration

	// Logger receives operational messages. If nil, logging is disabled.
	Logger *zerolog.Logger
}

// validate checks that required fields are set.
func (o *Options) validate() error {
	if o.Dialer == nil {
		return ErrDialerRequired
	}
	return nil
}

// applyDefaults sets default values for unset optional fields.
func (o *Options) applyDefaults() {
	if len(o.ProgIDs) == 0 {
		o.ProgIDs = DefaultProgIDs
	}
	if o.SlowCallThreshold == 0 {
		o.SlowCallThreshold = DefaultSlowCallThreshold
	}
}

// Bridge is the execution dispatcher: it orchestrates connection
// acquisition, envelope building, the blocking host call, and result
// decoding into one consistent contract.
type Bridge struct {
	conn   *Manager
	opts   Options
	logger zerolog.Logger
}

// New creates a Bridge with the given options.
func New(opts Options) (*Bridge, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts.applyDefaults()

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Bridge{
		conn:   NewManager(opts.Dialer, opts.ProgIDs, logger),
		opts:   opts,
		logger: logger,
	}, nil
}

// Execute runs a script through the full safety envelope.
//
// The request's undo mode resolves to one of three mutually exclusive
// call shapes before the blocking call is made. On a transport fault the
// cached connection is invalidated for the next call and the fault is
// returned in the result; nothing escapes as an unhandled error.
func (b *Bridge) Execute(ctx context.Context, req Request) Result {
	host, err := b.conn.Ensure(ctx)
	if err != nil {
		return Result{Err: err}
	}

	wrapped := jsx.Wrap(req.Script)
	undo := req.UndoMode.group(req.UndoLabel)

	start := time.Now()
	raw, err := host.DoScript(wrapped, undo)
	elapsed := time.Since(start)
	b.warnIfSlow(elapsed, "DoScript")

	if err != nil {
		b.conn.InvalidateOnFault(err)
		return Result{Err: err, Elapsed: elapsed}
	}

	res := decodeResult(raw)
	res.Elapsed = elapsed
	return res
}

// Evaluate runs a short expression through the lightweight wrapper: no
// full envelope, no interaction guard, no undo parameters. The result is
// the expression value's string form, the literals "undefined" / "null",
// or a string beginning with jsx.ErrorPrefix when the expression threw.
// Intended for cheap read-only probes only.
func (b *Bridge) Evaluate(ctx context.Context, expression string) (string, error) {
	host, err := b.conn.Ensure(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	raw, err := host.DoScript(jsx.Eval(expression), nil)
	b.warnIfSlow(time.Since(start), "DoScript (eval)")

	if err != nil {
		b.conn.InvalidateOnFault(err)
		return "", err
	}

	if s, ok := raw.(string); ok {
		return s, nil
	}
	return fmt.Sprint(raw), nil
}

// Connected reports whether a live connection is currently cached.
func (b *Bridge) Connected() bool { return b.conn.Connected() }

// Disconnect drops the cached connection handle.
func (b *Bridge) Disconnect() { b.conn.Invalidate() }

func (b *Bridge) warnIfSlow(elapsed time.Duration, op string) {
	if elapsed > b.opts.SlowCallThreshold {
		b.logger.Warn().
			Dur("elapsed", elapsed).
			Dur("threshold", b.opts.SlowCallThreshold).
			Str("op", op).
			Msg("host call exceeded slow-call threshold")
	}
}
