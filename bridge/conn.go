package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Manager owns the single cached connection handle to the host process.
// All mutation of the handle happens under one lock so concurrent callers
// cannot race to create two handles or interleave a probe with an
// invalidation. Other components borrow the handle for one call only.
type Manager struct {
	dialer  Dialer
	progIDs []string
	logger  zerolog.Logger

	mu   sync.Mutex
	host Host
}

// NewManager creates a connection manager that acquires handles through
// dialer, trying progIDs in order.
func NewManager(dialer Dialer, progIDs []string, logger zerolog.Logger) *Manager {
	return &Manager{
		dialer:  dialer,
		progIDs: progIDs,
		logger:  logger,
	}
}

// Ensure returns a live handle, reusing the cached one when its liveness
// probe succeeds. On probe failure the cache is cleared and acquisition
// starts over: for each identifier, attach to a running instance first,
// then request an instance (which may launch the application). Either way
// the handle is probed once before it is cached and returned.
//
// Returns *ConnectionError carrying the last underlying fault when every
// identifier fails.
func (m *Manager) Ensure(ctx context.Context) (Host, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.host != nil {
		if err := m.host.Probe(); err == nil {
			return m.host, nil
		}
		m.logger.Warn().Msg("cached connection failed liveness probe, reacquiring")
		m.host = nil
	}

	var last error
	for _, progID := range m.progIDs {
		host, err := m.dialer.Attach(progID)
		if err == nil {
			if perr := host.Probe(); perr == nil {
				m.host = host
				m.logger.Info().Str("prog_id", progID).Msg("attached to running host instance")
				return host, nil
			} else {
				last = perr
			}
		}

		host, err = m.dialer.Launch(progID)
		if err != nil {
			last = err
			continue
		}
		if perr := host.Probe(); perr != nil {
			last = perr
			continue
		}
		m.host = host
		m.logger.Info().Str("prog_id", progID).Msg("connected to host instance")
		return host, nil
	}

	return nil, &ConnectionError{ProgIDs: m.progIDs, Last: last}
}

// Invalidate drops the cached handle. The next Ensure re-acquires.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.host = nil
	m.mu.Unlock()
}

// InvalidateOnFault inspects a transport fault and, when its HRESULT is
// in the known connection-loss set, clears the cached handle so the next
// call re-acquires. It reports whether the cache was cleared.
//
// This is deliberately not an in-call retry: a failed call is reported as
// failed, and only the next call benefits from reconnection. Retrying
// inside a call that may have partially mutated host state risks
// double-applying effects.
func (m *Manager) InvalidateOnFault(err error) bool {
	var fault *TransportError
	if !errors.As(err, &fault) || !fault.ConnectionLost() {
		return false
	}

	m.mu.Lock()
	m.host = nil
	m.mu.Unlock()

	m.logger.Warn().
		Str("hresult", fmt.Sprintf("0x%08X", uint32(fault.Code))).
		Msg("connection to host lost, will reconnect on next call")
	return true
}

// Connected reports whether a cached handle exists and still answers its
// liveness probe. A failed probe clears the cache as a side effect.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.host == nil {
		return false
	}
	if err := m.host.Probe(); err != nil {
		m.host = nil
		return false
	}
	return true
}
