package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func newTestManager(dialer Dialer) *Manager {
	return NewManager(dialer, DefaultProgIDs, zerolog.Nop())
}

func TestManager_Ensure_ReusesLiveHandle(t *testing.T) {
	host := &fakeHost{}
	dialer := singleHostDialer(host)
	m := newTestManager(dialer)

	first, err := m.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	second, err := m.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if first != second {
		t.Error("Ensure() returned a different handle on second call")
	}

	// Only the initial acquisition should have dialed.
	if got := len(dialer.attemptLog()); got != 1 {
		t.Errorf("dial attempts = %d, want 1", got)
	}
}

func TestManager_Ensure_ReacquiresAfterProbeFailure(t *testing.T) {
	host := &fakeHost{}
	dialer := singleHostDialer(host)
	m := newTestManager(dialer)

	if _, err := m.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	// Simulate the application dying: the cached handle no longer probes.
	host.mu.Lock()
	host.probeErr = errors.New("RPC server unavailable")
	host.mu.Unlock()

	fresh := &fakeHost{}
	dialer.mu.Lock()
	dialer.attachHosts[DefaultProgIDs[0]] = fresh
	dialer.mu.Unlock()

	got, err := m.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() after dead handle error = %v", err)
	}
	if got != Host(fresh) {
		t.Error("Ensure() did not acquire a fresh handle after probe failure")
	}
}

func TestManager_Ensure_FallsBackToLaunch(t *testing.T) {
	host := &fakeHost{}
	dialer := &fakeDialer{
		launchHosts: map[string]Host{DefaultProgIDs[0]: host},
	}
	m := newTestManager(dialer)

	got, err := m.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if got != Host(host) {
		t.Error("Ensure() did not return the launched host")
	}

	log := dialer.attemptLog()
	if len(log) < 2 || log[0] != "attach:"+DefaultProgIDs[0] || log[1] != "launch:"+DefaultProgIDs[0] {
		t.Errorf("attempt order = %v, want attach then launch for first prog ID", log)
	}
}

func TestManager_Ensure_TriesProgIDsInOrder(t *testing.T) {
	host := &fakeHost{}
	dialer := &fakeDialer{
		attachHosts: map[string]Host{DefaultProgIDs[2]: host},
	}
	m := newTestManager(dialer)

	got, err := m.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if got != Host(host) {
		t.Error("Ensure() did not return the host from the fallback prog ID")
	}

	log := dialer.attemptLog()
	// Two failed attempts (attach + launch) per earlier prog ID, then the
	// successful attach.
	want := []string{
		"attach:" + DefaultProgIDs[0], "launch:" + DefaultProgIDs[0],
		"attach:" + DefaultProgIDs[1], "launch:" + DefaultProgIDs[1],
		"attach:" + DefaultProgIDs[2],
	}
	if len(log) != len(want) {
		t.Fatalf("attempts = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("attempt[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestManager_Ensure_AllFail(t *testing.T) {
	dialer := &fakeDialer{}
	m := newTestManager(dialer)

	_, err := m.Ensure(context.Background())
	if err == nil {
		t.Fatal("Ensure() error = nil, want ConnectionError")
	}

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("Ensure() error = %T, want *ConnectionError", err)
	}
	if len(connErr.ProgIDs) != len(DefaultProgIDs) {
		t.Errorf("ConnectionError.ProgIDs = %v, want all of %v", connErr.ProgIDs, DefaultProgIDs)
	}
	if connErr.Last == nil {
		t.Error("ConnectionError.Last = nil, want the final underlying error")
	}
}

func TestManager_Ensure_RejectsProbeFailingAttach(t *testing.T) {
	// An attach that succeeds but fails the probe must not be cached; the
	// manager should fall through to launch.
	dead := &fakeHost{probeErr: errors.New("not responding")}
	live := &fakeHost{}
	dialer := &fakeDialer{
		attachHosts: map[string]Host{DefaultProgIDs[0]: dead},
		launchHosts: map[string]Host{DefaultProgIDs[0]: live},
	}
	m := newTestManager(dialer)

	got, err := m.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if got != Host(live) {
		t.Error("Ensure() cached a host that failed its verification probe")
	}
}

func TestManager_Ensure_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newTestManager(singleHostDialer(&fakeHost{}))
	if _, err := m.Ensure(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Ensure() error = %v, want context.Canceled", err)
	}
}

func TestManager_InvalidateOnFault(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rpc server unavailable", &TransportError{Code: -2147023174}, true},
		{"rpc call failed", &TransportError{Code: -2147417848}, true},
		{"server not available", &TransportError{Code: -2147220992}, true},
		{"call rejected", &TransportError{Code: -2147417851}, true},
		{"script exception", &TransportError{Code: -2147352567, Description: "DoScript failed"}, false},
		{"plain error", errors.New("something else"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{}
			m := newTestManager(singleHostDialer(host))
			if _, err := m.Ensure(context.Background()); err != nil {
				t.Fatalf("Ensure() error = %v", err)
			}

			if got := m.InvalidateOnFault(tt.err); got != tt.want {
				t.Errorf("InvalidateOnFault(%v) = %v, want %v", tt.err, got, tt.want)
			}

			// Connection-loss codes clear the cached handle.
			if tt.want && m.Connected() {
				t.Error("handle still cached after connection-loss fault")
			}
			if !tt.want && !m.Connected() {
				t.Error("handle dropped for a non-loss error")
			}
		})
	}
}

func TestManager_Connected(t *testing.T) {
	host := &fakeHost{}
	m := newTestManager(singleHostDialer(host))

	if m.Connected() {
		t.Error("Connected() = true before any acquisition")
	}

	if _, err := m.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if !m.Connected() {
		t.Error("Connected() = false with a live handle")
	}

	host.mu.Lock()
	host.probeErr = errors.New("gone")
	host.mu.Unlock()
	if m.Connected() {
		t.Error("Connected() = true after the handle stopped probing")
	}
}
