package bridge

import (
	"fmt"
	"sync"
)

// fakeHost is a scriptable Host that records every DoScript call.
type fakeHost struct {
	mu sync.Mutex

	probeErr error

	// response / responseErr are returned by DoScript unless a queue of
	// responses is configured.
	response    any
	responseErr error

	scripts []string
	undos   []*UndoGroup
	probes  int
}

func (h *fakeHost) Probe() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes++
	return h.probeErr
}

func (h *fakeHost) DoScript(script string, undo *UndoGroup) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scripts = append(h.scripts, script)
	h.undos = append(h.undos, undo)
	return h.response, h.responseErr
}

func (h *fakeHost) lastScript() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.scripts) == 0 {
		return ""
	}
	return h.scripts[len(h.scripts)-1]
}

func (h *fakeHost) lastUndo() *UndoGroup {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undos) == 0 {
		return nil
	}
	return h.undos[len(h.undos)-1]
}

// fakeDialer hands out hosts keyed by prog ID and records acquisition
// attempts in order.
type fakeDialer struct {
	mu sync.Mutex

	// attachHosts / launchHosts map prog ID to the host returned for that
	// path. A missing entry means the call fails.
	attachHosts map[string]Host
	launchHosts map[string]Host

	attempts []string
}

func (d *fakeDialer) Attach(progID string) (Host, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attempts = append(d.attempts, "attach:"+progID)
	if h, ok := d.attachHosts[progID]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("no running instance for %s", progID)
}

func (d *fakeDialer) Launch(progID string) (Host, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attempts = append(d.attempts, "launch:"+progID)
	if h, ok := d.launchHosts[progID]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("cannot launch %s", progID)
}

func (d *fakeDialer) attemptLog() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.attempts))
	copy(out, d.attempts)
	return out
}

// singleHostDialer returns a dialer whose first prog ID attaches to the
// given host.
func singleHostDialer(host Host) *fakeDialer {
	return &fakeDialer{
		attachHosts: map[string]Host{DefaultProgIDs[0]: host},
	}
}
