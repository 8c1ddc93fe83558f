//go:build !windows

package comhost

import (
	"errors"

	"github.com/jonwraymond/jsxbridge/bridge"
)

// ErrUnsupported is returned by every Dialer operation on platforms
// without a COM runtime.
var ErrUnsupported = errors.New("comhost: COM automation requires Windows")

// Initialize is a no-op on non-Windows platforms.
func Initialize() error { return ErrUnsupported }

// Uninitialize is a no-op on non-Windows platforms.
func Uninitialize() {}

// Dialer is a placeholder on non-Windows platforms; every operation
// fails with ErrUnsupported.
type Dialer struct{}

var _ bridge.Dialer = Dialer{}

func (Dialer) Attach(progID string) (bridge.Host, error) { return nil, ErrUnsupported }

func (Dialer) Launch(progID string) (bridge.Host, error) { return nil, ErrUnsupported }
