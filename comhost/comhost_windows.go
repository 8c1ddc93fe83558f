//go:build windows

package comhost

import (
	"errors"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/jonwraymond/jsxbridge/bridge"
)

// Initialize locks the calling goroutine to its OS thread and enters a
// single-threaded COM apartment. Call it once before dialing; pair it
// with Uninitialize on shutdown.
func Initialize() error {
	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		// S_FALSE (1) means the apartment already exists on this thread.
		var oleErr *ole.OleError
		if errors.As(err, &oleErr) && oleErr.Code() == 1 {
			return nil
		}
		runtime.UnlockOSThread()
		return wrapOLE(err)
	}
	return nil
}

// Uninitialize tears down the COM apartment entered by Initialize and
// releases the OS thread lock.
func Uninitialize() {
	ole.CoUninitialize()
	runtime.UnlockOSThread()
}

// Dialer acquires application handles over COM. The zero value is ready
// to use.
type Dialer struct{}

var _ bridge.Dialer = Dialer{}

// Attach binds to an already-running instance registered under progID.
func (Dialer) Attach(progID string) (bridge.Host, error) {
	unknown, err := oleutil.GetActiveObject(progID)
	if err != nil {
		return nil, wrapOLE(err)
	}
	return hostFromUnknown(unknown)
}

// Launch starts a new instance of the application registered under
// progID. Starting the application can take a while; the caller is
// expected to verify the handle with Probe before using it.
func (Dialer) Launch(progID string) (bridge.Host, error) {
	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return nil, wrapOLE(err)
	}
	return hostFromUnknown(unknown)
}

func hostFromUnknown(unknown *ole.IUnknown) (bridge.Host, error) {
	defer unknown.Release()
	dispatch, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, wrapOLE(err)
	}
	return &host{app: dispatch}, nil
}

// host wraps the application's automation interface.
type host struct {
	app *ole.IDispatch
}

var _ bridge.Host = (*host)(nil)

// Probe performs a cheap property read to confirm the application is
// alive and answering calls.
func (h *host) Probe() error {
	v, err := oleutil.GetProperty(h.app, "Version")
	if err != nil {
		return wrapOLE(err)
	}
	v.Clear()
	return nil
}

// DoScript dispatches a script to the application. A nil undo group
// sends the two-parameter form; otherwise the undo mode and label are
// passed as trailing parameters with an empty withArguments slot.
func (h *host) DoScript(script string, undo *bridge.UndoGroup) (any, error) {
	var (
		v   *ole.VARIANT
		err error
	)
	if undo == nil {
		v, err = oleutil.CallMethod(h.app, "DoScript",
			script, bridge.ScriptLanguageJavaScript)
	} else {
		v, err = oleutil.CallMethod(h.app, "DoScript",
			script, bridge.ScriptLanguageJavaScript, nil, undo.Mode, undo.Label)
	}
	if err != nil {
		return nil, wrapOLE(err)
	}
	defer v.Clear()
	return v.Value(), nil
}

// wrapOLE translates go-ole errors into *bridge.TransportError, digging
// the script engine's exception description out of the sub-error when
// one is attached.
func wrapOLE(err error) error {
	if err == nil {
		return nil
	}

	var oleErr *ole.OleError
	if !errors.As(err, &oleErr) {
		return &bridge.TransportError{Description: err.Error()}
	}

	te := &bridge.TransportError{
		Code:        int32(oleErr.Code()),
		Description: oleErr.Description(),
	}
	if te.Description == "" {
		te.Description = oleErr.Error()
	}

	switch sub := oleErr.SubError().(type) {
	case *ole.EXCEPINFO:
		if d := sub.Description(); d != "" {
			te.Description = d
		}
		if c := sub.SCode(); c != 0 {
			te.Code = c
		}
	case ole.EXCEPINFO:
		if d := sub.Description(); d != "" {
			te.Description = d
		}
		if c := sub.SCode(); c != 0 {
			te.Code = c
		}
	}
	return te
}
