// Package comhost provides the COM automation transport for the bridge.
//
// It implements bridge.Dialer and bridge.Host on top of the Windows COM
// runtime via go-ole: attaching to a running application through the
// running object table, launching a fresh instance, and dispatching
// DoScript calls. COM errors are translated into *bridge.TransportError
// so the connection manager can classify connection loss.
//
// The package only functions on Windows. On other platforms the Dialer
// returns ErrUnsupported so that tools embedding the bridge still
// compile and can report the limitation at runtime.
//
// COM apartment rules apply: call Initialize from the goroutine that
// will perform all host calls, and keep that goroutine locked to its
// thread for the lifetime of the connection.
package comhost
