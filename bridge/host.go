package bridge

// UndoGroup selects the host's command grouping for one DoScript call.
// A nil *UndoGroup means the plain two-parameter call shape with no undo
// parameters.
type UndoGroup struct {
	// Mode is the host's UndoModes enum value.
	Mode int32

	// Label is the undo-step name shown in the host's Edit menu.
	Label string
}

// Host is the synchronous transport to one running application instance.
//
// Contract:
// - DoScript blocks the calling goroutine until the script engine finishes;
//   there is no cancellation primitive.
// - Errors from either method are *TransportError where the fault carries
//   an HRESULT; probe failures may be any error.
// - Implementations need not be safe for concurrent DoScript calls; the
//   bridge assumes a single logical caller issues calls one at a time.
type Host interface {
	// Probe performs a cheap liveness check (reading one harmless
	// property). A nil return means the handle is still valid.
	Probe() error

	// DoScript executes the script text and returns the raw channel
	// output: a string, a native scalar, or nil.
	DoScript(script string, undo *UndoGroup) (any, error)
}

// Dialer acquires Host handles. Attach connects to an already-running
// instance; Launch requests an instance, which may start the application.
//
// Contract:
// - Both methods return an un-probed handle; the connection manager
//   verifies liveness before caching.
// - Implementations must not cache handles themselves.
type Dialer interface {
	Attach(progID string) (Host, error)
	Launch(progID string) (Host, error)
}

// DefaultProgIDs is the acquisition preference order, newest version
// first, ending with the version-independent identifier.
var DefaultProgIDs = []string{
	"InDesign.Application.2026",
	"InDesign.Application.2025",
	"InDesign.Application",
}
