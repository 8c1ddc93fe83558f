package bridge

import "time"

// Request describes a single script execution. Immutable once constructed.
type Request struct {
	// Script is the ExtendScript code to execute. Assign the return value
	// to __result; the envelope handles serialisation.
	Script string

	// UndoLabel is the human-readable undo-step name shown in Edit > Undo.
	// Used when UndoMode groups changes into a labelled step.
	UndoLabel string

	// UndoMode selects how the host groups the script's changes for undo.
	UndoMode UndoMode
}

// Result is the outcome of a single script execution. Exactly one of
// Value and Err is meaningful: a nil Err means the script completed and
// Value carries its (possibly nil) return value.
type Result struct {
	// Value is the decoded return value: a JSON-compatible value from the
	// envelope contract, a plain string from a scalar return, or nil.
	Value any

	// Elapsed is the wall-clock duration of the blocking host call. Zero
	// when the call never reached the host.
	Elapsed time.Duration

	// Err classifies the failure: *ScriptError (the script threw),
	// *TransportError (the automation call itself failed), or
	// *ConnectionError (no host was reachable).
	Err error
}

// OK reports whether the execution produced a value.
func (r Result) OK() bool { return r.Err == nil }
