package bridge

import (
	"errors"
	"fmt"
)

// ErrDialerRequired is returned by New when Options.Dialer is unset.
var ErrDialerRequired = errors.New("bridge: Dialer is required")

// ScriptError is a failure thrown by the user's script inside the host.
// It carries the structured error payload the envelope captured: message,
// error type name, and the 1-based source line (-1 when unavailable).
type ScriptError struct {
	Message string
	Name    string
	Line    int
}

// Error returns the message, including the source line if available.
func (e *ScriptError) Error() string {
	if e.Line >= 0 {
		return fmt.Sprintf("%s: %s (line %d)", e.Name, e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// TransportError is a fault at the automation layer itself, distinct from
// an error thrown by the script. Code is the COM HRESULT of the fault.
type TransportError struct {
	Code        int32
	Description string
}

// Error returns the fault description with the HRESULT when present.
func (e *TransportError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("bridge: transport fault 0x%08X: %s", uint32(e.Code), e.Description)
	}
	return "bridge: transport fault: " + e.Description
}

// Source identifies the fault as transport-level for callers that need to
// distinguish it from script-level failures in serialised results.
func (e *TransportError) Source() string { return "COM/DoScript" }

// HRESULTs that indicate the remote process is gone or unreachable. The
// set is an explicit allow-list, extended as new disconnect signatures
// are discovered, rather than pattern-matching on error text.
//
//	RPC_E_DISCONNECTED       0x80010108
//	RPC_S_SERVER_UNAVAILABLE 0x800706BA
//	CO_E_OBJNOTCONNECTED     0x80040200 (varies by host)
//	RPC_E_SERVERFAULT        0x80010105
var connectionLossCodes = map[int32]bool{
	-2147417848: true,
	-2147023174: true,
	-2147220992: true,
	-2147417851: true,
}

// ConnectionLost reports whether this fault's HRESULT is in the known
// "remote process is gone" set.
func (e *TransportError) ConnectionLost() bool {
	return connectionLossCodes[e.Code]
}

// ConnectionError means no reachable host instance could be acquired. It
// is surfaced before any script runs; nothing was executed.
type ConnectionError struct {
	ProgIDs []string
	Last    error
}

// Error describes the acquisition failure including the last underlying fault.
func (e *ConnectionError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("bridge: could not connect to InDesign (tried %v), is it running? last error: %v", e.ProgIDs, e.Last)
	}
	return fmt.Sprintf("bridge: could not connect to InDesign (tried %v), is it running?", e.ProgIDs)
}

// Unwrap returns the last underlying acquisition fault.
func (e *ConnectionError) Unwrap() error { return e.Last }
