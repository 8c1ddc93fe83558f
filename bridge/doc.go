// Package bridge executes ExtendScript code in a running InDesign instance
// and returns structured results.
//
// The bridge reconciles a synchronous, non-cancellable foreign call with
// untrusted script text, a host that can open modal UI, a transport that
// only carries strings and scalars, and a connection that can die at any
// time. Every call terminates in a [Result]; no failure inside a script
// execution escapes as an unhandled error.
//
// # Basic Usage
//
//	b, err := bridge.New(bridge.Options{Dialer: comhost.Dialer{}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res := b.Execute(ctx, bridge.Request{
//	    Script:    "__result = app.activeDocument.pages.length;",
//	    UndoLabel: "Agent: Count pages",
//	    UndoMode:  bridge.UndoNone,
//	})
//	if res.OK() {
//	    fmt.Println(res.Value)
//	}
//
// # Connection lifecycle
//
// The bridge owns exactly one cached connection handle. Every call starts
// with a cheap liveness probe; a failed probe or a connection-loss fault
// clears the cache so the next call re-acquires. A call that fails is
// reported as failed; the bridge never silently retries inside a call
// that may have partially mutated host state.
//
// # Limitations
//
// The underlying DoScript call blocks the invoking goroutine until the
// script engine finishes. There is no safe way to abort a running script
// short of killing the host process, which is unacceptable when it may
// hold unsaved documents. The bridge instead measures wall-clock time and
// logs a warning when a call exceeds the configured threshold.
package bridge
