package jsx

import (
	_ "embed"
)

// ResultVar is the well-known variable user code assigns its return value
// to. Code that never assigns it yields {"success": true, "result": null}.
const ResultVar = "__result"

// polyfill carries the DOM-aware serialisation routine (__safeStringify)
// that the envelope calls to transport results. It is shipped as an opaque
// ExtendScript asset; the Go side only prepends it and consumes its output.
//
//go:embed polyfill.jsx
var polyfill string

// The envelope runs user code inside an IIFE so envelope-internal variables
// (__result, __uilevel) live in their own scope. userInteractionLevel is
// forced to neverInteract for the duration of the call and restored on
// every exit path, including thrown errors, so a script that starts can
// never hang on a modal dialog.
const (
	envelopeHead = `(function() {
var __result;
var __uilevel = app.scriptPreferences.userInteractionLevel;
app.scriptPreferences.userInteractionLevel = UserInteractionLevels.neverInteract;
try {
`

	envelopeTail = `
app.scriptPreferences.userInteractionLevel = __uilevel;
if (typeof __result === 'undefined') {
    return __safeStringify({success: true, result: null});
}
try {
    return __safeStringify({success: true, result: __result});
} catch(jsonErr) {
    return __safeStringify({success: true, result: String(__result)});
}
} catch(e) {
try { app.scriptPreferences.userInteractionLevel = __uilevel; } catch(x) {}
return __safeStringify({
    success: false,
    error: e.message || String(e),
    name: e.name || 'Error',
    line: typeof e.line === 'number' ? e.line : -1
});
}
})();
`
)

// Wrap builds the full safety envelope around user code.
//
// The user code is inlined once, directly between the envelope's guard
// prologue and serialisation epilogue. If serialising __result throws
// (self-referential or otherwise unrepresentable values), the envelope
// degrades to String(__result) rather than failing the call: the user's
// script succeeded, only the transport representation did not.
func Wrap(userCode string) string {
	return polyfill + "\n" + envelopeHead + userCode + envelopeTail
}
