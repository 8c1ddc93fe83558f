package jsx

import "strings"

// ErrorPrefix marks an evaluation result that came from a thrown error
// rather than a value. Callers of the eval path check for it with
// strings.HasPrefix since the lightweight wrapper has no JSON contract.
const ErrorPrefix = "ERROR: "

// The eval wrapper deliberately skips the full envelope: no polyfill, no
// interaction guard, no undo parameters. It exists for cheap read-only
// probes where building the undo-aware envelope is wasteful.
const evalTemplate = `(function() {
    try {
        var __r = $EXPRESSION$;
        if (typeof __r === 'undefined') return 'undefined';
        if (__r === null) return 'null';
        return String(__r);
    } catch(e) {
        return 'ERROR: ' + (e.message || String(e));
    }
})();
`

// Eval builds the minimal expression wrapper. The result is always a
// string: the value's String() form, the literals "undefined" / "null",
// or an ErrorPrefix-marked message when the expression throws.
func Eval(expression string) string {
	return strings.Replace(evalTemplate, "$EXPRESSION$", expression, 1)
}
