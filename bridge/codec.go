package bridge

import "encoding/json"

// decodeResult maps raw channel output onto the result contract:
//
//   - nil (the host returned nothing) → success with a nil value
//   - text carrying the envelope's JSON contract → that structured value,
//     or a *ScriptError when the envelope reported a thrown error
//   - text that is not the envelope contract → success with the raw text
//     (plain scalar returns from the lightweight paths)
//   - native non-string scalars (numbers, booleans, host arrays) → success
//     with the value unchanged
func decodeResult(raw any) Result {
	text, ok := raw.(string)
	if !ok {
		return Result{Value: raw}
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return Result{Value: text}
	}
	payload, ok := decoded.(map[string]any)
	if !ok {
		return Result{Value: decoded}
	}
	success, ok := payload["success"].(bool)
	if !ok {
		// Parsed JSON object, but not the envelope contract.
		return Result{Value: decoded}
	}

	if success {
		return Result{Value: payload["result"]}
	}

	message, _ := payload["error"].(string)
	name, _ := payload["name"].(string)
	if name == "" {
		name = "Error"
	}
	line := -1
	if f, ok := payload["line"].(float64); ok {
		line = int(f)
	}
	return Result{Err: &ScriptError{Message: message, Name: name, Line: line}}
}
