package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/jsxbridge/bridge"
)

// fmtJSON renders a value as indented JSON without HTML escaping, so
// JSX snippets and type signatures stay readable in tool output.
func fmtJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf(`{"success": false, "error": %q}`, err.Error())
	}
	// Encode appends a trailing newline.
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	return textResult(fmtJSON(v))
}

// failure renders a plain error payload.
func failure(err error) *mcp.CallToolResult {
	return jsonResult(map[string]any{"success": false, "error": err.Error()})
}

// resultPayload converts a bridge result into the JSON payload contract
// agents see: success/result on the happy path, the script error fields
// otherwise, and the COM shape for transport faults. Elapsed time rides
// along as an informational field.
func resultPayload(res bridge.Result) map[string]any {
	payload := map[string]any{}

	var scriptErr *bridge.ScriptError
	var transportErr *bridge.TransportError
	switch {
	case res.Err == nil:
		payload["success"] = true
		payload["result"] = res.Value
	case errors.As(res.Err, &scriptErr):
		payload["success"] = false
		payload["error"] = scriptErr.Message
		payload["name"] = scriptErr.Name
		payload["line"] = scriptErr.Line
	case errors.As(res.Err, &transportErr):
		payload["success"] = false
		payload["error"] = transportErr.Description
		payload["name"] = "COMError"
		payload["line"] = -1
		payload["source"] = transportErr.Source()
	default:
		payload["success"] = false
		payload["error"] = res.Err.Error()
	}

	if res.Elapsed > 0 {
		payload["_elapsed_s"] = float64(res.Elapsed.Round(10_000_000)) / 1e9
	}
	return payload
}

// unwrapPayload flattens {success: true, result: {…}} by merging the
// result object's keys into the top level. Non-object results keep the
// nested shape.
func unwrapPayload(payload map[string]any) map[string]any {
	success, _ := payload["success"].(bool)
	inner, isObject := payload["result"].(map[string]any)
	if !success || !isObject {
		return payload
	}

	flat := map[string]any{"success": true}
	for k, v := range inner {
		flat[k] = v
	}
	for k, v := range payload {
		if k != "success" && k != "result" {
			flat[k] = v
		}
	}
	return flat
}

// single collapses one-element slices so the common single-source case
// reads as an object instead of a list.
func single[T any](items []T) any {
	if len(items) == 1 {
		return items[0]
	}
	return items
}
