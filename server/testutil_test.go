package server

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/jsxbridge/bridge"
)

// fakeRunner is a scripted Runner. Execute consumes results in order
// (repeating the last one) and records every request; Evaluate answers
// from evalValues keyed by expression.
type fakeRunner struct {
	mu sync.Mutex

	results  []bridge.Result
	requests []bridge.Request

	evalValues map[string]string
	evalErr    error
	evals      []string
}

func (f *fakeRunner) Execute(ctx context.Context, req bridge.Request) bridge.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if len(f.results) == 0 {
		return bridge.Result{}
	}
	res := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return res
}

func (f *fakeRunner) Evaluate(ctx context.Context, expression string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evals = append(f.evals, expression)
	if f.evalErr != nil {
		return "", f.evalErr
	}
	return f.evalValues[expression], nil
}

func (f *fakeRunner) lastRequest(t *testing.T) bridge.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no Execute request recorded")
	}
	return f.requests[len(f.requests)-1]
}

// documentOpen scripts the preflight document check to succeed.
func documentOpen(f *fakeRunner) *fakeRunner {
	if f.evalValues == nil {
		f.evalValues = map[string]string{}
	}
	f.evalValues["app.documents.length"] = "1"
	return f
}

func contentText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want *mcp.TextContent", res.Content[0])
	}
	return text.Text
}

func decodePayload(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(contentText(t, res)), &payload); err != nil {
		t.Fatalf("decoding tool payload: %v\npayload: %s", err, contentText(t, res))
	}
	return payload
}
