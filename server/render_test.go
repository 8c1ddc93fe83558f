package server

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/jsxbridge/bridge"
)

func TestResultPayloadSuccess(t *testing.T) {
	payload := resultPayload(bridge.Result{Value: map[string]any{"pages": 4.0}, Elapsed: 1234 * time.Millisecond})
	if payload["success"] != true {
		t.Fatalf("success = %v, want true", payload["success"])
	}
	if !reflect.DeepEqual(payload["result"], map[string]any{"pages": 4.0}) {
		t.Errorf("result = %v", payload["result"])
	}
	if payload["_elapsed_s"] != 1.23 {
		t.Errorf("_elapsed_s = %v, want 1.23", payload["_elapsed_s"])
	}
}

func TestResultPayloadNoElapsed(t *testing.T) {
	payload := resultPayload(bridge.Result{Value: nil})
	if _, ok := payload["_elapsed_s"]; ok {
		t.Error("_elapsed_s present for a zero elapsed time")
	}
}

func TestResultPayloadErrors(t *testing.T) {
	tests := []struct {
		name string
		res  bridge.Result
		want map[string]any
	}{
		{
			name: "script error",
			res:  bridge.Result{Err: &bridge.ScriptError{Message: "bad", Name: "SyntaxError", Line: 9}},
			want: map[string]any{"success": false, "error": "bad", "name": "SyntaxError", "line": 9},
		},
		{
			name: "transport error",
			res:  bridge.Result{Err: &bridge.TransportError{Code: -2147023174, Description: "RPC unavailable"}},
			want: map[string]any{"success": false, "error": "RPC unavailable", "name": "COMError", "line": -1, "source": "COM/DoScript"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resultPayload(tt.res); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resultPayload() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultPayloadGenericError(t *testing.T) {
	payload := resultPayload(bridge.Result{Err: &bridge.ConnectionError{ProgIDs: []string{"InDesign.Application"}}})
	if payload["success"] != false {
		t.Fatalf("success = %v, want false", payload["success"])
	}
	if _, ok := payload["name"]; ok {
		t.Error("generic errors should not carry a script error name")
	}
}

func TestUnwrapPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    map[string]any
	}{
		{
			name:    "flattens object result",
			payload: map[string]any{"success": true, "result": map[string]any{"a": 1}, "_elapsed_s": 0.5},
			want:    map[string]any{"success": true, "a": 1, "_elapsed_s": 0.5},
		},
		{
			name:    "scalar result untouched",
			payload: map[string]any{"success": true, "result": 7},
			want:    map[string]any{"success": true, "result": 7},
		},
		{
			name:    "failure untouched",
			payload: map[string]any{"success": false, "error": "bad", "result": map[string]any{"a": 1}},
			want:    map[string]any{"success": false, "error": "bad", "result": map[string]any{"a": 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unwrapPayload(tt.payload); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("unwrapPayload() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSingle(t *testing.T) {
	if got := single([]int{7}); got != 7 {
		t.Errorf("single(one) = %v, want the element", got)
	}
	if got := single([]int{1, 2}); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("single(two) = %v, want the slice", got)
	}
	if got := single([]int{}); !reflect.DeepEqual(got, []int{}) {
		t.Errorf("single(empty) = %v, want the empty slice", got)
	}
}

func TestFmtJSONKeepsAngleBrackets(t *testing.T) {
	out := fmtJSON(map[string]any{"sig": "(to: File) -> bool"})
	if strings.Contains(out, `>`) {
		t.Errorf("fmtJSON escaped HTML: %s", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("fmtJSON output ends with a newline")
	}
}
