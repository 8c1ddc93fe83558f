package bridge

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecodeResult_SuccessPayload(t *testing.T) {
	res := decodeResult(`{"success": true, "result": {"pages": 4, "name": "doc.indd"}}`)

	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	want := map[string]any{"pages": float64(4), "name": "doc.indd"}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %#v, want %#v", res.Value, want)
	}
	if !res.OK() {
		t.Error("OK() = false for a success payload")
	}
}

func TestDecodeResult_SuccessWithNullResult(t *testing.T) {
	res := decodeResult(`{"success": true, "result": null}`)
	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	if res.Value != nil {
		t.Errorf("Value = %#v, want nil", res.Value)
	}
}

func TestDecodeResult_FailurePayload(t *testing.T) {
	res := decodeResult(`{"success": false, "error": "myDoc is undefined", "name": "ReferenceError", "line": 3}`)

	var scriptErr *ScriptError
	if !errors.As(res.Err, &scriptErr) {
		t.Fatalf("Err = %v (%T), want *ScriptError", res.Err, res.Err)
	}
	if scriptErr.Message != "myDoc is undefined" {
		t.Errorf("Message = %q", scriptErr.Message)
	}
	if scriptErr.Name != "ReferenceError" {
		t.Errorf("Name = %q, want ReferenceError", scriptErr.Name)
	}
	if scriptErr.Line != 3 {
		t.Errorf("Line = %d, want 3", scriptErr.Line)
	}
	if res.OK() {
		t.Error("OK() = true for a failure payload")
	}
}

func TestDecodeResult_FailureDefaults(t *testing.T) {
	res := decodeResult(`{"success": false, "error": "boom"}`)

	var scriptErr *ScriptError
	if !errors.As(res.Err, &scriptErr) {
		t.Fatalf("Err = %v, want *ScriptError", res.Err)
	}
	if scriptErr.Name != "Error" {
		t.Errorf("Name = %q, want default Error", scriptErr.Name)
	}
	if scriptErr.Line != -1 {
		t.Errorf("Line = %d, want default -1", scriptErr.Line)
	}
}

func TestDecodeResult_NonJSONString(t *testing.T) {
	// The envelope degrades to String(__result) when stringification
	// itself blows up; that raw text must pass through untouched.
	res := decodeResult("[object Document]")
	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	if res.Value != "[object Document]" {
		t.Errorf("Value = %#v, want the raw text", res.Value)
	}
}

func TestDecodeResult_JSONWithoutEnvelope(t *testing.T) {
	// Valid JSON that is not the envelope contract decodes as plain data.
	res := decodeResult(`{"pages": 4}`)
	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	want := map[string]any{"pages": float64(4)}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %#v, want %#v", res.Value, want)
	}
}

func TestDecodeResult_NonMapJSON(t *testing.T) {
	res := decodeResult(`[1, 2, 3]`)
	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	want := []any{float64(1), float64(2), float64(3)}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %#v, want %#v", res.Value, want)
	}
}

func TestDecodeResult_NonStringRaw(t *testing.T) {
	res := decodeResult(int32(42))
	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	if res.Value != int32(42) {
		t.Errorf("Value = %#v, want int32(42)", res.Value)
	}
}

func TestDecodeResult_NilRaw(t *testing.T) {
	res := decodeResult(nil)
	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	if res.Value != nil {
		t.Errorf("Value = %#v, want nil", res.Value)
	}
}

func TestDecodeResult_NonBoolSuccessKey(t *testing.T) {
	// A "success" key that is not a bool is user data, not the envelope.
	res := decodeResult(`{"success": "yes"}`)
	if res.Err != nil {
		t.Fatalf("Err = %v, want nil", res.Err)
	}
	want := map[string]any{"success": "yes"}
	if !reflect.DeepEqual(res.Value, want) {
		t.Errorf("Value = %#v, want %#v", res.Value, want)
	}
}
