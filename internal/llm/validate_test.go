package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var testSchema = &Schema{
	Name: "validate-test",
	Definition: map[string]any{
		"type":     "object",
		"required": []string{"topic", "score"},
		"properties": map[string]any{
			"topic": map[string]any{"type": "string"},
			"score": map[string]any{
				"type":    "number",
				"minimum": 0,
				"maximum": 100,
			},
		},
		"additionalProperties": false,
	},
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidateResponse_Valid(t *testing.T) {
	raw := json.RawMessage(`{"topic":"algebra","score":72.5}`)
	if err := validateResponse(testSchema, raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateResponse_InvalidJSON(t *testing.T) {
	raw := json.RawMessage(`{"topic":`)
	err := validateResponse(testSchema, raw)
	if err == nil {
		t.Fatal("expected error")
	}
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
	if string(inv.Content) != string(raw) {
		t.Errorf("error should carry original content, got %s", inv.Content)
	}
}

func TestValidateResponse_MissingRequiredField(t *testing.T) {
	raw := json.RawMessage(`{"topic":"algebra"}`)
	err := validateResponse(testSchema, raw)
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
}

func TestValidateResponse_OutOfRange(t *testing.T) {
	raw := json.RawMessage(`{"topic":"algebra","score":150}`)
	if err := validateResponse(testSchema, raw); err == nil {
		t.Fatal("expected error for score above maximum")
	}
}

func TestValidateResponse_WrongType(t *testing.T) {
	raw := json.RawMessage(`{"topic":"algebra","score":"high"}`)
	if err := validateResponse(testSchema, raw); err == nil {
		t.Fatal("expected error for string score")
	}
}

func TestValidateResponse_SchemaCached(t *testing.T) {
	raw := json.RawMessage(`{"topic":"geometry","score":40}`)
	for range 3 {
		if err := validateResponse(testSchema, raw); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, ok := schemaCache.Load(testSchema.Name); !ok {
		t.Error("compiled schema should be cached")
	}
}
