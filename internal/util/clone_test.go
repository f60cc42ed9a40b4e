package util

import (
	"reflect"
	"testing"
)

func TestCloneValue_NestedMap(t *testing.T) {
	original := map[string]any{
		"type": "text",
		"props": map[string]any{
			"content": "REDUX",
			"weights": []any{400.0, 700.0},
		},
	}

	cloned := CloneMap(original)

	if !reflect.DeepEqual(original, cloned) {
		t.Fatalf("clone differs from original: %v vs %v", cloned, original)
	}

	// Mutating the clone must not affect the original
	cloned["type"] = "image"
	cloned["props"].(map[string]any)["content"] = "changed"
	cloned["props"].(map[string]any)["weights"].([]any)[0] = 100.0

	if original["type"] != "text" {
		t.Error("original top-level value mutated")
	}
	if original["props"].(map[string]any)["content"] != "REDUX" {
		t.Error("original nested map mutated")
	}
	if original["props"].(map[string]any)["weights"].([]any)[0] != 400.0 {
		t.Error("original nested slice mutated")
	}
}

func TestCloneValue_Scalars(t *testing.T) {
	for _, v := range []any{"s", 42, 3.14, true, nil} {
		if got := CloneValue(v); got != v {
			t.Errorf("CloneValue(%v) = %v", v, got)
		}
	}
}

func TestCloneValue_ByteSlice(t *testing.T) {
	b := []byte("abc")
	c := CloneValue(b).([]byte)
	c[0] = 'X'
	if b[0] != 'a' {
		t.Error("original byte slice mutated")
	}
}

func TestCloneMap_Nil(t *testing.T) {
	if CloneMap(nil) != nil {
		t.Error("CloneMap(nil) should be nil")
	}
}
