package features

import (
	"encoding/json"
	"testing"
)

func TestScalarMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Scalar
		want string
	}{
		{"undefined", Undefined(), "null"},
		{"zero is defined", Of(0), "0"},
		{"positive value", Of(132.5), "132.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal() failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestScalarUnmarshalJSON(t *testing.T) {
	var s Scalar
	if err := json.Unmarshal([]byte("null"), &s); err != nil {
		t.Fatalf("Unmarshal(null) failed: %v", err)
	}
	if s.Defined {
		t.Error("null should unmarshal to undefined")
	}

	if err := json.Unmarshal([]byte("42.5"), &s); err != nil {
		t.Fatalf("Unmarshal(42.5) failed: %v", err)
	}
	if !s.Defined || s.Value != 42.5 {
		t.Errorf("Unmarshal(42.5) = %+v, want defined 42.5", s)
	}

	if err := json.Unmarshal([]byte(`"nope"`), &s); err == nil {
		t.Error("Unmarshal(string) expected error, got nil")
	}
}

func TestScalarString(t *testing.T) {
	if got := Undefined().String(); got != "undefined" {
		t.Errorf("Undefined().String() = %q", got)
	}
	if got := Of(120.5).String(); got != "120.5" {
		t.Errorf("Of(120.5).String() = %q", got)
	}
}
