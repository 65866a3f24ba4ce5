package jsonutil

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFlexibleNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   json.RawMessage
		want    float64
		wantErr error
	}{
		{name: "integer", input: json.RawMessage(`42`), want: 42},
		{name: "float", input: json.RawMessage(`3.5`), want: 3.5},
		{name: "negative", input: json.RawMessage(`-1`), want: -1},
		{name: "numeric string", input: json.RawMessage(`"120"`), want: 120},
		{name: "padded numeric string", input: json.RawMessage(`" 7.0 "`), want: 7},
		{name: "boolean true", input: json.RawMessage(`true`), want: 1},
		{name: "boolean false", input: json.RawMessage(`false`), want: 0},
		{name: "empty", input: nil, wantErr: ErrMissing},
		{name: "null", input: json.RawMessage(`null`), wantErr: ErrMissing},
		{name: "blank string", input: json.RawMessage(`"  "`), wantErr: ErrMissing},
		{name: "word", input: json.RawMessage(`"ten"`), wantErr: ErrNotNumber},
		{name: "nan string", input: json.RawMessage(`"NaN"`), wantErr: ErrNotNumber},
		{name: "infinity string", input: json.RawMessage(`"Inf"`), wantErr: ErrNotNumber},
		{name: "array", input: json.RawMessage(`[1]`), wantErr: ErrNotNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FlexibleNumber(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FlexibleNumber(%s) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FlexibleNumber(%s) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("FlexibleNumber(%s) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
