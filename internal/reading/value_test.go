package reading

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValueFromRaw(t *testing.T) {
	tests := []struct {
		name        string
		raw         any
		wantNumeric bool
		wantNumber  float64
		wantText    string
	}{
		{name: "float64 stays numeric", raw: 28.5, wantNumeric: true, wantNumber: 28.5},
		{name: "int32 stays numeric", raw: int32(7), wantNumeric: true, wantNumber: 7},
		{name: "int64 stays numeric", raw: int64(-3), wantNumeric: true, wantNumber: -3},
		{name: "numeric string converts", raw: "28.5", wantNumeric: true, wantNumber: 28.5},
		{name: "integer string converts", raw: "5", wantNumeric: true, wantNumber: 5},
		{name: "non-numeric string stays text", raw: "high", wantText: "high"},
		{name: "nil coerces to empty text", raw: nil, wantText: ""},
		{name: "bool falls back to printed form", raw: true, wantText: "true"},
		{name: "NaN string stays text", raw: "NaN", wantText: "NaN"},
		{name: "Inf string stays text", raw: "Inf", wantText: "Inf"},
		{name: "signed infinity string stays text", raw: "+Inf", wantText: "+Inf"},
		{name: "NaN double falls back to printed form", raw: math.NaN(), wantText: "NaN"},
		{name: "infinite double falls back to printed form", raw: math.Inf(-1), wantText: "-Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueFromRaw(tt.raw)
			if v.IsNumeric() != tt.wantNumeric {
				t.Fatalf("IsNumeric() = %v, want %v", v.IsNumeric(), tt.wantNumeric)
			}
			if tt.wantNumeric && v.Number() != tt.wantNumber {
				t.Errorf("Number() = %v, want %v", v.Number(), tt.wantNumber)
			}
			if !tt.wantNumeric && v.Text() != tt.wantText {
				t.Errorf("Text() = %q, want %q", v.Text(), tt.wantText)
			}
		})
	}
}

// Every coerced value must serialise. A stored raw "NaN" must never become
// a numeric variant that json.Marshal rejects, which would truncate a list
// response mid-stream.
func TestValueFromRaw_AlwaysMarshals(t *testing.T) {
	for _, raw := range []any{"NaN", "Inf", "+Inf", "-Inf", math.NaN(), math.Inf(1)} {
		data, err := json.Marshal(ValueFromRaw(raw))
		if err != nil {
			t.Errorf("Marshal(ValueFromRaw(%v)) error = %v", raw, err)
			continue
		}
		if len(data) == 0 || data[0] != '"' {
			t.Errorf("ValueFromRaw(%v) marshalled as %s, want a JSON string", raw, data)
		}
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "numeric marshals as number", value: NumericValue(28.5), want: "28.5"},
		{name: "text marshals as string", value: TextValue("high"), want: `"high"`},
		{name: "empty text marshals as empty string", value: TextValue(""), want: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}
		})
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		wantNumeric bool
		wantNumber  float64
		wantText    string
	}{
		{name: "number", input: `28.5`, wantNumeric: true, wantNumber: 28.5},
		{name: "numeric string", input: `"28.5"`, wantNumeric: true, wantNumber: 28.5},
		{name: "text string", input: `"high"`, wantText: "high"},
		{name: "NaN string stays text", input: `"NaN"`, wantText: "NaN"},
		{name: "infinity string stays text", input: `"+Inf"`, wantText: "+Inf"},
		{name: "null becomes empty text", input: `null`, wantText: ""},
		{name: "object rejected", input: `{"v": 1}`, wantErr: true},
		{name: "array rejected", input: `[1]`, wantErr: true},
		{name: "bool rejected", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			err := json.Unmarshal([]byte(tt.input), &v)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Unmarshal() = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if v.IsNumeric() != tt.wantNumeric {
				t.Fatalf("IsNumeric() = %v, want %v", v.IsNumeric(), tt.wantNumeric)
			}
			if tt.wantNumeric && v.Number() != tt.wantNumber {
				t.Errorf("Number() = %v, want %v", v.Number(), tt.wantNumber)
			}
			if !tt.wantNumeric && v.Text() != tt.wantText {
				t.Errorf("Text() = %q, want %q", v.Text(), tt.wantText)
			}
		})
	}
}

// Numeric round-trip: a value created as 28.5 must come back as the JSON
// number 28.5, never the string "28.5".
func TestValue_NumericRoundTrip(t *testing.T) {
	data, err := json.Marshal(NumericValue(28.5))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !v.IsNumeric() || v.Number() != 28.5 {
		t.Errorf("round-trip = %+v, want numeric 28.5", v)
	}
}
