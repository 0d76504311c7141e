package reading

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is a sensor measurement: numeric when representable, textual
// otherwise. The textual variant is a first-class state, not an error: a
// reading whose raw value is "high" is valid and round-trips as "high".
type Value struct {
	number  float64
	text    string
	numeric bool
}

// NumericValue returns the numeric variant holding n.
func NumericValue(n float64) Value {
	return Value{number: n, numeric: true}
}

// TextValue returns the textual variant holding s.
func TextValue(s string) Value {
	return Value{text: s}
}

// IsNumeric reports whether the value holds a number.
func (v Value) IsNumeric() bool {
	return v.numeric
}

// Number returns the numeric value, or 0 for the textual variant.
func (v Value) Number() float64 {
	return v.number
}

// Text returns the textual value, or "" for the numeric variant.
func (v Value) Text() string {
	return v.text
}

// Native returns the value in its storage representation:
// float64 for the numeric variant, string for the textual one.
func (v Value) Native() any {
	if v.numeric {
		return v.number
	}
	return v.text
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	}
	return v.text
}

// ValueFromRaw coerces a raw stored value into a Value.
//
// Numeric kinds stay numeric. Strings parsing as a float become numeric;
// other strings stay textual. A nil or absent value becomes the empty
// textual variant (documented policy for unrepresentable values). Any other
// kind falls back to its printed string form.
func ValueFromRaw(raw any) Value {
	switch value := raw.(type) {
	case nil:
		return TextValue("")
	case float64:
		return numericOrText(value)
	case float32:
		return numericOrText(float64(value))
	case int:
		return NumericValue(float64(value))
	case int32:
		return NumericValue(float64(value))
	case int64:
		return NumericValue(float64(value))
	case string:
		// ParseFloat accepts "NaN" and "Inf" spellings, but neither is
		// representable in JSON, so non-finite parses stay textual.
		if n, err := strconv.ParseFloat(value, 64); err == nil && isFinite(n) {
			return NumericValue(n)
		}
		return TextValue(value)
	default:
		return TextValue(fmt.Sprint(value))
	}
}

// numericOrText keeps finite doubles numeric. NaN and the infinities have
// no JSON number representation and fall back to their printed form.
func numericOrText(n float64) Value {
	if !isFinite(n) {
		return TextValue(fmt.Sprint(n))
	}
	return NumericValue(n)
}

// isFinite reports whether n is representable as a JSON number.
func isFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// MarshalJSON emits a JSON number for the numeric variant and a JSON string
// for the textual one.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// UnmarshalJSON accepts a JSON number, a JSON string (converted to numeric
// when it parses as a float), or null (empty textual variant). Any other
// JSON shape is a validation error.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: value: %w", ErrInvalidReading, err)
	}

	switch raw.(type) {
	case nil, float64, string:
		*v = ValueFromRaw(raw)
		return nil
	default:
		return fmt.Errorf("%w: value must be a number or string", ErrInvalidReading)
	}
}
