package features

import (
	"encoding/json"
	"fmt"
)

// Scalar is a float feature value that may be undefined. It marshals to
// JSON null when undefined, which is what the presentation layer renders
// as a blank metric.
type Scalar struct {
	Value   float64
	Defined bool
}

// Of returns a defined scalar
func Of(v float64) Scalar {
	return Scalar{Value: v, Defined: true}
}

// Undefined returns the undefined sentinel
func Undefined() Scalar {
	return Scalar{}
}

// String renders the scalar for logs
func (s Scalar) String() string {
	if !s.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%g", s.Value)
}

// MarshalJSON implements json.Marshaler
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Scalar{}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Scalar{Value: v, Defined: true}
	return nil
}
