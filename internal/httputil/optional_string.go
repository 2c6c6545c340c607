package httputil

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNullField is returned by OptionalString.Ptr for an explicit JSON null
var ErrNullField = errors.New("field cannot be null")

// OptionalString tracks presence and value for partial updates.
// Go's *string cannot tell an absent field from an explicit null:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null
//   - Present=true, Value=&"...": field has a value (possibly empty)
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Ptr converts to the *string convention used by services: nil when absent.
// An explicit null is rejected with ErrNullField.
func (o OptionalString) Ptr() (*string, error) {
	if !o.Present {
		return nil, nil
	}
	if o.Value == nil {
		return nil, ErrNullField
	}
	return o.Value, nil
}
