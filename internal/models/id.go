// Package models defines the data shapes exchanged with the events backend.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidID is returned when an identifier is neither a JSON string nor a number.
var ErrInvalidID = errors.New("id must be a string or a number")

// ID identifies an event. The backend emits both string and numeric ids
// depending on the endpoint, so decoding accepts either.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, data)
	}

	*id = ID(n.String())

	return nil
}

func (id ID) String() string {
	return string(id)
}
