package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ActivityRecord is one raw record returned by the activity data API
type ActivityRecord struct {
	ReturnType   *string        `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Assets       *NumericString `json:"assets,omitempty" yaml:"assets,omitempty"`
	Shares       *NumericString `json:"shares,omitempty" yaml:"shares,omitempty"`
	Status       *string        `json:"status,omitempty" yaml:"status,omitempty"`
	Timestamp    string         `json:"timestamp" yaml:"timestamp"`
	TxHash       string         `json:"tx_hash" yaml:"tx_hash"`
	Block        NumericString  `json:"block" yaml:"block"`
	SourceTable  *string        `json:"source_table,omitempty" yaml:"source_table,omitempty"`
	TransferType *string        `json:"transfer_type,omitempty" yaml:"transfer_type,omitempty"`
}

// NumericString holds an integer that the API may encode as a JSON number or string.
// Base-unit amounts exceed float64 precision, so the digits are kept verbatim.
type NumericString string

// UnmarshalJSON accepts 123, "123" and null
func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumericString(num.String())
	return nil
}

// MarshalJSON encodes integer values as JSON numbers
func (n NumericString) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

func (n NumericString) String() string {
	return string(n)
}

// Ptr returns a pointer to v, for building optional record fields
func Ptr[T any](v T) *T {
	return &v
}
