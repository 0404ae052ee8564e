package core

import (
	"encoding/json"

	"homagio/pkg/domain"
)

// EncodeDataset serializes the dataset to its transport string.
func EncodeDataset(ds Dataset) (string, error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeValue is the tolerant half of the codec: it parses raw into a loose
// JSON value and reports failure instead of propagating it. Malformed input
// degrades to the migration default rather than an error.
func decodeValue(raw string) (any, bool) {
	if raw == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	return v, true
}

// strictDecodeValue parses raw and surfaces a ParseError on malformed input.
// Import uses this path; load never does.
func strictDecodeValue(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, domain.ParseError{Err: err}
	}
	return v, nil
}
