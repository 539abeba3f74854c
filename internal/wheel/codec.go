package wheel

import (
	"encoding/json"
	"fmt"
)

// EncodeOptions serializes the set as a JSON array of {label, weight}.
func EncodeOptions(set OptionSet) ([]byte, error) {
	if set == nil {
		set = OptionSet{}
	}
	return json.Marshal(set)
}

// DecodeOptions parses what EncodeOptions wrote. A null document or any
// weight below 1 counts as malformed.
func DecodeOptions(b []byte) (OptionSet, error) {
	var set OptionSet
	if err := json.Unmarshal(b, &set); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	if set == nil {
		return nil, fmt.Errorf("decode options: null document")
	}
	if err := ValidateOptions(set); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return set, nil
}
