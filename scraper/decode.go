package scraper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"redfin-harness/models"
)

// DecodeBatch reads a JSON array of records. Numbers are kept as json.Number
// so the validator can tell integers from floats. Elements are not checked
// here: a null or non-object element is returned as decoded.
func DecodeBatch(r io.Reader) (models.Batch, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode batch: got null, want an array")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode batch: unexpected data after the array")
	}

	return models.Batch(raw), nil
}
