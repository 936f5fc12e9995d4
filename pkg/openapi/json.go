package openapi

import (
	"encoding/json"
	"os"
)

// MarshalJSON renders the document as indented JSON.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// WriteJSON writes the rendered document to filename.
func WriteJSON(spec *Spec, filename string) error {
	data, err := MarshalJSON(spec)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}
