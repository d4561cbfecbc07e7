package helpers

import (
	"encoding/json"
	"io"
)

// WriteJSON encodes v to w on a single line without HTML escaping.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
