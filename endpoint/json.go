package endpoint

import (
	"encoding/json"
	"net/http"
)

// JSONRenderer serializes a value as JSON and writes it to the response.
//
// Content-Type is always set to "application/json". Status defaults to 200.
// HTML escaping is disabled and json.Encoder appends a trailing newline.
//
// If encoding fails the status has already been written; callers should treat
// the returned error as a best-effort signal.
type JSONRenderer struct {
	Status int
	Value  any
}

func (jr *JSONRenderer) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json")

	status := jr.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(jr.Value)
}
