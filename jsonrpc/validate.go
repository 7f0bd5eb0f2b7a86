package jsonrpc

import (
	"bytes"
	"encoding/json"
)

// Validate checks the envelope of req and reports whether it may be
// dispatched. On failure resp carries an invalid request error, and its id is
// cleared when the id itself was the problem.
func Validate(req *Request, resp *Response) bool {
	idOK := validID(req.ID)
	if req.Version == Version && idOK {
		return true
	}
	resp.Error = ErrorFor(CodeInvalidRequest, nil)
	if !idOK {
		resp.ID = nil
	}
	return false
}

// validID reports whether id is a number, a string, null or absent.
func validID(id json.RawMessage) bool {
	id = bytes.TrimSpace(id)
	if len(id) == 0 {
		return true
	}
	switch c := id[0]; {
	case c == '"':
		return json.Valid(id)
	case c == 'n':
		return string(id) == "null"
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		return json.Unmarshal(id, &n) == nil
	default:
		return false
	}
}
