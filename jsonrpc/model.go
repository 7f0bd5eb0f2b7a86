package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Version is the only protocol version accepted and emitted.
const Version = "2.0"

const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeServerError    = -32000
)

var standardMessages = map[int]string{
	CodeParseError:     "Parse error",
	CodeInvalidRequest: "Invalid Request",
	CodeMethodNotFound: "Method not found",
	CodeInvalidParams:  "Invalid params",
	CodeInternalError:  "Internal error",
	CodeServerError:    "Server error",
}

// Error is a JSON-RPC error object. It also satisfies the error interface so
// that method implementations can return it directly.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if e == nil {
		return "jsonrpc: <nil>"
	}
	return e.Message
}

// WithData returns a copy of e carrying data.
func (e *Error) WithData(data any) *Error {
	cp := *e
	cp.Data = data
	return &cp
}

func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// ErrorFor returns the error for a reserved code with its standard message.
// Codes without a standard message use the server error message.
func ErrorFor(code int, data any) *Error {
	msg, ok := standardMessages[code]
	if !ok {
		msg = standardMessages[CodeServerError]
	}
	return &Error{Code: code, Message: msg, Data: data}
}

// Request is a single decoded JSON-RPC call. It is not modified after decoding.
//
// ID holds the raw JSON of the "id" member so that its type can be validated
// and echoed back verbatim; a missing id is equivalent to null.
type Request struct {
	Version string
	ID      json.RawMessage
	Method  string
	Params  json.RawMessage
}

var errNotObject = errors.New("jsonrpc: request is not a JSON object")

// UnmarshalJSON decodes a request object. Mistyped "jsonrpc" or "method"
// members decode to the empty string so that the request is rejected by
// validation or dispatch instead of failing the whole batch.
func (r *Request) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return errNotObject
	}
	var env struct {
		JSONRPC json.RawMessage `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  json.RawMessage `json:"method"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	*r = Request{
		Version: stringMember(env.JSONRPC),
		ID:      env.ID,
		Method:  stringMember(env.Method),
		Params:  env.Params,
	}
	return nil
}

// MarshalJSON encodes the request envelope. Used by clients and tests.
func (r Request) MarshalJSON() ([]byte, error) {
	env := struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}{r.Version, r.ID, r.Method, r.Params}
	return json.Marshal(env)
}

func stringMember(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Response is a JSON-RPC response object. A finalized response carries
// exactly one of Result and Error.
type Response struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResponse returns an empty response bound to id.
func NewResponse(id json.RawMessage) Response {
	return Response{Version: Version, ID: id}
}

// SetResult encodes v as the result. A json.RawMessage is used as is.
func (r *Response) SetResult(v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		if raw == nil {
			raw = json.RawMessage("null")
		}
		r.Result = raw
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.Result = b
	return nil
}

// SetError records err. An *Error keeps its code; any other error becomes an
// internal error carrying its message.
func (r *Response) SetError(err error) {
	var rpcErr *Error
	if errors.As(err, &rpcErr) && rpcErr != nil {
		r.Error = rpcErr
		return
	}
	r.Error = &Error{Code: CodeInternalError, Message: err.Error()}
}

// Finalized reports whether exactly one of Result and Error is set.
func (r *Response) Finalized() bool {
	return (r.Result != nil) != (r.Error != nil)
}
