package jsonrpc

import "net/http"

// statusByCode is the HTTP status used for a lone response carrying the code.
var statusByCode = map[int]int{
	CodeParseError:     http.StatusInternalServerError,
	CodeInvalidRequest: http.StatusBadRequest,
	CodeMethodNotFound: http.StatusNotFound,
	CodeInvalidParams:  http.StatusInternalServerError,
	CodeInternalError:  http.StatusInternalServerError,
	CodeServerError:    http.StatusInternalServerError,
}

// StatusCode maps the error of a lone response to an HTTP status.
// No error is 200; unmapped codes are 500.
func StatusCode(err *Error) int {
	if err == nil {
		return http.StatusOK
	}
	if status, ok := statusByCode[err.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Assemble chooses the HTTP status and body for a finalized batch.
//
// A batch of exactly one response is sent as a bare object, with the status
// derived from its error. Any other batch, including an empty one, is sent as
// an array with status 200 whatever its entries carry.
func Assemble(responses []Response) (status int, body any) {
	if len(responses) == 1 {
		return StatusCode(responses[0].Error), responses[0]
	}
	if responses == nil {
		responses = []Response{}
	}
	return http.StatusOK, responses
}
