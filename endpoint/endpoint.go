// Package endpoint provides a type-safe abstraction for building HTTP handlers.
//
// The core pattern separates request decoding, business logic and response
// rendering into distinct phases:
//
//  1. Unmarshal: the EndpointHandler decodes the request (body, headers) into a
//     typed parameters struct using struct tags.
//  2. Endpoint: the EndpointFunc receives the decoded parameters and the
//     request, runs the business logic and returns a Renderer. It does not
//     write to the response directly.
//  3. Render: the returned Renderer writes the status code, headers and body.
//
// Processors can be chained as middleware to intercept requests before they
// reach the EndpointFunc.
package endpoint

import (
	"errors"
	"io"
	"net/http"
)

// EndpointError is a client-visible error that maps directly to an HTTP status code.
//
// The handler wrapper uses this to translate returned Go errors into HTTP
// responses.
type EndpointError struct {
	Status int
	// Message is a short, human-readable description suitable for an HTTP error body.
	Message string
	Cause   error
}

func (e *EndpointError) Error() string {
	if e == nil {
		return "endpoint: error: <nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
		if msg == "" {
			msg = "unknown error"
		}
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *EndpointError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Error creates a new EndpointError. An err that already is an EndpointError
// is returned unchanged.
func Error(status int, message string, err error) error {
	var ee *EndpointError
	if errors.As(err, &ee) {
		return err
	}
	return &EndpointError{Status: status, Message: message, Cause: err}
}

// Renderer writes a response into an http.ResponseWriter.
//
// Renderers MUST call w.WriteHeader() and may set Content-Type before doing
// so. A non-nil error reports a failure to write the response; headers may
// already have been sent by then.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Processor is middleware-style logic that runs before the Renderer.
//
// Processors MUST call next(...) unless they intend to short-circuit the
// request, and MUST NOT write the status or body themselves. They may wrap w
// or replace r before passing them on. If a processor returns an error the
// chain stops and the error is rendered by the handler.
type Processor interface {
	Process(w http.ResponseWriter, r *http.Request, next func(w http.ResponseWriter, r *http.Request) error) error
}

// ProcessorFunc adapts a function to a Processor.
type ProcessorFunc func(w http.ResponseWriter, r *http.Request, next func(w http.ResponseWriter, r *http.Request) error) error

func (f ProcessorFunc) Process(w http.ResponseWriter, r *http.Request, next func(w http.ResponseWriter, r *http.Request) error) error {
	return f(w, r, next)
}

// EndpointFunc is the wrapped handler function type.
//
// It receives the response writer, the incoming request and a typed params
// value populated from the request, and returns a Renderer responsible for
// writing the response, or an error.
type EndpointFunc[P any] func(w http.ResponseWriter, r *http.Request, params P) (Renderer, error)

// EndpointHandler is the http.Handler wrapper for an EndpointFunc.
//
// It runs the processors in order, decodes params, calls Endpoint and invokes
// the returned Renderer.
type EndpointHandler[P any] struct {
	Endpoint   EndpointFunc[P]
	Processors []Processor
}

// Handler constructs an EndpointHandler.
//
// This helper exists to enable type inference for the params type P.
func Handler[P any](fn EndpointFunc[P], processors ...Processor) *EndpointHandler[P] {
	return &EndpointHandler[P]{
		Endpoint:   fn,
		Processors: processors,
	}
}

// HandleFunc adapts an EndpointFunc into an http.HandlerFunc.
func HandleFunc[P any](fn EndpointFunc[P], processors ...Processor) http.HandlerFunc {
	return Handler(fn, processors...).ServeHTTP
}

// ServeHTTP implements http.Handler.
func (h *EndpointHandler[P]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Endpoint == nil {
		http.Error(w, "endpoint: nil EndpointFunc", http.StatusInternalServerError)
		return
	}

	// Each processor calls the next one; the last one reaches the endpoint.
	// Errors are written to the writer the failing stage was handed, so that
	// wrapping processors still observe them.
	var run func(i int, w2 http.ResponseWriter, r2 *http.Request) error
	run = func(i int, w2 http.ResponseWriter, r2 *http.Request) error {
		if i < len(h.Processors) {
			if h.Processors[i] == nil {
				return errors.New("endpoint: nil processor")
			}
			return h.Processors[i].Process(w2, r2, func(w3 http.ResponseWriter, r3 *http.Request) error {
				err := run(i+1, w3, r3)
				if err != nil {
					writeError(w3, err)
				}
				return nil
			})
		}

		var params P
		if err := Unmarshal(r2, &params); err != nil {
			return err
		}
		renderer, err := h.Endpoint(w2, r2, params)
		if err != nil {
			return err
		}
		if renderer == nil {
			return errors.New("endpoint: nil renderer")
		}
		if c, ok := renderer.(io.Closer); ok {
			defer c.Close()
		}
		return renderer.Render(w2, r2)
	}

	if err := run(0, w, r); err != nil {
		writeError(w, err)
	}
}

// writeError writes err as a plain-text HTTP error. EndpointErrors keep their
// status; anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := err.Error()

	var ee *EndpointError
	if errors.As(err, &ee) && ee != nil {
		if ee.Status >= 100 {
			status = ee.Status
		}
		message = ee.Message
		if message == "" {
			message = http.StatusText(status)
		}
	}
	http.Error(w, message, status)
}
