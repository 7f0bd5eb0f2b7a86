package jsonrpc

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mnehpets/jsonrpcd/endpoint"
)

// JSONRPCEndpoint serves JSON-RPC batches over HTTP.
// Use endpoint.Handler(e.Endpoint, processors...) or e.Handler to create an
// http.Handler.
type JSONRPCEndpoint struct {
	registry *Registry
	executor *Executor
}

// NewEndpoint creates an endpoint dispatching to registry on workers
// concurrent partitions per batch.
func NewEndpoint(registry *Registry, workers int) (*JSONRPCEndpoint, error) {
	x, err := NewExecutor(workers, registry)
	if err != nil {
		return nil, err
	}
	return &JSONRPCEndpoint{registry: registry, executor: x}, nil
}

// Registry returns the method registry the endpoint dispatches to.
func (e *JSONRPCEndpoint) Registry() *Registry {
	return e.registry
}

// Handler wraps the endpoint with the given processors.
func (e *JSONRPCEndpoint) Handler(processors ...endpoint.Processor) http.Handler {
	return endpoint.Handler(e.Endpoint, processors...)
}

// rpcParams captures the raw request body. Parsing is deferred to the codec
// selected by Content-Type. The size limit is enforced by a processor.
type rpcParams struct {
	ContentType string `header:"Content-Type"`
	Body        []byte `body:"" maxLength:"0"`
}

// MethodNotAllowed returns the empty-bodied 405 reply to every verb but POST.
func MethodNotAllowed(w http.ResponseWriter) endpoint.Renderer {
	w.Header().Set("Allow", http.MethodPost)
	return &endpoint.NoContentRenderer{Status: http.StatusMethodNotAllowed}
}

// Endpoint is the endpoint function that processes JSON-RPC batches.
// Pass to endpoint.Handler() to create an http.Handler.
//
// The verb is checked before anything is read from the request, so a non-POST
// request is answered with 405 whatever its headers and body. Other transport
// failures (unsupported media type, a body that is not an array) are answered
// with a plain HTTP error and never reach the engine.
func (e *JSONRPCEndpoint) Endpoint(w http.ResponseWriter, r *http.Request, _ struct{}) (endpoint.Renderer, error) {
	if r.Method != http.MethodPost {
		return MethodNotAllowed(w), nil
	}

	var params rpcParams
	if err := endpoint.Unmarshal(r, &params); err != nil {
		return nil, err
	}

	c, ok := codecFor(params.ContentType)
	if !ok {
		return nil, endpoint.Error(http.StatusUnsupportedMediaType, "Content-Type must be application/json or application/cbor", nil)
	}

	batch, err := c.DecodeBatch(params.Body)
	if err != nil {
		return nil, endpoint.Error(http.StatusBadRequest, "request body must be an array of JSON-RPC requests", err)
	}

	responses := e.executor.Execute(r.Context(), batch)
	status, body := Assemble(responses)

	zerolog.Ctx(r.Context()).Debug().
		Int("batch", len(batch)).
		Int("workers", e.executor.Workers()).
		Int("status", status).
		Msg("jsonrpc: batch served")

	return c.Renderer(status, body), nil
}
