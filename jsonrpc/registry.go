package jsonrpc

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Handler serves one validated request. It receives the in-progress response,
// already bound to the request id, and returns it with exactly one of Result
// or Error set.
type Handler interface {
	ServeRPC(ctx context.Context, req *Request, resp Response) Response
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ctx context.Context, req *Request, resp Response) Response

func (f HandlerFunc) ServeRPC(ctx context.Context, req *Request, resp Response) Response {
	return f(ctx, req, resp)
}

// Dispatcher routes a validated request to its handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *Request, resp Response) Response
}

// Registry maps method names to handlers. Registration normally happens at
// startup; lookups are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Handle registers h under name. It panics if name is empty or already taken.
func (r *Registry) Handle(name string, h Handler) {
	if name == "" {
		panic("jsonrpc: empty method name")
	}
	if h == nil {
		panic("jsonrpc: nil handler for " + name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		panic("jsonrpc: method name collision: " + name)
	}
	r.handlers[name] = h
}

// HandleFunc registers fn under name.
func (r *Registry) HandleFunc(name string, fn func(ctx context.Context, req *Request, resp Response) Response) {
	r.Handle(name, HandlerFunc(fn))
}

// Methods returns the registered method names in sorted order.
func (r *Registry) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Dispatch invokes the handler registered for req.Method.
//
// Unknown methods produce a method not found error. The handler's response is
// then checked: one that carries both or neither of result and error is
// replaced by an invalid request error. The response id and version always
// stay bound to the request.
func (r *Registry) Dispatch(ctx context.Context, req *Request, resp Response) Response {
	h, ok := r.lookup(req.Method)
	if !ok {
		resp.Error = ErrorFor(CodeMethodNotFound, nil)
		return resp
	}

	out := invoke(ctx, h, req, resp)
	out.Version = Version
	out.ID = resp.ID

	if !out.Finalized() {
		zerolog.Ctx(ctx).Warn().
			Str("method", req.Method).
			Bool("has_result", out.Result != nil).
			Bool("has_error", out.Error != nil).
			Msg("jsonrpc: handler response must carry exactly one of result or error")
		out.Result = nil
		out.Error = ErrorFor(CodeInvalidRequest, nil)
	}
	return out
}

func invoke(ctx context.Context, h Handler, req *Request, resp Response) (out Response) {
	defer func() {
		if p := recover(); p != nil {
			zerolog.Ctx(ctx).Error().Str("method", req.Method).Str("panic", fmt.Sprint(p)).Msg("jsonrpc: handler panic")
			out = resp
			out.Result = nil
			out.Error = ErrorFor(CodeInternalError, nil)
		}
	}()
	return h.ServeRPC(ctx, req, resp)
}

var _ Dispatcher = (*Registry)(nil)
