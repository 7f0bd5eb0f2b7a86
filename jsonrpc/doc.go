// Package jsonrpc provides a JSON-RPC 2.0 batch endpoint integrated with the
// endpoint processor chain.
//
// Requests are always submitted as a batch: the HTTP body is an array of
// request objects. Each entry is validated, dispatched to its registered
// handler and answered independently; a failing entry never affects its
// siblings.
//
// # Basic Usage
//
//	reg := jsonrpc.NewRegistry()
//	reg.Register("math", &MathMethods{})
//	e, err := jsonrpc.NewEndpoint(reg, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	http.Handle("/", e.Handler())
//
// # Handlers
//
// A Handler receives the validated request and the response bound to its id,
// and returns that response with exactly one of Result or Error set:
//
//	reg.HandleFunc("ping", func(ctx context.Context, req *jsonrpc.Request, resp jsonrpc.Response) jsonrpc.Response {
//	    resp.SetResult("pong")
//	    return resp
//	})
//
// A response carrying both or neither is replaced by an Invalid Request error,
// and a handler panic becomes an Internal error for that entry only.
//
// Methods can also be registered from a receiver with Register. They must have
// the signature
//
//	func(ctx context.Context, params <StructType>) (result, error)
//
// The params struct uses json tags for parameter names, accepts both named
// (object) and positional (array) params, and may override the method name
// with a `_` field:
//
//	type AddParams struct {
//	    _ struct{} `jsonrpc:"add"`
//	    A int `json:"a"`
//	    B int `json:"b"`
//	}
//
// # Concurrency
//
// A batch is split into at most W contiguous partitions, W being the worker
// count given to NewEndpoint. Partitions run concurrently; entries within a
// partition run in order. Responses are reassembled by partition position so
// the output order always matches the input order.
//
// # Responses
//
// A one-entry batch is answered with a bare response object and an HTTP status
// derived from its error code (see StatusCode). Any other batch is answered
// with an array and status 200. An empty batch yields an empty array.
//
// # Encodings
//
// Bodies are JSON by default. A Content-Type of application/cbor selects CBOR
// for both the request and the response.
package jsonrpc
