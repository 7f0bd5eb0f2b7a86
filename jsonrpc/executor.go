package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sourcegraph/conc"
)

var ErrInvalidWorkers = errors.New("jsonrpc: worker count must be positive")

// Executor runs a batch on a fixed number of workers.
//
// The batch is partitioned into at most workers contiguous chunks. Each chunk
// runs on its own goroutine and processes its entries strictly in order;
// chunk outputs are joined by chunk position, so the responses always line up
// with the requests.
type Executor struct {
	workers    int
	dispatcher Dispatcher
}

func NewExecutor(workers int, d Dispatcher) (*Executor, error) {
	if workers <= 0 {
		return nil, ErrInvalidWorkers
	}
	if d == nil {
		return nil, errors.New("jsonrpc: nil dispatcher")
	}
	return &Executor{workers: workers, dispatcher: d}, nil
}

// Workers returns the configured concurrency.
func (x *Executor) Workers() int {
	return x.workers
}

// Execute processes every entry of batch and returns one response per entry,
// in the same order. It returns once all chunks have finished.
func (x *Executor) Execute(ctx context.Context, batch []json.RawMessage) []Response {
	chunks := Partition(batch, x.workers)
	outputs := make([][]Response, len(chunks))

	var wg conc.WaitGroup
	for i, chunk := range chunks {
		wg.Go(func() {
			out := make([]Response, 0, len(chunk))
			for _, raw := range chunk {
				out = append(out, x.process(ctx, raw))
			}
			outputs[i] = out
		})
	}
	wg.Wait()

	responses := make([]Response, 0, len(batch))
	for _, out := range outputs {
		responses = append(responses, out...)
	}
	return responses
}

// process takes one entry from decoding to a finalized response.
func (x *Executor) process(ctx context.Context, raw json.RawMessage) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		resp := NewResponse(nil)
		resp.Error = ErrorFor(CodeInvalidRequest, nil)
		return resp
	}

	resp := NewResponse(req.ID)
	if !Validate(&req, &resp) {
		return resp
	}
	return x.dispatcher.Dispatch(ctx, &req, resp)
}
