package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/mnehpets/jsonrpcd/endpoint"
)

// ErrNotBatch is returned when a request body is not an array of requests.
var ErrNotBatch = errors.New("jsonrpc: body must be an array of requests")

// codec converts between a wire encoding and the JSON the engine works on.
type codec interface {
	// DecodeBatch splits body into the raw JSON of each batch entry.
	DecodeBatch(body []byte) ([]json.RawMessage, error)
	// Renderer writes v with the given status.
	Renderer(status int, v any) endpoint.Renderer
}

// codecFor selects a codec from the request Content-Type. An empty content
// type is treated as JSON.
func codecFor(contentType string) (codec, bool) {
	if strings.TrimSpace(contentType) == "" {
		return jsonCodec{}, true
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}
	switch {
	case mt == "application/json", strings.HasSuffix(mt, "+json"):
		return jsonCodec{}, true
	case mt == "application/cbor":
		return cborCodec{}, true
	}
	return nil, false
}

type jsonCodec struct{}

func (jsonCodec) DecodeBatch(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return nil, ErrNotBatch
	}
	var batch []json.RawMessage
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (jsonCodec) Renderer(status int, v any) endpoint.Renderer {
	return &endpoint.JSONRenderer{Status: status, Value: v}
}

// cborDecMode decodes CBOR maps as map[string]any so that entries can be
// re-encoded as JSON objects.
var cborDecMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

type cborCodec struct{}

func (cborCodec) DecodeBatch(body []byte) ([]json.RawMessage, error) {
	var items []any
	if err := cborDecMode.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotBatch, err)
	}
	batch := make([]json.RawMessage, len(items))
	for i, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("jsonrpc: cbor entry %d: %w", i, err)
		}
		batch[i] = raw
	}
	return batch, nil
}

func (cborCodec) Renderer(status int, v any) endpoint.Renderer {
	return &cborRenderer{Status: status, Value: v}
}

// cborRenderer writes v as CBOR. v is first taken through JSON so that raw
// ids, results and error data appear as native CBOR values.
type cborRenderer struct {
	Status int
	Value  any
}

func (cr *cborRenderer) Render(w http.ResponseWriter, _ *http.Request) error {
	generic, err := toGeneric(cr.Value)
	if err != nil {
		return err
	}
	b, err := cbor.Marshal(generic)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/cbor")
	w.WriteHeader(cr.Status)
	_, err = w.Write(b)
	return err
}

func toGeneric(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return normalizeNumbers(out), nil
}

// normalizeNumbers replaces json.Number values by int64 or uint64 when they
// are integers in range, and by float64 otherwise. A number that fits none of
// them is kept as its decimal text.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return u
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	default:
		return v
	}
}
