package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

// rpcMethod holds reflection data for a method registered from a receiver.
type rpcMethod struct {
	receiver    reflect.Value
	method      reflect.Method
	paramType   reflect.Type
	paramNames  []string // JSON names, required when params are named
	paramFields []int    // field indices, in order, for positional params
	methodName  string
}

// ServeRPC decodes the params, calls the method and records its outcome.
func (m *rpcMethod) ServeRPC(ctx context.Context, req *Request, resp Response) Response {
	result, err := m.call(ctx, req.Params)
	if err != nil {
		resp.SetError(err)
		return resp
	}
	if err := resp.SetResult(result); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("method", m.methodName).Msg("jsonrpc: encode result")
		resp.Error = ErrorFor(CodeInternalError, nil)
	}
	return resp
}

var errInvalidParams = ErrorFor(CodeInvalidParams, nil)

// invalidParams returns an invalid params error explaining what is wrong in
// data.detail.
func invalidParams(detail string) *Error {
	return errInvalidParams.WithData(map[string]string{"detail": detail})
}

func (m *rpcMethod) call(ctx context.Context, params json.RawMessage) (any, error) {
	param := reflect.New(m.paramType)

	params = bytes.TrimSpace(params)
	switch {
	case len(params) == 0 || string(params) == "null":
		if len(m.paramNames) > 0 {
			return nil, invalidParams("params are required")
		}
	case params[0] == '[':
		// Positional params map to struct fields by declaration order.
		var paramList []json.RawMessage
		if err := json.Unmarshal(params, &paramList); err != nil {
			return nil, invalidParams(err.Error())
		}
		if len(paramList) != len(m.paramFields) {
			return nil, invalidParams("invalid number of params")
		}
		for i, rawElem := range paramList {
			field := param.Elem().Field(m.paramFields[i])
			if err := json.Unmarshal(rawElem, field.Addr().Interface()); err != nil {
				return nil, invalidParams(m.paramNames[i] + ": " + err.Error())
			}
		}
	case params[0] == '{':
		// Named params map to struct fields by json tags; all are required.
		var paramMap map[string]json.RawMessage
		if err := json.Unmarshal(params, &paramMap); err != nil {
			return nil, invalidParams(err.Error())
		}
		for _, name := range m.paramNames {
			if _, ok := paramMap[name]; !ok {
				return nil, invalidParams(name + " is missing")
			}
		}
		if err := json.Unmarshal(params, param.Interface()); err != nil {
			return nil, invalidParams(err.Error())
		}
	default:
		return nil, invalidParams("params must be an object or an array")
	}

	results := m.method.Func.Call([]reflect.Value{m.receiver, reflect.ValueOf(ctx), param.Elem()})

	return results[0].Interface(), callError(results[1])
}

// callError extracts the error result. A nil pointer, returned directly or
// held in the error interface, means success.
func callError(v reflect.Value) error {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

// Register adds every exported method of receiver with the signature
//
//	func(ctx context.Context, params P) (R, error)
//
// where P is a struct type. The error result may also be declared as *Error. The namespace prefixes method names ("math" +
// "Add" -> "math.Add"); use an empty namespace for bare names. A field named
// "_" in P with a `jsonrpc:"name"` tag overrides the method name. Methods
// with other signatures are skipped.
func (r *Registry) Register(namespace string, receiver any) {
	val := reflect.ValueOf(receiver)
	typ := val.Type()

	for i := 0; i < typ.NumMethod(); i++ {
		method := typ.Method(i)
		if !method.IsExported() {
			continue
		}

		handler := parseMethod(val, method)
		if handler == nil {
			continue
		}

		name := handler.methodName
		if namespace != "" {
			name = namespace + "." + name
		}
		r.Handle(name, handler)
	}
}

var (
	contextType  = reflect.TypeFor[context.Context]()
	errorType    = reflect.TypeFor[error]()
	rpcErrorType = reflect.TypeFor[*Error]()
)

// parseMethod extracts method signature information via reflection.
// It returns nil for methods that do not have a supported signature.
func parseMethod(receiver reflect.Value, method reflect.Method) *rpcMethod {
	ft := method.Func.Type()

	if ft.NumIn() != 3 || ft.In(1) != contextType {
		return nil
	}
	if ft.NumOut() != 2 || (ft.Out(1) != errorType && ft.Out(1) != rpcErrorType) {
		return nil
	}
	paramType := ft.In(2)
	if paramType.Kind() != reflect.Struct {
		return nil
	}

	rpc := &rpcMethod{
		receiver:   receiver,
		method:     method,
		paramType:  paramType,
		methodName: method.Name,
	}

	for i := 0; i < paramType.NumField(); i++ {
		field := paramType.Field(i)
		if field.Name == "_" {
			if tag := field.Tag.Get("jsonrpc"); tag != "" {
				rpc.methodName = tag
			}
			continue
		}
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			name = strings.Split(jsonTag, ",")[0]
			if name == "-" {
				continue
			}
			if name == "" {
				name = field.Name
			}
		}
		rpc.paramNames = append(rpc.paramNames, name)
		rpc.paramFields = append(rpc.paramFields, i)
	}

	return rpc
}
