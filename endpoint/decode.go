package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// defaultFieldLimit is the maximum byte length of a decoded value when the
// field carries no maxLength tag.
var defaultFieldLimit = 16 * 1024 // 16KB

// Unmarshal populates dst (a non-nil pointer to a struct) from the request.
//
// Supported struct tags:
//   - `body:""`: the request body. string and []byte fields receive the raw
//     bytes; any other type is decoded as JSON. At most one body field.
//   - `header:"Name"`: the first value of the named header; string fields only.
//     An empty name defaults to the field name.
//   - `maxLength:"n"`: maximum byte length of the value (default 16KB).
//     "0" disables the limit. Oversized values yield 413 for bodies and 400
//     for headers.
//
// A tag value of "-" ignores the field. Untagged fields are left unchanged.
func Unmarshal(r *http.Request, dst any) error {
	if r == nil {
		return Error(http.StatusInternalServerError, "", errors.New("endpoint: decode: nil request"))
	}
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return Error(http.StatusInternalServerError, "", errors.New("endpoint: decode: dst must be a non-nil pointer"))
	}
	root := v.Elem()
	if root.Kind() != reflect.Struct {
		return Error(http.StatusInternalServerError, "", errors.New("endpoint: decode: dst must point to a struct"))
	}

	t := root.Type()
	bodySeen := false
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := root.Field(i)

		limit, err := fieldLengthLimit(sf)
		if err != nil {
			return Error(http.StatusInternalServerError, "", fmt.Errorf("endpoint: decode: field %s: %w", sf.Name, err))
		}

		if name, ok := sf.Tag.Lookup("header"); ok && name != "-" {
			if name == "" {
				name = sf.Name
			}
			if err := setHeaderField(r, fv, name, limit); err != nil {
				return err
			}
			continue
		}

		if name, ok := sf.Tag.Lookup("body"); ok && name != "-" {
			if bodySeen {
				return Error(http.StatusInternalServerError, "", fmt.Errorf("endpoint: decode: multiple body fields: %s", sf.Name))
			}
			bodySeen = true
			if err := setBodyField(r, fv, limit); err != nil {
				return err
			}
		}
	}
	return nil
}

// fieldLengthLimit returns the byte limit for a field; 0 means unlimited.
func fieldLengthLimit(sf reflect.StructField) (int, error) {
	tag, ok := sf.Tag.Lookup("maxLength")
	if !ok {
		return defaultFieldLimit, nil
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(tag)
	if err != nil {
		return 0, fmt.Errorf("maxLength tag: %w", err)
	}
	if n < 0 {
		return 0, errors.New("maxLength tag must be non-negative")
	}
	return n, nil
}

func setHeaderField(r *http.Request, fv reflect.Value, name string, limit int) error {
	if fv.Kind() != reflect.String {
		return Error(http.StatusInternalServerError, "", fmt.Errorf("endpoint: decode: header %q: unsupported field type %s", name, fv.Type()))
	}
	val := r.Header.Get(name)
	if val == "" {
		return nil
	}
	if limit > 0 && len(val) > limit {
		return Error(http.StatusBadRequest, "", fmt.Errorf("endpoint: decode: header %q exceeds %d bytes", name, limit))
	}
	fv.SetString(val)
	return nil
}

func setBodyField(r *http.Request, fv reflect.Value, limit int) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	reader := io.Reader(r.Body)
	if limit > 0 {
		// Read one extra byte to detect overflow.
		reader = io.LimitReader(r.Body, int64(limit)+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return Error(http.StatusRequestEntityTooLarge, "", err)
		}
		return Error(http.StatusBadRequest, "", fmt.Errorf("endpoint: decode: read body: %w", err))
	}
	if limit > 0 && len(data) > limit {
		return Error(http.StatusRequestEntityTooLarge, "", fmt.Errorf("endpoint: decode: body exceeds %d bytes", limit))
	}

	switch {
	case fv.Kind() == reflect.String:
		fv.SetString(string(data))
	case fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Uint8:
		fv.SetBytes(data)
	default:
		if len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, fv.Addr().Interface()); err != nil {
			return Error(http.StatusBadRequest, "", fmt.Errorf("endpoint: decode: body: %w", err))
		}
	}
	return nil
}
