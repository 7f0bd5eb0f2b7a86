package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mnehpets/jsonrpcd/endpoint"
)

func TestNewBodyLimitProcessor_Default(t *testing.T) {
	if got := NewBodyLimitProcessor(0).MaxBytes; got != DefaultMaxBodyBytes {
		t.Errorf("MaxBytes: got %d, want %d", got, DefaultMaxBodyBytes)
	}
	if got := NewBodyLimitProcessor(10).MaxBytes; got != 10 {
		t.Errorf("MaxBytes: got %d, want 10", got)
	}
}

func TestBodyLimitProcessor_DeclaredLengthTooLarge(t *testing.T) {
	p := NewBodyLimitProcessor(4)
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))

	err := p.Process(httptest.NewRecorder(), r, func(http.ResponseWriter, *http.Request) error {
		t.Fatal("next must not be called")
		return nil
	})

	var ee *endpoint.EndpointError
	if !errors.As(err, &ee) || ee.Status != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 EndpointError, got %v", err)
	}
}

func TestBodyLimitProcessor_StreamedBodyIsCapped(t *testing.T) {
	p := NewBodyLimitProcessor(4)
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
	r.ContentLength = -1

	var readErr error
	err := p.Process(httptest.NewRecorder(), r, func(_ http.ResponseWriter, r *http.Request) error {
		_, readErr = io.ReadAll(r.Body)
		return nil
	})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	var mbe *http.MaxBytesError
	if !errors.As(readErr, &mbe) {
		t.Fatalf("expected *http.MaxBytesError, got %v", readErr)
	}
}

func TestBodyLimitProcessor_WithinLimit(t *testing.T) {
	p := NewBodyLimitProcessor(64)
	h := endpoint.Handler(func(_ http.ResponseWriter, _ *http.Request, params struct {
		Body string `body:"" maxLength:"0"`
	}) (endpoint.Renderer, error) {
		return &endpoint.JSONRenderer{Value: params.Body}, nil
	}, p)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("[]")))

	if rec.Code != http.StatusOK || rec.Body.String() != "\"[]\"\n" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestBodyLimitProcessor_ThroughHandler_Is413(t *testing.T) {
	p := NewBodyLimitProcessor(4)
	h := endpoint.Handler(func(_ http.ResponseWriter, _ *http.Request, params struct {
		Body []byte `body:"" maxLength:"0"`
	}) (endpoint.Renderer, error) {
		return &endpoint.NoContentRenderer{}, nil
	}, p)

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
	r.ContentLength = -1
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status %d, got %d", http.StatusRequestEntityTooLarge, rec.Code)
	}
}
