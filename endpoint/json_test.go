package endpoint

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

var errSentinel = errors.New("json encode error")

type jsonBadValue struct{}

func (jsonBadValue) MarshalJSON() ([]byte, error) {
	return nil, errSentinel
}

func TestJSONRenderer_SetsContentTypeAndEncodesBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	r := JSONRenderer{Value: map[string]string{"hello": "world"}}
	if err := r.Render(rec, req); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	resp := rec.Result()
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected Content-Type %q, got %q", "application/json", got)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	// json.Encoder adds a trailing newline.
	if got := rec.Body.String(); got != "{\"hello\":\"world\"}\n" {
		t.Fatalf("expected body %q, got %q", "{\"hello\":\"world\"}\\n", got)
	}
}

func TestJSONRenderer_Status(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	r := JSONRenderer{Status: http.StatusNotFound, Value: []int{}}
	if err := r.Render(rec, req); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected body %q, got %q", "[]\\n", got)
	}
}

func TestJSONRenderer_DoesNotEscapeHTML(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	r := JSONRenderer{Value: "<b>&</b>"}
	if err := r.Render(rec, req); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got := rec.Body.String(); got != "\"<b>&</b>\"\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestJSONRenderer_EncodeError_ReturnsError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	r := JSONRenderer{Value: jsonBadValue{}}
	err := r.Render(rec, req)
	if !errors.Is(err, errSentinel) {
		t.Fatalf("expected error wrapping %v, got %v", errSentinel, err)
	}
}
