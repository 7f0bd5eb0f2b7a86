package endpoint

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNoContentRenderer_DefaultStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if err := (&NoContentRenderer{}).Render(rec, req); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
}

func TestNoContentRenderer_StatusOverride(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/", nil)

	if err := (&NoContentRenderer{Status: http.StatusMethodNotAllowed}).Render(rec, req); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}
