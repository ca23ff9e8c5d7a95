package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHttpStatusRecorder_CapturesStatus(t *testing.T) {
	inner := httptest.NewRecorder()
	rec := &HttpStatusRecorder{ResponseWriter: inner, Status: 200}

	var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Status != http.StatusNotFound {
		t.Errorf("recorded status got %d, want %d", rec.Status, http.StatusNotFound)
	}
	if inner.Code != http.StatusNotFound {
		t.Errorf("inner writer status got %d, want %d", inner.Code, http.StatusNotFound)
	}
}

func TestHttpStatusRecorder_DefaultsTo200(t *testing.T) {
	inner := httptest.NewRecorder()
	rec := &HttpStatusRecorder{ResponseWriter: inner, Status: 200}

	var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok")) //implicit 200, WriteHeader never called
	}
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Status != http.StatusOK {
		t.Errorf("recorded status got %d, want %d", rec.Status, http.StatusOK)
	}
}
