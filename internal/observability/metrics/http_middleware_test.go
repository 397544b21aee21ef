package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusRecorderCapturesStatus(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.WriteHeader(http.StatusTeapot)
	if rec.status != http.StatusTeapot {
		t.Fatalf("expected recorded status %d, got %d", http.StatusTeapot, rec.status)
	}
}

func TestStatusRecorderExposesHijacker(t *testing.T) {
	var w http.ResponseWriter = &statusRecorder{ResponseWriter: httptest.NewRecorder()}

	// Connection upgrades type-assert the writer; the wrapper must satisfy
	// the interface and delegate to the underlying writer.
	hj, ok := w.(http.Hijacker)
	if !ok {
		t.Fatalf("expected the recorder to implement http.Hijacker")
	}
	if _, _, err := hj.Hijack(); err != http.ErrNotSupported {
		t.Fatalf("expected ErrNotSupported from a plain recorder, got %v", err)
	}
}
