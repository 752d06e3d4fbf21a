package security

import (
	"net/http/httptest"
	"testing"
)

func TestInspectCleanRequest(t *testing.T) {
	d := NewDetector()

	r := httptest.NewRequest("GET", "/summary/", nil)
	r.Header.Set("User-Agent", "Mozilla/5.0")

	if reason, ok := d.Inspect(r); ok {
		t.Fatalf("clean request flagged: %s", reason)
	}
	if got := d.GetMetrics().SuspiciousRequests; got != 0 {
		t.Fatalf("expected 0 suspicious requests, got %d", got)
	}
}

func TestInspectProbePath(t *testing.T) {
	d := NewDetector()

	r := httptest.NewRequest("GET", "/.env", nil)
	reason, ok := d.Inspect(r)
	if !ok {
		t.Fatal("expected .env probe to be flagged")
	}
	if reason != "probe pattern: .env" {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestInspectScannerAgent(t *testing.T) {
	d := NewDetector()

	r := httptest.NewRequest("GET", "/entries/", nil)
	r.Header.Set("User-Agent", "sqlmap/1.7")

	if _, ok := d.Inspect(r); !ok {
		t.Fatal("expected scanner user agent to be flagged")
	}
}

func TestInspectCountsFlaggedRequests(t *testing.T) {
	d := NewDetector()

	for i := 0; i < 3; i++ {
		r := httptest.NewRequest("GET", "/wp-admin", nil)
		d.Inspect(r)
	}

	if got := d.GetMetrics().SuspiciousRequests; got != 3 {
		t.Fatalf("expected 3 suspicious requests, got %d", got)
	}
}
