package audit

import (
	"bytes"
	"context"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, "192.0.2.1:1234", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": " 10.0.0.9 "}, "192.0.2.1:1234", "10.0.0.9"},
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remote
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
	if ClientIP(nil) != "" {
		t.Fatalf("nil request should have no ip")
	}
}

func TestDigestJSON(t *testing.T) {
	if DigestJSON(nil) != "" {
		t.Fatalf("empty payload should have no digest")
	}
	a := DigestJSON([]byte(`{"joints":3}`))
	if len(a) != 64 || a != DigestJSON([]byte(`{"joints":3}`)) || a == DigestJSON([]byte(`{"joints":4}`)) {
		t.Fatalf("unexpected digest %q", a)
	}
}

func TestLogLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogLogger(log.New(&buf, "", 0))
	if err := logger.Log(context.Background(), Entry{ProjectID: "unit-300", Action: "weld.numbers", ResourceType: "weld_run", ResourceID: "run-1"}); err != nil {
		t.Fatalf("log: %v", err)
	}
	if !strings.Contains(buf.String(), "action=weld.numbers") || !strings.Contains(buf.String(), "resource=weld_run/run-1") {
		t.Fatalf("unexpected log line %q", buf.String())
	}
}
