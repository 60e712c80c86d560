package telemetry

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug")
	if err != nil {
		t.Fatalf("NewLogger(debug): %v", err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("debug level not enabled")
	}
	if _, err := NewLogger("loud"); err == nil {
		t.Fatalf("NewLogger(loud) = nil error, want error")
	}
}

func TestMetricsHandlerExposesCounters(t *testing.T) {
	before := testutil.ToFloat64(MessagesTotal.WithLabelValues("in", "read"))
	MessagesTotal.WithLabelValues("in", "read").Inc()
	if got := testutil.ToFloat64(MessagesTotal.WithLabelValues("in", "read")); got != before+1 {
		t.Fatalf("messages_total = %v, want %v", got, before+1)
	}

	SetBuildInfo("test", "abc123")

	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`broadcast_messages_total{direction="in",type="read"}`,
		`broadcast_build_info{git_sha="abc123",version="test"} 1`,
		`broadcast_uptime_seconds`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestServerHealthz(t *testing.T) {
	srv := NewServer(":0")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q, want 200 ok", rec.Code, rec.Body.String())
	}
}
