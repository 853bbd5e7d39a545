package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/Ashenden365/mlb-hr-ai/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
)

func TestSkipMirroredLog(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		args []any
		want bool
	}{
		{name: "health check", msg: "http request", args: []any{"method", "GET", "path", "/healthz"}, want: true},
		{name: "metrics scrape", msg: "http request", args: []any{"path", "/metrics"}, want: true},
		{name: "api request", msg: "http request", args: []any{"path", "/v1/comparisons"}, want: false},
		{name: "other message", msg: "reference refresh failed", args: []any{"path", "/healthz"}, want: false},
		{name: "non string path", msg: "http request", args: []any{"path", 42}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := skipMirroredLog(tt.msg, tt.args); got != tt.want {
				t.Fatalf("skipMirroredLog got=%v want=%v", got, tt.want)
			}
		})
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"team", "LAD", "attempt", 2, "error", errors.New("status=503"), "payload"})
	if len(attrs) != 4 {
		t.Fatalf("unexpected attribute count got=%d want=4", len(attrs))
	}
	if attrs[0].Key != "team" || attrs[0].Value.AsString() != "LAD" {
		t.Fatalf("unexpected team attribute: %v", attrs[0])
	}
	if attrs[1].Key != "attempt" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute: %v", attrs[1])
	}
	if attrs[2].Value.AsString() != "status=503" {
		t.Fatalf("unexpected error attribute: %v", attrs[2])
	}
	if attrs[3].Key != "payload" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute: %v", attrs[3])
	}
}

func TestOTelValue(t *testing.T) {
	if v := otelValue(1500*time.Millisecond, 0); v.AsInt64() != 1500 {
		t.Fatalf("unexpected duration value got=%d want=1500", v.AsInt64())
	}
	if v := otelValue(int32(7), 0); v.Kind() != otellog.KindInt64 || v.AsInt64() != 7 {
		t.Fatalf("unexpected int32 value: %v", v)
	}
	if v := otelValue([]string{"Shohei Ohtani", "Aaron Judge"}, 0); v.Kind() != otellog.KindSlice || len(v.AsSlice()) != 2 {
		t.Fatalf("unexpected slice value: %v", v)
	}

	v := otelValue(map[string]any{"home_runs": 11, "window_days": 30}, 0)
	if v.Kind() != otellog.KindMap || len(v.AsMap()) != 2 {
		t.Fatalf("unexpected map value: %v", v)
	}
}

func TestOTelSeverity(t *testing.T) {
	if otelSeverity(logging.LevelWarn) != otellog.SeverityWarn {
		t.Fatalf("unexpected warn severity")
	}
	if otelSeverity(logging.LevelError) != otellog.SeverityError {
		t.Fatalf("unexpected error severity")
	}
}
