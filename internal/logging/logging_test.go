package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// captureLogOutput reinitializes the logger onto a buffer at debug level
// in JSON format, runs f, and restores the default logger.
func captureLogOutput(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	InitLoggerTo(&buf, LevelDebug, FormatJSON)
	defer InitLogger(LevelInfo, FormatText)
	f()
	return buf.String()
}

func decodeLine(t *testing.T, out string) map[string]any {
	t.Helper()
	line := strings.TrimSpace(out)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %v: %q", err, out)
	}
	return m
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{" error ", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"text", FormatText, false},
		{"", FormatText, false},
		{"xml", FormatText, true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitLoggerToLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", LevelDebug, true, true, true},
		{"info", LevelInfo, false, true, true},
		{"warn", LevelWarn, false, false, true},
		{"error", LevelError, false, false, false},
		{"unknown falls back to info", Level(99), false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			InitLoggerTo(&buf, tt.level, FormatText)
			defer InitLogger(LevelInfo, FormatText)

			Debug("d-msg")
			Info("i-msg")
			Warn("w-msg")
			Error("e-msg")

			out := buf.String()
			if got := strings.Contains(out, "d-msg"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "i-msg"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
			if got := strings.Contains(out, "w-msg"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
			if !strings.Contains(out, "e-msg") {
				t.Error("error message not logged")
			}
		})
	}
}

func TestTimestampFormat(t *testing.T) {
	out := captureLogOutput(t, func() { Info("stamp") })
	m := decodeLine(t, out)

	ts, ok := m["time"].(string)
	if !ok {
		t.Fatalf("time field missing: %v", m)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("time %q is not RFC3339: %v", ts, err)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if got := GetRequestID(ctx); got != "" {
		t.Errorf("GetRequestID(empty) = %q, want empty", got)
	}

	ctx = WithRequestID(ctx, "abc-123")
	if got := GetRequestID(ctx); got != "abc-123" {
		t.Errorf("GetRequestID() = %q, want %q", got, "abc-123")
	}

	out := captureLogOutput(t, func() { InfoContext(ctx, "with id") })
	if m := decodeLine(t, out); m["request_id"] != "abc-123" {
		t.Errorf("request_id = %v, want abc-123", m["request_id"])
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := WithRequestID(context.Background(), "r1")
	out := captureLogOutput(t, func() {
		WarnContext(ctx, "warned")
		ErrorContext(ctx, "failed", "error", errors.New("boom"))
	})

	if !strings.Contains(out, `"msg":"warned"`) || !strings.Contains(out, `"msg":"failed"`) {
		t.Errorf("missing context messages: %s", out)
	}
	if strings.Count(out, `"request_id":"r1"`) != 2 {
		t.Errorf("request_id not attached to both lines: %s", out)
	}
}

func TestDomainEvents(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req")

	tests := []struct {
		name   string
		log    func()
		msg    string
		fields map[string]any
	}{
		{
			name:   "detection",
			log:    func() { DetectionEvent(ctx, "api", 42, 3) },
			msg:    "detection",
			fields: map[string]any{"source": "api", "text_len": float64(42), "references": float64(3), "request_id": "req"},
		},
		{
			name:   "index",
			log:    func() { IndexEvent("indexed", "notes/a.md", "references", 2) },
			msg:    "index_event",
			fields: map[string]any{"event": "indexed", "path": "notes/a.md", "references": float64(2)},
		},
		{
			name:   "websocket",
			log:    func() { WebSocketEvent("connect", 1) },
			msg:    "websocket_event",
			fields: map[string]any{"event": "connect", "client_count": float64(1)},
		},
		{
			name:   "startup",
			log:    func() { ServerStartup("api", "http", 8080) },
			msg:    "server_startup",
			fields: map[string]any{"server_type": "api", "protocol": "http", "port": float64(8080)},
		},
		{
			name:   "security",
			log:    func() { SecurityEvent("rate_limited", "api", "ip", "1.2.3.4") },
			msg:    "security_event",
			fields: map[string]any{"event": "rate_limited", "component": "api", "ip": "1.2.3.4", "level": "WARN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := decodeLine(t, captureLogOutput(t, tt.log))
			if m["msg"] != tt.msg {
				t.Errorf("msg = %v, want %v", m["msg"], tt.msg)
			}
			for k, want := range tt.fields {
				if m[k] != want {
					t.Errorf("%s = %v, want %v", k, m[k], want)
				}
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if len(seen) != 36 {
			t.Errorf("generated id %q is not a UUID", seen)
		}
		if rec.Header().Get("X-Request-ID") != seen {
			t.Errorf("header = %q, want %q", rec.Header().Get("X-Request-ID"), seen)
		}
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "given")
		h.ServeHTTP(httptest.NewRecorder(), req)
		if seen != "given" {
			t.Errorf("request id = %q, want %q", seen, "given")
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	h := CombinedMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK) // ignored
		_, _ = w.Write([]byte("x"))
	}))

	out := captureLogOutput(t, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/detect", nil))
	})

	m := decodeLine(t, out)
	if m["msg"] != "http_request" {
		t.Errorf("msg = %v, want http_request", m["msg"])
	}
	if m["status_code"] != float64(http.StatusTeapot) {
		t.Errorf("status_code = %v, want %d", m["status_code"], http.StatusTeapot)
	}
	if m["path"] != "/detect" || m["method"] != "POST" {
		t.Errorf("path/method = %v %v", m["path"], m["method"])
	}
	if m["request_id"] == nil {
		t.Error("request_id missing from request log")
	}
}

func TestResponseWriterDefaultsToOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
	_, _ = rw.Write([]byte("body"))

	if rw.statusCode != http.StatusOK || rec.Code != http.StatusOK {
		t.Errorf("status = %d/%d, want 200", rw.statusCode, rec.Code)
	}
	if rw.Unwrap() != rec {
		t.Error("Unwrap() did not return the wrapped writer")
	}
}

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Fatal("GetLogger() = nil")
	}
}
