package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/FocuswithJustin/versefind/internal/config"
	"github.com/FocuswithJustin/versefind/internal/refindex"
)

// newTestServer returns a Server with rate limiting disabled. When notes
// is non-nil an in-memory index is opened and each note indexed.
func newTestServer(t *testing.T, notes map[string]string) *Server {
	t.Helper()

	cfg := config.Default().Server
	cfg.RateLimitRequests = 0

	var idx *refindex.Index
	if notes != nil {
		var err error
		idx, err = refindex.Open(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("refindex.Open() error = %v", err)
		}
		t.Cleanup(func() { idx.Close() })

		for path, text := range notes {
			if _, err := idx.IndexNote(context.Background(), path, text); err != nil {
				t.Fatalf("IndexNote(%q) error = %v", path, err)
			}
		}
	}

	s := NewServer(cfg, "test", idx)
	t.Cleanup(s.Close)
	return s
}

// do sends a request through the full handler chain.
func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// decode decodes an APIResponse whose Data is unmarshalled into data.
func decode(t *testing.T, w *httptest.ResponseRecorder, data any) APIResponse {
	t.Helper()

	var raw struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return raw.APIResponse
}

func wantError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	if w.Code != status {
		t.Errorf("status = %d, want %d", w.Code, status)
	}
	resp := decode(t, w, nil)
	if resp.Success {
		t.Error("expected success to be false")
	}
	if resp.Error == nil {
		t.Fatal("expected error to be present")
	}
	if resp.Error.Code != code {
		t.Errorf("error code = %s, want %s", resp.Error.Code, code)
	}
}
