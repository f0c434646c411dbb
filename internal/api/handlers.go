package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/FocuswithJustin/versefind/core/canon"
	"github.com/FocuswithJustin/versefind/core/errors"
	"github.com/FocuswithJustin/versefind/core/scripture"
	"github.com/FocuswithJustin/versefind/core/sqlite"
	"github.com/FocuswithJustin/versefind/internal/logging"
	"github.com/FocuswithJustin/versefind/internal/refindex"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
	Meta    *APIMeta  `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	Uptime  string       `json:"uptime"`
	Books   int          `json:"books"`
	Index   bool         `json:"index"`
	SQLite  *sqlite.Info `json:"sqlite,omitempty"`
}

// DetectRequest is the body of POST /detect.
type DetectRequest struct {
	Text string `json:"text"`
}

// ReferenceRequest is the body of POST /normalize and POST /format/display.
type ReferenceRequest struct {
	Reference string `json:"reference"`
}

// DisplayRequest is the body of POST /format/api.
type DisplayRequest struct {
	Display string `json:"display"`
}

// NormalizeResult is the response of POST /normalize.
type NormalizeResult struct {
	Input      string               `json:"input"`
	Normalized string               `json:"normalized"`
	Display    string               `json:"display"`
	API        string               `json:"api"`
	OSIS       string               `json:"osis,omitempty"`
	Parsed     *scripture.Reference `json:"parsed,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"name":    "versefind API",
		"version": s.version,
		"endpoints": []string{
			"GET /health",
			"POST /detect",
			"POST /normalize",
			"POST /format/display",
			"POST /format/api",
			"GET /books",
			"GET /references?book=&chapter=",
			"GET /index/stats",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	info := HealthInfo{
		Status:  "healthy",
		Version: s.version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Books:   s.matcher.Catalog().Len(),
		Index:   s.index != nil,
	}
	if s.index != nil {
		sq := sqlite.GetInfo()
		info.SQLite = &sq
	}
	respond(w, http.StatusOK, info)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req DetectRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	d := s.matcher.Detect(req.Text)
	logging.DetectionEvent(r.Context(), "api", len(req.Text), len(d.References))
	respondWithTotal(w, http.StatusOK, d, len(d.References))
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req ReferenceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Reference) == "" {
		respondErr(w, errors.NewValidation("reference", "must not be empty"))
		return
	}

	normalized := s.matcher.NormalizeReference(req.Reference)
	display := scripture.FormatForDisplay(normalized)
	res := NormalizeResult{
		Input:      req.Reference,
		Normalized: normalized,
		Display:    display,
		API:        scripture.FormatForAPI(display),
	}
	if ref, ok := s.matcher.ParseReference(normalized); ok {
		res.OSIS = ref.OSIS()
		res.Parsed = &ref
	}
	respond(w, http.StatusOK, res)
}

func (s *Server) handleFormatDisplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req ReferenceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	respond(w, http.StatusOK, map[string]string{
		"display": scripture.FormatForDisplay(req.Reference),
	})
}

func (s *Server) handleFormatAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req DisplayRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	respond(w, http.StatusOK, map[string]string{
		"reference": scripture.FormatForAPI(req.Display),
	})
}

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	books := s.matcher.Catalog().Books()
	testament := canon.Testament(strings.ToUpper(r.URL.Query().Get("testament")))
	withSynonyms := r.URL.Query().Get("synonyms") == "true"

	out := make([]canon.Book, 0, len(books))
	for _, b := range books {
		if testament != "" && b.Testament != testament {
			continue
		}
		if !withSynonyms {
			b.Synonyms = nil
		}
		out = append(out, b)
	}
	respondWithTotal(w, http.StatusOK, out, len(out))
}

func (s *Server) handleReferences(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	if s.index == nil {
		respondError(w, http.StatusServiceUnavailable, "INDEX_UNAVAILABLE", "No reference index is configured")
		return
	}

	q := r.URL.Query()
	bookParam := strings.TrimSpace(q.Get("book"))
	if bookParam == "" {
		respondErr(w, errors.NewValidation("book", "is required"))
		return
	}
	chapter := 0
	if c := q.Get("chapter"); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil || n < 0 {
			respondErr(w, errors.NewValidation("chapter", "must be a non-negative integer"))
			return
		}
		chapter = n
	}

	book, ok := s.matcher.Catalog().Resolve(bookParam)
	if !ok {
		respondErr(w, errors.NewNotFound("book", bookParam))
		return
	}
	if chapter > 0 && !book.HasChapter(chapter) {
		respondErr(w, errors.NewValidation("chapter", fmt.Sprintf("%s has %d chapters", book.Name, book.Chapters)))
		return
	}

	key := book.Name + ":" + strconv.Itoa(chapter)
	entries, err := s.lookups.GetOrLoad(key, func() ([]refindex.Entry, error) {
		return s.index.Lookup(r.Context(), book.Name, chapter)
	})
	if err != nil {
		logging.ErrorContext(r.Context(), "reference lookup failed", "book", book.Name, "chapter", chapter, "error", err)
		respondErr(w, err)
		return
	}
	respondWithTotal(w, http.StatusOK, entries, len(entries))
}

func (s *Server) handleIndexStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	if s.index == nil {
		respondError(w, http.StatusServiceUnavailable, "INDEX_UNAVAILABLE", "No reference index is configured")
		return
	}

	stats, err := s.index.Stats(r.Context())
	if err != nil {
		logging.ErrorContext(r.Context(), "index stats failed", "error", err)
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, stats)
}

// decodeBody decodes a JSON request body of at most MaxBodyBytes into v.
// It writes the error response and returns false on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body too large")
			return false
		}
		respondErr(w, errors.NewParse("JSON", "request body", err.Error()))
		return false
	}
	return true
}

// respondErr maps a typed error to a status code and error code.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, errors.ErrInvalidInput):
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func respond(w http.ResponseWriter, status int, data any) {
	respondWithTotal(w, status, data, 0)
}

func respondWithTotal(w http.ResponseWriter, status int, data any, total int) {
	writeResponse(w, status, APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	writeResponse(w, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func writeResponse(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}
