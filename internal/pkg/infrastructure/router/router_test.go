package router

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"
)

func TestRequestsAreLogged(t *testing.T) {
	is := is.New(t)

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	r := New("property-graph", logger)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	is.Equal(w.Code, http.StatusTeapot)

	entry := map[string]any{}
	is.NoErr(json.Unmarshal(buf.Bytes(), &entry)) // one log entry should have been written
	is.Equal(entry["path"], "/ping")
	is.Equal(entry["status"], float64(http.StatusTeapot))
}

func TestCorsPreflight(t *testing.T) {
	is := is.New(t)

	r := New("property-graph", slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	r.Get("/api/v1/enums", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/enums", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	is.True(w.Header().Get("Access-Control-Allow-Origin") != "") // preflight should be answered by the cors middleware
}
