package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/metrics"
)

type httpObservation struct {
	route  string
	status int
}

type recordingRecorder struct {
	metrics.NoopRecorder
	mu   sync.Mutex
	seen []httpObservation
}

func (r *recordingRecorder) ObserveHTTPRequest(route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, httpObservation{route: route, status: status})
}

func newChain(buf *bytes.Buffer, rec metrics.Recorder) func(http.Handler) http.Handler {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	return Chain(logger, ferrors.NewHTTPErrorAdapter(logger), rec)
}

func TestChain_RecordsMatchedPattern(t *testing.T) {
	var logs bytes.Buffer
	rec := &recordingRecorder{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	h := newChain(&logs, rec)(mux)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Len(t, rec.seen, 2)
	assert.Equal(t, httpObservation{route: "GET /items/{id}", status: http.StatusAccepted}, rec.seen[0])
	assert.Equal(t, httpObservation{route: unmatchedRoute, status: http.StatusNotFound}, rec.seen[1])

	var entry map[string]any
	line, _, _ := bytes.Cut(logs.Bytes(), []byte("\n"))
	require.NoError(t, json.Unmarshal(line, &entry))
	assert.Equal(t, "HTTP request", entry["msg"])
	assert.Equal(t, "/items/42", entry["path"])
	assert.Equal(t, "GET /items/{id}", entry["route"])
	assert.EqualValues(t, http.StatusAccepted, entry["status"])
}

func TestChain_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	rec := &recordingRecorder{}
	h := newChain(&logs, rec)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/explode", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ferrors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
	assert.Equal(t, "/explode", body.Details["path"])

	require.Len(t, rec.seen, 1)
	assert.Equal(t, http.StatusInternalServerError, rec.seen[0].status)
	assert.Contains(t, logs.String(), "HTTP handler panic")
}

func TestChain_DefaultsStatusToOK(t *testing.T) {
	rec := &recordingRecorder{}
	h := Chain(nil, ferrors.NewHTTPErrorAdapter(nil), rec)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, rec.seen, 1)
	assert.Equal(t, http.StatusOK, rec.seen[0].status)
}
