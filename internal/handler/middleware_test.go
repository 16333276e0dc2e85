package handler

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

func newLoggedRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(buf, nil))

	r := gin.New()
	r.Use(RequestLogger(logger), Recovery(logger))
	r.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusCreated, "application/json", body)
	})
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})
	return r
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var line map[string]any
		err := json.Unmarshal(sc.Bytes(), &line)
		assert.Equal(t, nil, err)
		lines = append(lines, line)
	}
	return lines
}

func TestRequestLogger_LogsBodyAndStatus(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)

	payload := `{"tweets":[{"id":"1"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/echo", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, payload, w.Body.String())
	assert.Equal(t, "", w.Header().Get(RequestIDHeader))

	lines := logLines(t, &buf)
	assert.Equal(t, 2, len(lines))

	assert.Equal(t, "request received", lines[0]["msg"])
	assert.Equal(t, "POST", lines[0]["method"])
	assert.Equal(t, "/echo", lines[0]["path"])
	assert.Equal(t, "req-42", lines[0]["request_id"])
	body, ok := lines[0]["body"].(map[string]any)
	assert.Equal(t, true, ok)
	assert.Equal(t, 1, len(body["tweets"].([]any)))

	assert.Equal(t, "response sent", lines[1]["msg"])
	assert.Equal(t, float64(http.StatusCreated), lines[1]["status"])
	assert.Equal(t, "req-42", lines[1]["request_id"])
}

func TestRequestLogger_NonJSONBodyNotLogged(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/echo", strings.NewReader("plain"))
	req.Header.Set("Content-Type", "text/plain")
	r.ServeHTTP(w, req)

	assert.Equal(t, "plain", w.Body.String())

	lines := logLines(t, &buf)
	_, ok := lines[0]["body"]
	assert.Equal(t, false, ok)
	assert.NotEqual(t, "", lines[0]["request_id"])
}

func TestRequestLogger_InvalidJSONLoggedAsText(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/echo", strings.NewReader(`{"tweets":`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	r.ServeHTTP(w, req)

	assert.Equal(t, `{"tweets":`, w.Body.String())

	lines := logLines(t, &buf)
	assert.Equal(t, `{"tweets":`, lines[0]["body"])
}

func TestRecovery_PanicBecomes500(t *testing.T) {
	var buf bytes.Buffer
	r := newLoggedRouter(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var res FailureResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res.Success)
	assert.Equal(t, "kaboom", res.Error)

	lines := logLines(t, &buf)
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "panic while handling request", lines[1]["msg"])
	assert.Equal(t, float64(http.StatusInternalServerError), lines[2]["status"])
}
