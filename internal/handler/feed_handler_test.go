package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"abracodeabra/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

func newTestFeedRouter(store TweetStore, size int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewFeedHandler(store, size)
	r.GET("/api/tweets/feed.rss", h.GetRSS)
	r.GET("/api/tweets/feed.atom", h.GetAtom)
	r.GET("/api/tweets/feed.json", h.GetJSON)
	return r
}

func seededRepoForFeed(n int) TweetStore {
	repo := newRepo()
	var batch []model.Tweet
	for i := 1; i <= n; i++ {
		batch = append(batch, model.Tweet{
			ID:        model.NewTweetID(fmt.Sprint(i)),
			Content:   strPtr(fmt.Sprintf("feedback number %d", i)),
			Author:    strPtr("tester"),
			CreatedAt: strPtr(fmt.Sprintf("2024-01-%02dT10:00:00.000Z", i)),
		})
	}
	repo.Ingest(batch)
	return repo
}

func TestGetRSS(t *testing.T) {
	r := newTestFeedRouter(seededRepoForFeed(3), 2)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/tweets/feed.rss", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Equal(t, true, strings.Contains(body, "<rss"))
	assert.Equal(t, 2, strings.Count(body, "<item>"))
	assert.Equal(t, true, strings.Contains(body, "@tester: feedback number 3"))
	assert.Equal(t, false, strings.Contains(body, "feedback number 1"))
	assert.Equal(t, true, strings.Index(body, "feedback number 3") < strings.Index(body, "feedback number 2"))
}

func TestGetAtom(t *testing.T) {
	r := newTestFeedRouter(seededRepoForFeed(1), 10)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/tweets/feed.atom", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, true, strings.Contains(body, "<feed"))
	assert.Equal(t, true, strings.Contains(body, "https://twitter.com/i/web/status/1"))
}

func TestGetJSONFeed(t *testing.T) {
	r := newTestFeedRouter(seededRepoForFeed(4), 10)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/tweets/feed.json", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Items []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"items"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, nil, err)
	assert.Equal(t, 4, len(res.Items))
	assert.Equal(t, "4", res.Items[0].ID)
}

func TestGetRSS_StoreError(t *testing.T) {
	r := newTestFeedRouter(&fakeStore{err: errors.New("DB down")}, 10)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/tweets/feed.rss", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreatedAt(t *testing.T) {
	collected := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt *string
		want      time.Time
	}{
		{name: "rfc3339 with millis", createdAt: strPtr("2024-03-01T10:00:00.000Z"), want: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{name: "no zone", createdAt: strPtr("2024-01-01T00:00:00"), want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "date only", createdAt: strPtr("2024-02-02"), want: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)},
		{name: "garbage falls back", createdAt: strPtr("yesterday"), want: collected},
		{name: "missing falls back", createdAt: nil, want: collected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := createdAt(model.Tweet{CreatedAt: tt.createdAt, CollectedAt: collected})
			assert.Equal(t, true, got.Equal(tt.want))
		})
	}
}
