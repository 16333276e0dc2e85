package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"abracodeabra/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"
)

const feedTitleRunes = 80

// Layouts tried, in order, when reading the collector's created_at.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// FeedHandler serves the collected tweets as RSS, Atom and JSON Feed.
type FeedHandler struct {
	repository TweetStore
	size       int
	now        func() time.Time
}

func NewFeedHandler(repository TweetStore, size int) *FeedHandler {
	if size < 1 {
		size = 50
	}
	return &FeedHandler{repository: repository, size: size, now: time.Now}
}

func (h *FeedHandler) GetRSS(c *gin.Context) {
	h.serve(c, "application/rss+xml; charset=utf-8", (*feeds.Feed).ToRss)
}

func (h *FeedHandler) GetAtom(c *gin.Context) {
	h.serve(c, "application/atom+xml; charset=utf-8", (*feeds.Feed).ToAtom)
}

func (h *FeedHandler) GetJSON(c *gin.Context) {
	h.serve(c, "application/feed+json; charset=utf-8", (*feeds.Feed).ToJSON)
}

func (h *FeedHandler) serve(c *gin.Context, contentType string, encode func(*feeds.Feed) (string, error)) {
	tweets, err := h.repository.ListAll()
	if err != nil {
		slog.Error("error listing tweets for feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out, err := encode(h.buildFeed(c.Request.Host, tweets))
	if err != nil {
		slog.Error("error encoding feed", "content_type", contentType, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, contentType, []byte(out))
}

func (h *FeedHandler) buildFeed(host string, tweets []model.Tweet) *feeds.Feed {
	items := make([]*feeds.Item, 0, min(len(tweets), h.size))

	for i := len(tweets) - 1; i >= 0 && len(items) < h.size; i-- {
		t := tweets[i]
		author := model.StringValue(t.Author)
		content := stripHTML(model.StringValue(t.Content))

		link := model.StringValue(t.URL)
		if link == "" {
			link = statusURL(t.ID)
		}

		items = append(items, &feeds.Item{
			Id:          t.ID.String(),
			Title:       fmt.Sprintf("@%s: %s", author, truncate(content, feedTitleRunes)),
			Link:        &feeds.Link{Href: link},
			Description: content,
			Author:      &feeds.Author{Name: author},
			Created:     createdAt(t),
		})
	}

	return &feeds.Feed{
		Title:       "Abra Code Abra feedback",
		Link:        &feeds.Link{Href: "http://" + host + "/"},
		Description: "Feedback collected by the Abra Code Abra browser extension",
		Author:      &feeds.Author{Name: "Abra Code Abra"},
		Created:     h.now().UTC(),
		Items:       items,
	}
}

func createdAt(t model.Tweet) time.Time {
	if t.CreatedAt != nil {
		for _, layout := range createdAtLayouts {
			if ts, err := time.Parse(layout, *t.CreatedAt); err == nil {
				return ts
			}
		}
	}
	return t.CollectedAt
}
