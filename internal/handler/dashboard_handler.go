package handler

import (
	"embed"
	"html"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"abracodeabra/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/microcosm-cc/bluemonday"
)

const (
	dashboardTweetLimit = 10
	dashboardRefresh    = 5 * time.Second
	statusURLPrefix     = "https://twitter.com/i/web/status/"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

var htmlStripper = bluemonday.StrictPolicy()

type DashboardHandler struct {
	repository TweetStore
}

func NewDashboardHandler(repository TweetStore) *DashboardHandler {
	return &DashboardHandler{repository: repository}
}

type dashboardPage struct {
	TotalCollected int
	TodayCount     int
	LastCollection string
	Tweets         []dashboardTweet
	CollectURL     string
	RefreshMillis  int64
	RefreshSeconds int
}

type dashboardTweet struct {
	Author  string
	Date    string
	Link    string
	Content string
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	summary, err := h.repository.Summary()
	if err != nil {
		slog.Error("error fetching summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	recent, err := h.repository.ListRecent(dashboardTweetLimit)
	if err != nil {
		slog.Error("error fetching recent tweets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page := dashboardPage{
		TotalCollected: summary.TotalCollected,
		TodayCount:     summary.TodayCount,
		LastCollection: "Never",
		Tweets:         make([]dashboardTweet, 0, len(recent)),
		CollectURL:     "http://" + c.Request.Host + "/api/extension/collect",
		RefreshMillis:  dashboardRefresh.Milliseconds(),
		RefreshSeconds: int(dashboardRefresh.Seconds()),
	}
	if summary.LastCollection != nil {
		page.LastCollection = *summary.LastCollection
	}

	// newest first
	slices.Reverse(recent)
	for _, t := range recent {
		page.Tweets = append(page.Tweets, dashboardTweet{
			Author:  model.StringValue(t.Author),
			Date:    truncate(model.StringValue(t.CreatedAt), 10),
			Link:    statusURL(t.ID),
			Content: stripHTML(model.StringValue(t.Content)),
		})
	}

	c.Render(http.StatusOK, render.HTML{
		Template: dashboardTemplate,
		Name:     "dashboard.html",
		Data:     page,
	})
}

func statusURL(id model.TweetID) string {
	return statusURLPrefix + url.PathEscape(id.String())
}

// stripHTML removes markup from user supplied text, leaving plain text for the template
// to escape.
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlStripper.Sanitize(s)))
}

// truncate returns at most n runes of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
