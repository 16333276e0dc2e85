package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"abracodeabra/internal/model"
	"abracodeabra/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	statsRecentLimit = 5
	noTweetsMessage  = "No tweets provided"
	healthyMessage   = "Backend is running!"
	resetDoneMessage = "All data reset"
)

type TweetStore interface {
	Ingest(batch []model.Tweet) (int, error)
	Summary() (model.Summary, error)
	ListAll() ([]model.Tweet, error)
	ListRecent(n int) ([]model.Tweet, error)
	Reset() error
}

type TweetHandler struct {
	repository TweetStore
	now        func() time.Time
}

func NewTweetHandler(repository TweetStore) *TweetHandler {
	return &TweetHandler{repository: repository, now: time.Now}
}

func (h *TweetHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Message:   healthyMessage,
		Timestamp: h.now().Format(time.RFC3339),
	})
}

// Collect receives a batch from the browser extension.
func (h *TweetHandler) Collect(c *gin.Context) {
	var req CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("error decoding collect request", "error", err)
		c.JSON(http.StatusInternalServerError, FailureResponse{Error: err.Error()})
		return
	}

	if len(req.Tweets) == 0 {
		c.JSON(http.StatusBadRequest, FailureResponse{Error: noTweetsMessage})
		return
	}

	processed, err := h.repository.Ingest(req.Tweets)
	if errors.Is(err, repository.ErrEmptyBatch) {
		c.JSON(http.StatusBadRequest, FailureResponse{Error: noTweetsMessage})
		return
	}
	if err != nil {
		slog.Error("error ingesting tweets", "error", err)
		c.JSON(http.StatusInternalServerError, FailureResponse{Error: err.Error()})
		return
	}

	summary, err := h.repository.Summary()
	if err != nil {
		slog.Error("error fetching summary", "error", err)
		c.JSON(http.StatusInternalServerError, FailureResponse{Error: err.Error()})
		return
	}

	slog.Info("tweets collected", "processed", processed, "received", len(req.Tweets), "total", summary.TotalCollected)

	c.JSON(http.StatusOK, CollectResponse{
		Success:   true,
		Processed: processed,
		Total:     len(req.Tweets),
		Message:   fmt.Sprintf("Successfully collected %d tweet(s)", processed),
	})
}

func (h *TweetHandler) GetStats(c *gin.Context) {
	summary, err := h.repository.Summary()
	if err != nil {
		slog.Error("error fetching summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	recent, err := h.repository.ListRecent(statsRecentLimit)
	if err != nil {
		slog.Error("error fetching recent tweets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		TodayCount:     summary.TodayCount,
		TotalCount:     summary.TotalCollected,
		LastCollection: summary.LastCollection,
		Recent:         nonNil(recent),
	})
}

func (h *TweetHandler) GetTweets(c *gin.Context) {
	tweets, err := h.repository.ListAll()
	if err != nil {
		slog.Error("error listing tweets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, TweetsResponse{
		Count:  len(tweets),
		Tweets: nonNil(tweets),
	})
}

func (h *TweetHandler) ExportTweets(c *gin.Context) {
	tweets, err := h.repository.ListAll()
	if err != nil {
		slog.Error("error exporting tweets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ExportResponse{
		ExportedAt: h.now().Format(time.RFC3339),
		Count:      len(tweets),
		Tweets:     nonNil(tweets),
	})
}

func (h *TweetHandler) Reset(c *gin.Context) {
	if err := h.repository.Reset(); err != nil {
		slog.Error("error resetting tweets", "error", err)
		c.JSON(http.StatusInternalServerError, FailureResponse{Error: err.Error()})
		return
	}

	slog.Info("all data reset")
	c.JSON(http.StatusOK, ResetResponse{Success: true, Message: resetDoneMessage})
}

func nonNil(tweets []model.Tweet) []model.Tweet {
	if tweets == nil {
		return []model.Tweet{}
	}
	return tweets
}
