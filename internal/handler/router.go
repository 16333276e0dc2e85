package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	// Empty allows any origin; browser extensions call from chrome-extension:// origins.
	AllowedOrigins []string
	FeedSize       int
	Logger         *slog.Logger
}

// NewRouter wires every route over a single shared store.
func NewRouter(store TweetStore, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(RequestLogger(logger), Recovery(logger))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	tweets := NewTweetHandler(store)
	dashboard := NewDashboardHandler(store)
	feed := NewFeedHandler(store, cfg.FeedSize)

	r.GET("/", dashboard.GetDashboard)

	api := r.Group("/api")
	api.GET("/health", tweets.GetHealth)
	api.POST("/extension/collect", tweets.Collect)
	api.GET("/extension/stats", tweets.GetStats)
	api.GET("/tweets", tweets.GetTweets)
	api.GET("/tweets/export", tweets.ExportTweets)
	api.GET("/tweets/feed.rss", feed.GetRSS)
	api.GET("/tweets/feed.atom", feed.GetAtom)
	api.GET("/tweets/feed.json", feed.GetJSON)
	api.POST("/reset", tweets.Reset)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:           []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:           []string{"Origin", "Content-Type", RequestIDHeader},
		AllowBrowserExtensions: true,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
