package main

import (
	"log"
	"log/slog"
	"os"

	"abracodeabra/internal/config"
	"abracodeabra/internal/handler"
	"abracodeabra/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	godotenv.Load()

	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	gin.SetMode(cfg.GinMode)

	tweetRepo := repository.NewTweetRepository(nil)

	r := handler.NewRouter(tweetRepo, handler.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		FeedSize:       cfg.FeedSize,
		Logger:         logger,
	})

	slog.Info("cors origins", "allowed", cfg.AllowedOrigins, "any", len(cfg.AllowedOrigins) == 0)
	slog.Info("server starting",
		"addr", cfg.Addr(),
		"dashboard", "http://localhost:"+cfg.Port,
		"collect_endpoint", "http://localhost:"+cfg.Port+"/api/extension/collect",
	)

	err := r.Run(cfg.Addr())
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
