package handler

import (
	"bytes"
	"encoding/json"
	"errors"

	"abracodeabra/internal/model"
)

type CollectRequest struct {
	Tweets []model.Tweet `json:"tweets"`
}

// UnmarshalJSON rejects a bare null body; a missing or null tweets field is left to
// the handler's empty batch check.
func (r *CollectRequest) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return errors.New("request body must be a JSON object, got null")
	}
	type plain CollectRequest
	return json.Unmarshal(b, (*plain)(r))
}

type CollectResponse struct {
	Success   bool   `json:"success"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Message   string `json:"message"`
}

type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type StatsResponse struct {
	TodayCount     int           `json:"today_count"`
	TotalCount     int           `json:"total_count"`
	LastCollection *string       `json:"last_collection"`
	Recent         []model.Tweet `json:"recent"`
}

type TweetsResponse struct {
	Count  int           `json:"count"`
	Tweets []model.Tweet `json:"tweets"`
}

type ExportResponse struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Tweets     []model.Tweet `json:"tweets"`
}

type ResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
