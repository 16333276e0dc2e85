package repository

import (
	"errors"
	"sync"
	"time"

	"abracodeabra/internal/model"
)

// ErrEmptyBatch is returned by Ingest when the batch carries no tweets.
var ErrEmptyBatch = errors.New("no tweets provided")

// TweetRepository keeps collected tweets in memory, in arrival order. State lives for
// the life of the process and is only cleared by Reset.
type TweetRepository struct {
	mu      sync.RWMutex
	tweets  []model.Tweet
	seen    map[string]struct{}
	summary model.Summary
	now     func() time.Time
}

func NewTweetRepository(now func() time.Time) *TweetRepository {
	if now == nil {
		now = time.Now
	}
	return &TweetRepository{
		seen: make(map[string]struct{}),
		now:  now,
	}
}

// Ingest appends every tweet whose id is not already stored, skipping repeats inside
// the batch as well, and returns how many were appended.
func (r *TweetRepository) Ingest(batch []model.Tweet) (int, error) {
	if len(batch) == 0 {
		return 0, ErrEmptyBatch
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var processed int
	for _, t := range batch {
		if _, ok := r.seen[t.ID.Key()]; ok {
			continue
		}
		t.CollectedAt = r.now()
		r.tweets = append(r.tweets, t)
		r.seen[t.ID.Key()] = struct{}{}
		processed++
	}

	// No per-day bucketing: every stored tweet counts as today's.
	last := r.now().Format(model.LastCollectionLayout)
	r.summary = model.Summary{
		TotalCollected: len(r.tweets),
		TodayCount:     len(r.tweets),
		LastCollection: &last,
	}

	return processed, nil
}

func (r *TweetRepository) Summary() (model.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.summary
	if s.LastCollection != nil {
		last := *s.LastCollection
		s.LastCollection = &last
	}
	return s, nil
}

func (r *TweetRepository) ListAll() ([]model.Tweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Tweet, len(r.tweets))
	copy(out, r.tweets)
	return out, nil
}

// ListRecent returns the last n tweets, oldest first.
func (r *TweetRepository) ListRecent(n int) ([]model.Tweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n <= 0 {
		return []model.Tweet{}, nil
	}
	if n > len(r.tweets) {
		n = len(r.tweets)
	}

	out := make([]model.Tweet, n)
	copy(out, r.tweets[len(r.tweets)-n:])
	return out, nil
}

func (r *TweetRepository) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tweets = nil
	r.seen = make(map[string]struct{})
	r.summary = model.Summary{}
	return nil
}
