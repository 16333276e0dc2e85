package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/big"
	"time"
)

// LastCollectionLayout is the clock-only layout used for Summary.LastCollection.
const LastCollectionLayout = "15:04:05"

// TweetID is the external identifier of a collected post. Collectors usually send a
// JSON string or number, but any JSON value is kept. The literal token is echoed back
// exactly as received; Key gives the value used for duplicate detection. The zero
// value is an absent id.
type TweetID struct {
	raw string
	key string
}

// NewTweetID returns a string-typed id.
func NewTweetID(s string) TweetID {
	b, _ := json.Marshal(s)
	return TweetID{raw: string(b), key: "s:" + s}
}

func (id TweetID) IsZero() bool {
	return id.raw == ""
}

// Key identifies the id for deduplication. Strings and numbers never collide, and
// numbers compare by value, so 1, 1.0 and 1e0 share a key.
func (id TweetID) Key() string {
	return id.key
}

// String returns the id without JSON quoting, suitable for building URLs.
func (id TweetID) String() string {
	if id.raw == "" {
		return ""
	}
	if id.raw[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(id.raw), &s); err == nil {
			return s
		}
	}
	return id.raw
}

func (id TweetID) MarshalJSON() ([]byte, error) {
	if id.raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.raw), nil
}

func (id *TweetID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = TweetID{}
		return nil
	}

	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = NewTweetID(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*id = TweetID{raw: n.String(), key: "n:" + canonicalNumber(n.String())}
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*id = TweetID{raw: buf.String(), key: "r:" + buf.String()}
	}
	return nil
}

// canonicalNumber renders a JSON number exactly, so ids beyond float64 precision
// stay distinct.
func canonicalNumber(s string) string {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return s
	}
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}

// Tweet is a single collected post. Every field except CollectedAt is optional and
// stays nil when the collector did not send it.
type Tweet struct {
	ID          TweetID   `json:"id"`
	Content     *string   `json:"content"`
	Author      *string   `json:"author"`
	CreatedAt   *string   `json:"created_at"`
	URL         *string   `json:"url"`
	CollectedAt time.Time `json:"collected_at"`
}

// UnmarshalJSON accepts the browser extension's field names (tweet_id,
// author_username) next to the canonical ones. Canonical names win when both are set.
// Fields are not validated: a non-string value is kept as its JSON text. A client
// supplied collected_at is ignored; the store assigns it.
func (t *Tweet) UnmarshalJSON(b []byte) error {
	var in struct {
		ID             *TweetID        `json:"id"`
		TweetID        *TweetID        `json:"tweet_id"`
		Content        json.RawMessage `json:"content"`
		Author         json.RawMessage `json:"author"`
		AuthorUsername json.RawMessage `json:"author_username"`
		CreatedAt      json.RawMessage `json:"created_at"`
		URL            json.RawMessage `json:"url"`
	}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return errors.New("tweet must be a JSON object, got null")
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	out := Tweet{
		Content:   looseString(in.Content),
		Author:    looseString(in.Author),
		CreatedAt: looseString(in.CreatedAt),
		URL:       looseString(in.URL),
	}
	switch {
	case in.ID != nil:
		out.ID = *in.ID
	case in.TweetID != nil:
		out.ID = *in.TweetID
	}
	if out.Author == nil {
		out.Author = looseString(in.AuthorUsername)
	}

	*t = out
	return nil
}

// looseString returns a JSON string's value, the compact JSON text of any other
// value, and nil for a missing or null field.
func looseString(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return &s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		s = string(raw)
	} else {
		s = buf.String()
	}
	return &s
}

// Summary holds the aggregate counters shown on the dashboard and in the popup.
type Summary struct {
	TotalCollected int     `json:"total_collected"`
	TodayCount     int     `json:"today_count"`
	LastCollection *string `json:"last_collection"`
}

// StringValue dereferences an optional field, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
