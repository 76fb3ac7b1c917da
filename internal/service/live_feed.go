package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/tkrcet/attendance-backend/internal/config"
	"github.com/tkrcet/attendance-backend/internal/model"
)

// LiveFeed fans freshly marked records out to per-section Redis PubSub
// channels so dashboards can watch attendance land in real time.
type LiveFeed struct {
	rdb *redis.Client
}

// NewLiveFeed creates a LiveFeed over the given Redis client.
func NewLiveFeed(rdb *redis.Client) *LiveFeed {
	return &LiveFeed{rdb: rdb}
}

// FeedEvent is the wire shape published for each created or updated record.
type FeedEvent struct {
	Date    string                  `json:"date"`
	Period  int                     `json:"period"`
	Subject string                  `json:"subject"`
	Entries []model.AttendanceEntry `json:"attendance"`
}

// PublishRecord publishes a record to its section's feed channel.
func (f *LiveFeed) PublishRecord(ctx context.Context, rec *model.AttendanceRecord) error {
	payload, err := json.Marshal(FeedEvent{
		Date:    rec.Date,
		Period:  rec.Period,
		Subject: rec.Subject,
		Entries: rec.Entries,
	})
	if err != nil {
		return err
	}
	channel := config.CacheKey.SectionFeedChannel(rec.Year, rec.Department, rec.Section)
	return f.rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe opens a PubSub subscription on a section's feed channel. The
// caller owns the subscription and must Close it.
func (f *LiveFeed) Subscribe(ctx context.Context, year, department, section string) *redis.PubSub {
	channel := config.CacheKey.SectionFeedChannel(year, department, section)
	return f.rdb.Subscribe(ctx, channel)
}
