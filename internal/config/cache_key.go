package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's login session.
// Faculty tokens are stateless; only students get a session entry.
func (r *CacheKeyStruct) StudentSessionKey(rollNumber string) string {
	return fmt.Sprintf("login:student:%s", rollNumber)
}

// SectionFeedChannel returns the Redis PubSub channel for a section's
// live attendance feed.
func (r *CacheKeyStruct) SectionFeedChannel(year, department, section string) string {
	return fmt.Sprintf("attendance:%s:%s:%s:feed", year, department, section)
}

var CacheKey = NewCacheKeyStruct()
