package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CatalogKey returns the cache key for the decoded quiz catalog.
func (r *CacheKeyStruct) CatalogKey() string {
	return "catalog:quizzes"
}

// LaunchKey returns the cache key holding a session's launch payload.
// The slot is consumed when the quiz screen opens.
func (r *CacheKeyStruct) LaunchKey(sessionID string) string {
	return fmt.Sprintf("session:%s:launch", sessionID)
}

// SessionActiveKey marks a session whose quiz screen is currently open.
func (r *CacheKeyStruct) SessionActiveKey(sessionID string) string {
	return fmt.Sprintf("session:%s:active", sessionID)
}

var CacheKey = NewCacheKeyStruct()
