package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// PlaySessionKey returns the key holding the quiz id a play session is bound to
func (r *CacheKeyStruct) PlaySessionKey(sessionID string) string {
	return fmt.Sprintf("play:%s:session", sessionID)
}

// PlayAnswersKey returns the cache key for a play session's answers
func (r *CacheKeyStruct) PlayAnswersKey(sessionID string) string {
	return fmt.Sprintf("play:%s:answers", sessionID)
}

// PlayResultKey returns the cache key for a play session's frozen result
func (r *CacheKeyStruct) PlayResultKey(sessionID string) string {
	return fmt.Sprintf("play:%s:result", sessionID)
}

var CacheKey = NewCacheKeyStruct()
