package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamSessionKey returns the cache key holding a student's in-progress exam session.
func (r *CacheKeyStruct) ExamSessionKey(userID int) string {
	return fmt.Sprintf("student:%d:exam_session", userID)
}

var CacheKey = NewCacheKeyStruct()
