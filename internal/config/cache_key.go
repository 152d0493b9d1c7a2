package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CourseStructureKey returns the cache key for a course's immutable
// module/content tree. Progress is never cached under this key — it is
// per-learner and always read fresh from the LMS.
func (r *CacheKeyStruct) CourseStructureKey(courseID string) string {
	return fmt.Sprintf("course:%s:structure", courseID)
}

// CourseSlugKey returns the cache key mapping a course slug to its ID.
func (r *CacheKeyStruct) CourseSlugKey(slug string) string {
	return fmt.Sprintf("course:slug:%s", slug)
}

var CacheKey = NewCacheKeyStruct()
