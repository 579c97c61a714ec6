package config

import (
	"fmt"
	"strings"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ResendVerificationKey returns the throttle key for verification resends to an email.
func (r *CacheKeyStruct) ResendVerificationKey(email string) string {
	return fmt.Sprintf("verify:resend:%s", strings.ToLower(email))
}

// ClassroomEventsChannel returns the Redis PubSub channel name for a classroom's events.
func (r *CacheKeyStruct) ClassroomEventsChannel(classroomID string) string {
	return fmt.Sprintf("classroom:%s:events", classroomID)
}

var CacheKey = NewCacheKeyStruct()
