package constants

import (
	"fmt"
	"strings"
	"time"
)

// Redis key layout for the CareBook backend.
// Pattern: carebook:{module}:{operation}:{identifier}

const keyPrefix = "carebook"

// ================== AUTH / LOCKOUT KEYS ==================

// LoginFailureKey counts failed login attempts per account inside the
// lockout window.
func LoginFailureKey(email string) string {
	return fmt.Sprintf("%s:auth:failures:%s", keyPrefix, normalizeKeyPart(email))
}

// AccountLockKey marks an account as locked. Its TTL is the remaining
// lock duration.
func AccountLockKey(email string) string {
	return fmt.Sprintf("%s:auth:lock:%s", keyPrefix, normalizeKeyPart(email))
}

// ================== APPOINTMENT CACHE ==================

// TTLAppointmentList bounds staleness of cached appointment listings.
const TTLAppointmentList = 2 * time.Minute

// AppointmentListKey caches a user's appointment listing.
func AppointmentListKey(userID string) string {
	return fmt.Sprintf("%s:appointments:list:%s", keyPrefix, userID)
}

// ================== RATE LIMIT KEYS ==================

// RateLimitKey is the per-IP, per-category rate limit window.
func RateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("%s:ratelimit:%s:%s", keyPrefix, clientIP, limitType)
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
