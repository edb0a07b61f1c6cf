// Package constants centralizes Redis cache keys.
// Pattern: stagepass:{module}:{operation}:{identifier}:{params?}
package constants

import "fmt"

// AvailabilityKey caches the per-date availability summary of a show.
func AvailabilityKey(showID string) string {
	return fmt.Sprintf("stagepass:inventory:availability:%s", showID)
}

// SeatMapKey caches the seat map of a show for one calendar day.
func SeatMapKey(showID, dayKey string) string {
	return fmt.Sprintf("stagepass:inventory:seatmap:%s:%s", showID, dayKey)
}

// InventoryShowPattern matches every cached inventory read for a show.
// Issuance deletes this pattern so reads are never stale past the most
// recent successful sale.
func InventoryShowPattern(showID string) string {
	return fmt.Sprintf("stagepass:inventory:*:%s*", showID)
}

// RateLimitKey tracks request counts per client window.
func RateLimitKey(scope, clientIP string) string {
	return fmt.Sprintf("stagepass:ratelimit:%s:%s", scope, clientIP)
}
