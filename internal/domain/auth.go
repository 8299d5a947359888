package domain

import "time"

// Claims identifies the caller behind an access token.
type Claims struct {
	UserID    string
	IsAdmin   bool
	ExpiresAt time.Time
}

// CanActOn reports whether the caller may modify a resource owned by ownerID.
func (c *Claims) CanActOn(ownerID string) bool {
	return c != nil && (c.IsAdmin || c.UserID == ownerID)
}
