package model

import "time"

// Session is the singleton row holding the signed-in user. Overwritten on
// login, cleared on logout.
type Session struct {
	UserID      string    `db:"user_id"`
	WarehouseID string    `db:"warehouse_id"`
	ExpiresAt   time.Time `db:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
