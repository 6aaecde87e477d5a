package model

import "time"

// Profile is the top-level ownership scope. Every account, card, category,
// due, and expense belongs to exactly one profile.
type Profile struct {
	CreatedAt time.Time
	Name      string
	ID        int64
}
