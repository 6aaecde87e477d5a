package model

import "time"

// Category classifies expenses within a profile.
type Category struct {
	CreatedAt    time.Time
	Name         string
	ID           int64
	ProfileID    int64
	DisplayOrder int
}
