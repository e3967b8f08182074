package models

import "time"

// Obituary is the record kept after a pet is removed from the store.
type Obituary struct {
	ID        string        `json:"id"`
	UserID    int64         `json:"user_id"`
	Name      string        `json:"name"`
	Reason    string        `json:"reason"`
	Age       time.Duration `json:"age"`
	DiedAt    time.Time     `json:"died_at"`
	LastLevel int           `json:"last_level"`
}
