package models

import (
	"time"
)

// Draft is an entry written while logged out. It only lives in the local
// database until it is pushed to the server.
type Draft struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date     string `gorm:"uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	Grateful string `json:"grateful"`
	Sad      string `json:"sad"`
	Angry    string `json:"angry"`
	Notes    string `json:"notes"`
	Mood     int    `gorm:"default:3" json:"mood"`
}

// Request converts the draft into a save request for the server
func (d Draft) Request() RecordRequest {
	return RecordRequest{
		Date:     d.Date,
		Grateful: d.Grateful,
		Sad:      d.Sad,
		Angry:    d.Angry,
		Notes:    d.Notes,
		Mood:     d.Mood,
	}
}

// KVEntry is a single durable client setting, such as a stored token
type KVEntry struct {
	Key       string    `gorm:"primaryKey;column:name"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time
}
