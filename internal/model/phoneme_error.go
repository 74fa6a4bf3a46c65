package model

import "time"

// PhonemeError is the drill-priority multiset: how often each error
// category has been observed for a user. Composite key (user, type);
// queried count-descending to pick what to drill next.
type PhonemeError struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ErrorType string    `gorm:"primaryKey;size:50" json:"errorType"`
	Count     int       `gorm:"default:0" json:"count"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (PhonemeError) TableName() string {
	return "phoneme_errors"
}
