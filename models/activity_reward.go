package models

import (
	"fmt"
	"time"
)

// ActivityReward marks that an athlete produced a reward-eligible activity
// on a given day. At most one row exists per athlete per calendar day: the
// primary key is the deterministic RewardKey, so a second event on the same
// day has nowhere to go.
type ActivityReward struct {
	ID          string `gorm:"primaryKey;type:varchar(32)" json:"id"` // RewardKey(day, athlete)
	Address     string `gorm:"type:varchar(48);not null;index" json:"address"`
	AthleteID   int64  `gorm:"not null;index" json:"athlete_id"`
	ActivityID  int64  `gorm:"not null" json:"activity_id"`
	RewardDay   string `gorm:"type:varchar(8);not null;index" json:"reward_day"` // YYYYMMDD, kept for querying
	ActivityAt  string `gorm:"not null" json:"activity_at"`
	IsProcessed bool   `gorm:"default:false;index" json:"is_processed"`
	IsConfirmed bool   `gorm:"default:false" json:"is_confirmed"` // reserved for a later confirmation step

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RewardKey builds the dedup key for one athlete on one day. Pure function:
// same inputs always give the same key, different days or athletes never
// collide (the day segment is fixed-width, the separator cannot appear in
// either segment).
func RewardKey(day string, athleteID int64) string {
	return fmt.Sprintf("%s-%d", day, athleteID)
}

// DayOf formats a timestamp as a YYYYMMDD reward day.
func DayOf(t time.Time) string {
	return t.Format("20060102")
}
