package models

import (
	"time"
)

// UserLink is the durable association between one Strava athlete and one
// dHealth address, together with the OAuth credentials returned by the
// token exchange. Keyed by the athlete id so a re-link from the same
// athlete merges into the existing row instead of duplicating it.
type UserLink struct {
	AthleteID       int64  `gorm:"primaryKey" json:"athlete_id"`
	Address         string `gorm:"type:varchar(48);not null;uniqueIndex" json:"address"`
	AccessToken     string `gorm:"not null" json:"-"`
	RefreshToken    string `gorm:"not null" json:"-"`
	AccessExpiresAt int64  `json:"access_expires_at"` // epoch seconds, from the provider
	LinkedAt        int64  `json:"linked_at"`         // epoch milliseconds, set at merge time

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
