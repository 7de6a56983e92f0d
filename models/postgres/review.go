package postgres

import (
	"time"
)

/*
 * 'Review' is a user's rating of one game. Only ids are stored, no object
 * graph; the owning user is checked at the service layer on update/delete.
 */
type Review struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	GameID    uint      `gorm:"not null;index"`
	Rating    int       `gorm:"not null"`
	Content   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
