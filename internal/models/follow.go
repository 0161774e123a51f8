package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow is a directed edge in the follow graph. Self-follows are rejected at
// the service layer.
type Follow struct {
	FollowerID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;primaryKey" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
