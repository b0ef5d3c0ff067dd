package models

import "time"

// Follow is a directed edge: UserID follows FollowingID.
// The composite primary key keeps at most one edge per pair.
type Follow struct {
	UserID      string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	FollowingID string    `gorm:"type:uuid;primaryKey;index" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	User      *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Follow) TableName() string {
	return "user_following"
}
