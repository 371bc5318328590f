package dbmysql

import "time"

// Follow is a directed edge from a reader (UserID) to an author they follow.
// The composite unique index is the authoritative guard against duplicate
// edges; the service-level existence check is only an optimization.
type Follow struct {
	FollowID  uint64    `gorm:"primaryKey;column:follow_id;autoIncrement" json:"follow_id"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_user_author,unique" json:"user_id"`
	AuthorID  uint64    `gorm:"column:author_id;not null;index:idx_user_author,unique" json:"author_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	User   User `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author User `gorm:"foreignKey:AuthorID;references:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
