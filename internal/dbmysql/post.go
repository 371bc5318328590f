package dbmysql

import "time"

// Post is authored content. CreatedAt is set once on insert and is the sole
// sort key for every feed (newest first). AuthorID is immutable; GroupID is
// optional and survives group deletion as NULL.
type Post struct {
	PostID    uint64    `gorm:"primaryKey;column:post_id;autoIncrement" json:"post_id"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	AuthorID  uint64    `gorm:"column:author_id;not null" json:"author_id"`
	GroupID   *uint64   `gorm:"column:group_id" json:"group_id,omitempty"`
	ImagePath *string   `gorm:"column:image_path;size:255" json:"image_path,omitempty"`

	Author User   `gorm:"foreignKey:AuthorID;references:UserID;constraint:OnDelete:CASCADE" json:"author"`
	Group  *Group `gorm:"foreignKey:GroupID;references:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
}
