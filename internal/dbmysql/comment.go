package dbmysql

import "time"

// Comment attaches to exactly one post and is never edited or deleted on
// its own; deleting the post cascades to its comments.
type Comment struct {
	CommentID uint64    `gorm:"primaryKey;column:comment_id;autoIncrement" json:"comment_id"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	AuthorID  uint64    `gorm:"column:author_id;not null" json:"author_id"`
	PostID    uint64    `gorm:"column:post_id;not null;index" json:"post_id"`

	Author User `gorm:"foreignKey:AuthorID;references:UserID;constraint:OnDelete:CASCADE" json:"author"`
	Post   Post `gorm:"foreignKey:PostID;references:PostID;constraint:OnDelete:CASCADE" json:"-"`
}
