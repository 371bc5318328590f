package dbmysql

// Group is a named community posts may be filed under. Groups are only ever
// created; deleting one clears the reference on its posts, never the posts.
type Group struct {
	GroupID     uint64 `gorm:"primaryKey;column:group_id;autoIncrement" json:"group_id"`
	Title       string `gorm:"column:title;size:200;not null" json:"title"`
	Slug        string `gorm:"column:slug;uniqueIndex;size:200;not null" json:"slug"`
	Description string `gorm:"column:description;type:text" json:"description"`
}
