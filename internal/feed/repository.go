package feed

import (
	"context"

	"gorm.io/gorm"

	"inkwell/internal/dbmysql"
)

// feedOrder is the one ordering every listing uses: newest first, with the
// row id breaking created_at ties so pages are stable.
const feedOrder = "created_at DESC, post_id DESC"

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// --------- POSTS ---------

type Posts interface {
	CreatePost(ctx context.Context, post *dbmysql.Post) error
	GetPostByID(ctx context.Context, id uint64) (*dbmysql.Post, error)
	UpdatePost(ctx context.Context, post *dbmysql.Post) error
	DeletePost(ctx context.Context, id uint64) error
	ListPosts(ctx context.Context, offset, limit int) ([]dbmysql.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	ListGroupPosts(ctx context.Context, groupID uint64, offset, limit int) ([]dbmysql.Post, error)
	CountGroupPosts(ctx context.Context, groupID uint64) (int64, error)
	ListAuthorPosts(ctx context.Context, authorID uint64, offset, limit int) ([]dbmysql.Post, error)
	CountAuthorPosts(ctx context.Context, authorID uint64) (int64, error)
	ListFollowedPosts(ctx context.Context, userID uint64, offset, limit int) ([]dbmysql.Post, error)
	CountFollowedPosts(ctx context.Context, userID uint64) (int64, error)
}

func (r *FeedRepository) CreatePost(ctx context.Context, post *dbmysql.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *FeedRepository) GetPostByID(ctx context.Context, id uint64) (*dbmysql.Post, error) {
	var post dbmysql.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, "post_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost persists the author-editable columns only. AuthorID and
// CreatedAt are immutable after creation.
func (r *FeedRepository) UpdatePost(ctx context.Context, post *dbmysql.Post) error {
	return r.db.WithContext(ctx).
		Model(&dbmysql.Post{PostID: post.PostID}).
		Select("text", "group_id", "image_path").
		Updates(map[string]interface{}{
			"text":       post.Text,
			"group_id":   post.GroupID,
			"image_path": post.ImagePath,
		}).Error
}

// DeletePost removes a post and its comments in one transaction. The FK
// already cascades at the storage layer; the explicit comment delete keeps
// the behaviour identical on backends without cascade support.
func (r *FeedRepository) DeletePost(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&dbmysql.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&dbmysql.Post{}, "post_id = ?", id).Error
	})
}

func (r *FeedRepository) ListPosts(ctx context.Context, offset, limit int) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Order(feedOrder).
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Post{}).Count(&count).Error
	return count, err
}

func (r *FeedRepository) ListGroupPosts(ctx context.Context, groupID uint64, offset, limit int) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("group_id = ?", groupID).
		Order(feedOrder).
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) CountGroupPosts(ctx context.Context, groupID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Post{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *FeedRepository) ListAuthorPosts(ctx context.Context, authorID uint64, offset, limit int) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("author_id = ?", authorID).
		Order(feedOrder).
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) CountAuthorPosts(ctx context.Context, authorID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// ListFollowedPosts is the personal feed: every post whose author the given
// user follows.
func (r *FeedRepository) ListFollowedPosts(ctx context.Context, userID uint64, offset, limit int) ([]dbmysql.Post, error) {
	var posts []dbmysql.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID).
		Order(feedOrder).
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *FeedRepository) CountFollowedPosts(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Post{}).
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// --------- GROUPS ---------

type Groups interface {
	CreateGroup(ctx context.Context, group *dbmysql.Group) error
	GetGroupByID(ctx context.Context, id uint64) (*dbmysql.Group, error)
	GetGroupBySlug(ctx context.Context, slug string) (*dbmysql.Group, error)
	DeleteGroup(ctx context.Context, id uint64) error
}

func (r *FeedRepository) CreateGroup(ctx context.Context, group *dbmysql.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *FeedRepository) GetGroupByID(ctx context.Context, id uint64) (*dbmysql.Group, error) {
	var group dbmysql.Group
	err := r.db.WithContext(ctx).First(&group, "group_id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *FeedRepository) GetGroupBySlug(ctx context.Context, slug string) (*dbmysql.Group, error) {
	var group dbmysql.Group
	err := r.db.WithContext(ctx).First(&group, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// DeleteGroup clears the group reference on its posts inside the same
// transaction, then removes the group. Posts are never deleted with their
// group.
func (r *FeedRepository) DeleteGroup(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&dbmysql.Post{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&dbmysql.Group{}, "group_id = ?", id).Error
	})
}

// --------- COMMENTS ---------

type Comments interface {
	CreateComment(ctx context.Context, comment *dbmysql.Comment) error
	ListPostComments(ctx context.Context, postID uint64, offset, limit int) ([]dbmysql.Comment, error)
	CountPostComments(ctx context.Context, postID uint64) (int64, error)
}

func (r *FeedRepository) CreateComment(ctx context.Context, comment *dbmysql.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *FeedRepository) ListPostComments(ctx context.Context, postID uint64, offset, limit int) ([]dbmysql.Comment, error) {
	var comments []dbmysql.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC, comment_id DESC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *FeedRepository) CountPostComments(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
