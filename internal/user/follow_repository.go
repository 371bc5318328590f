package user

import (
	"context"

	"gorm.io/gorm"

	"inkwell/internal/dbmysql"
)

type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *dbmysql.Follow) error
	DeleteFollow(ctx context.Context, userID, authorID uint64) error
	FollowExists(ctx context.Context, userID, authorID uint64) (bool, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) CreateFollow(ctx context.Context, follow *dbmysql.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

// DeleteFollow removes the edge if present. Deleting a missing edge is not
// an error.
func (r *followRepository) DeleteFollow(ctx context.Context, userID, authorID uint64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&dbmysql.Follow{}).Error
}

func (r *followRepository) FollowExists(ctx context.Context, userID, authorID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}
