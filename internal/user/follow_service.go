package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"inkwell/internal/common"
	"inkwell/internal/dbmysql"
)

// FollowService maintains the directed follower -> author edges. Both
// follow and unfollow are idempotent; the unique (user, author) index in
// the store is the authoritative guard against duplicate edges, so a race
// between two identical follow requests resolves to a single row.
type FollowService interface {
	Follow(ctx context.Context, follower common.Identity, authorUsername string) error
	Unfollow(ctx context.Context, follower common.Identity, authorUsername string) error
	IsFollowing(ctx context.Context, viewer common.Identity, authorID uint64) (bool, error)
}

type followService struct {
	userRepo   UserRepository
	followRepo FollowRepository
}

func NewFollowService(userRepo UserRepository, followRepo FollowRepository) FollowService {
	return &followService{userRepo: userRepo, followRepo: followRepo}
}

// Follow creates the edge from follower to the named author. Following
// yourself is silently ignored; following someone twice is a no-op.
func (s *followService) Follow(ctx context.Context, follower common.Identity, authorUsername string) error {
	if err := common.RequireAuthenticated(follower); err != nil {
		return err
	}

	author, err := s.userRepo.GetUserByUsername(ctx, authorUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %q", common.ErrNotFound, authorUsername)
		}
		return err
	}

	if author.UserID == follower.UserID {
		return nil
	}

	exists, err := s.followRepo.FollowExists(ctx, follower.UserID, author.UserID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = s.followRepo.CreateFollow(ctx, &dbmysql.Follow{
		UserID:   follower.UserID,
		AuthorID: author.UserID,
	})
	// A concurrent identical request may have inserted the edge between the
	// existence check and the insert; the unique index turns that into a
	// duplicate-key error, which is the outcome we wanted anyway.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Unfollow removes the edge to the named author. A missing edge is a
// silent no-op.
func (s *followService) Unfollow(ctx context.Context, follower common.Identity, authorUsername string) error {
	if err := common.RequireAuthenticated(follower); err != nil {
		return err
	}

	author, err := s.userRepo.GetUserByUsername(ctx, authorUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %q", common.ErrNotFound, authorUsername)
		}
		return err
	}

	return s.followRepo.DeleteFollow(ctx, follower.UserID, author.UserID)
}

// IsFollowing reports whether the viewer follows the author. Anonymous
// viewers are never following anyone; that is an answer, not an error.
func (s *followService) IsFollowing(ctx context.Context, viewer common.Identity, authorID uint64) (bool, error) {
	if viewer.IsAnonymous() {
		return false, nil
	}
	return s.followRepo.FollowExists(ctx, viewer.UserID, authorID)
}
