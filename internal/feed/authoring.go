package feed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"inkwell/internal/common"
	"inkwell/internal/dbmongo"
	"inkwell/internal/dbmysql"
)

// ImageStore uploads post images and hands back a stable file id the post
// row stores as its image path. Implemented by the GridFS storage.
type ImageStore interface {
	Upload(ctx context.Context, filename string, uploaderID uint64, content io.Reader) (*dbmongo.ImageFile, error)
}

// PostInput is a create/edit submission. Image is optional; a nil reader
// means "no image attached" on create and "keep the current image" on edit.
type PostInput struct {
	Text      string
	GroupID   *uint64
	Image     io.Reader
	ImageName string
}

// CommentInput is an add-comment submission.
type CommentInput struct {
	Text string
}

// AuthoringService validates and persists posts and comments. Ownership
// checks happen here, before anything touches the store.
type AuthoringService struct {
	posts    Posts
	groups   Groups
	comments Comments
	images   ImageStore
}

func NewAuthoringService(p Posts, g Groups, c Comments, img ImageStore) *AuthoringService {
	return &AuthoringService{
		posts:    p,
		groups:   g,
		comments: c,
		images:   img,
	}
}

// CreatePost persists a new post for the caller. Empty text fails
// validation and nothing is stored. The creation timestamp is set by the
// store on insert and never changes afterwards.
func (s *AuthoringService) CreatePost(ctx context.Context, identity common.Identity, in PostInput) (*dbmysql.Post, error) {
	if err := common.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	if err := common.ValidatePostText(in.Text); err != nil {
		return nil, err
	}
	groupID, err := s.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	post := &dbmysql.Post{
		Text:     in.Text,
		AuthorID: identity.UserID,
		GroupID:  groupID,
	}

	if in.Image != nil {
		image, err := s.images.Upload(ctx, in.ImageName, identity.UserID, in.Image)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		post.ImagePath = &image.ID
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// EditPost updates text, group, and image of an existing post. Only the
// author may edit; anyone else gets ErrUnauthorized and the post is left
// untouched. CreatedAt is never altered.
func (s *AuthoringService) EditPost(ctx context.Context, identity common.Identity, postID uint64, in PostInput) (*dbmysql.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", common.ErrNotFound, postID)
		}
		return nil, err
	}
	if err := common.RequireOwner(identity, post.AuthorID); err != nil {
		return nil, err
	}
	if err := common.ValidatePostText(in.Text); err != nil {
		return nil, err
	}
	groupID, err := s.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = groupID

	if in.Image != nil {
		image, err := s.images.Upload(ctx, in.ImageName, identity.UserID, in.Image)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		post.ImagePath = &image.ID
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// AddComment attaches a comment to an existing post. The post is looked up
// before the insert so a bad post id is a clean not-found instead of a
// dangling foreign key error.
func (s *AuthoringService) AddComment(ctx context.Context, identity common.Identity, postID uint64, in CommentInput) (*dbmysql.Comment, error) {
	if err := common.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	if err := common.ValidateCommentText(in.Text); err != nil {
		return nil, err
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", common.ErrNotFound, postID)
		}
		return nil, err
	}

	comment := &dbmysql.Comment{
		Text:     in.Text,
		AuthorID: identity.UserID,
		PostID:   postID,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// resolveGroup checks that a submitted group id exists. A nil id means the
// post is not filed under any group.
func (s *AuthoringService) resolveGroup(ctx context.Context, groupID *uint64) (*uint64, error) {
	if groupID == nil {
		return nil, nil
	}
	group, err := s.groups.GetGroupByID(ctx, *groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown group", common.ErrValidation)
		}
		return nil, err
	}
	return &group.GroupID, nil
}
