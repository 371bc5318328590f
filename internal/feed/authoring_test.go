package feed

import (
	"context"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inkwell/internal/common"
	"inkwell/internal/dbmongo"
	"inkwell/internal/dbmysql"
)

type authoringMocks struct {
	posts    *MockPosts
	groups   *MockGroups
	comments *MockComments
	images   *MockImageStore
}

func newAuthoringService(t *testing.T) (*AuthoringService, *authoringMocks) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := &authoringMocks{
		posts:    NewMockPosts(ctrl),
		groups:   NewMockGroups(ctrl),
		comments: NewMockComments(ctrl),
		images:   NewMockImageStore(ctrl),
	}
	svc := NewAuthoringService(m.posts, m.groups, m.comments, m.images)
	return svc, m
}

var author = common.Identity{UserID: 1, Username: "anna"}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		m.posts.EXPECT().CreatePost(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, p *dbmysql.Post) error {
				p.PostID = 1
				return nil
			})

		post, err := svc.CreatePost(ctx, author, PostInput{Text: "hello"})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), post.PostID)
		assert.Equal(t, author.UserID, post.AuthorID)
		assert.Nil(t, post.GroupID)
		assert.Nil(t, post.ImagePath)
	})

	t.Run("empty text fails validation and persists nothing", func(t *testing.T) {
		svc, _ := newAuthoringService(t)
		_, err := svc.CreatePost(ctx, author, PostInput{Text: "   "})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		svc, _ := newAuthoringService(t)
		_, err := svc.CreatePost(ctx, common.Anonymous, PostInput{Text: "hello"})
		assert.ErrorIs(t, err, common.ErrUnauthenticated)
	})

	t.Run("files the post under an existing group", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		groupID := uint64(7)
		m.groups.EXPECT().GetGroupByID(ctx, groupID).Return(&dbmysql.Group{GroupID: 7, Slug: "t1"}, nil)
		m.posts.EXPECT().CreatePost(ctx, gomock.Any()).Return(nil)

		post, err := svc.CreatePost(ctx, author, PostInput{Text: "hello", GroupID: &groupID})
		require.NoError(t, err)
		require.NotNil(t, post.GroupID)
		assert.Equal(t, groupID, *post.GroupID)
	})

	t.Run("unknown group fails validation", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		groupID := uint64(99)
		m.groups.EXPECT().GetGroupByID(ctx, groupID).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.CreatePost(ctx, author, PostInput{Text: "hello", GroupID: &groupID})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("attaches an uploaded image by path", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		m.images.EXPECT().Upload(ctx, "cat.png", author.UserID, gomock.Any()).
			Return(&dbmongo.ImageFile{ID: "abc123", Filename: "cat.png"}, nil)
		m.posts.EXPECT().CreatePost(ctx, gomock.Any()).Return(nil)

		post, err := svc.CreatePost(ctx, author, PostInput{
			Text:      "hello",
			Image:     strings.NewReader("png-bytes"),
			ImageName: "cat.png",
		})
		require.NoError(t, err)
		require.NotNil(t, post.ImagePath)
		assert.Equal(t, "abc123", *post.ImagePath)
	})
}

func TestEditPost(t *testing.T) {
	ctx := context.Background()
	stored := func() *dbmysql.Post {
		return &dbmysql.Post{PostID: 4, Text: "original", AuthorID: 1}
	}

	t.Run("owner edits text", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		m.posts.EXPECT().GetPostByID(ctx, uint64(4)).Return(stored(), nil)
		m.posts.EXPECT().UpdatePost(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, p *dbmysql.Post) error {
				assert.Equal(t, "updated", p.Text)
				return nil
			})

		post, err := svc.EditPost(ctx, author, 4, PostInput{Text: "updated"})
		require.NoError(t, err)
		assert.Equal(t, "updated", post.Text)
	})

	t.Run("non-owner is rejected and nothing is written", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		m.posts.EXPECT().GetPostByID(ctx, uint64(4)).Return(stored(), nil)
		// no UpdatePost expectation: the store must not be touched

		stranger := common.Identity{UserID: 2, Username: "leo"}
		_, err := svc.EditPost(ctx, stranger, 4, PostInput{Text: "hijacked"})
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("missing post is not found", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		m.posts.EXPECT().GetPostByID(ctx, uint64(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.EditPost(ctx, author, 99, PostInput{Text: "updated"})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("empty text fails validation before any write", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		m.posts.EXPECT().GetPostByID(ctx, uint64(4)).Return(stored(), nil)

		_, err := svc.EditPost(ctx, author, 4, PostInput{Text: ""})
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		m.posts.EXPECT().GetPostByID(ctx, uint64(4)).Return(&dbmysql.Post{PostID: 4, AuthorID: 2}, nil)
		m.comments.EXPECT().CreateComment(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, c *dbmysql.Comment) error {
				c.CommentID = 1
				return nil
			})

		comment, err := svc.AddComment(ctx, author, 4, CommentInput{Text: "nice"})
		require.NoError(t, err)
		assert.Equal(t, uint64(4), comment.PostID)
		assert.Equal(t, author.UserID, comment.AuthorID)
	})

	t.Run("missing post is not found before any insert", func(t *testing.T) {
		svc, m := newAuthoringService(t)
		m.posts.EXPECT().GetPostByID(ctx, uint64(99)).Return(nil, gorm.ErrRecordNotFound)
		// no CreateComment expectation: nothing may be persisted

		_, err := svc.AddComment(ctx, author, 99, CommentInput{Text: "nice"})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("empty text fails validation and persists nothing", func(t *testing.T) {
		svc, _ := newAuthoringService(t)
		_, err := svc.AddComment(ctx, author, 4, CommentInput{Text: " "})
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		svc, _ := newAuthoringService(t)
		_, err := svc.AddComment(ctx, common.Anonymous, 4, CommentInput{Text: "nice"})
		assert.ErrorIs(t, err, common.ErrUnauthenticated)
	})
}
