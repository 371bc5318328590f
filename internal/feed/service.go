package feed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"inkwell/internal/cache"
	"inkwell/internal/common"
	"inkwell/internal/dbmysql"
	"inkwell/internal/pagination"
)

// UserDirectory resolves authors by username. Implemented by the user
// repository.
type UserDirectory interface {
	GetUserByUsername(ctx context.Context, username string) (*dbmysql.User, error)
}

// FollowChecker reports whether a viewer follows an author. Implemented by
// the follow service; anonymous viewers are always "not following".
type FollowChecker interface {
	IsFollowing(ctx context.Context, viewer common.Identity, authorID uint64) (bool, error)
}

// FeedPage is one rendered page of posts with its pagination metadata.
type FeedPage struct {
	Posts []dbmysql.Post  `json:"posts"`
	Page  pagination.Page `json:"page"`
}

// GroupFeedPage is a group's feed plus the group itself for the header.
type GroupFeedPage struct {
	Group dbmysql.Group `json:"group"`
	FeedPage
}

// AuthorFeedPage is an author's feed plus the follow state for the viewer.
// Following is always false for anonymous viewers.
type AuthorFeedPage struct {
	Author    dbmysql.User `json:"author"`
	Following bool         `json:"following"`
	FeedPage
}

// PostDetailPage is a single post with one page of its comments.
type PostDetailPage struct {
	Post     dbmysql.Post      `json:"post"`
	Comments []dbmysql.Comment `json:"comments"`
	Page     pagination.Page   `json:"page"`
}

// FeedService builds the four listing views. The global feed goes through
// the response cache; everything else reads the store directly.
type FeedService struct {
	posts    Posts
	groups   Groups
	comments Comments
	users    UserDirectory
	follows  FollowChecker
	cache    cache.PageCache
	pageSize int
}

func NewFeedService(p Posts, g Groups, c Comments, u UserDirectory, f FollowChecker, pc cache.PageCache, pageSize int) *FeedService {
	return &FeedService{
		posts:    p,
		groups:   g,
		comments: c,
		users:    u,
		follows:  f,
		cache:    pc,
		pageSize: pageSize,
	}
}

// GlobalFeed lists every post, newest first. Pages are cached by clamped
// page number for the configured TTL, so the key namespace holds at most one
// entry per real page; within that window the content may be stale,
// including posts that no longer exist. Cache failures degrade to a direct
// read. Concurrent misses may compute the same page twice, which is fine.
func (s *FeedService) GlobalFeed(ctx context.Context, requested int) (*FeedPage, error) {
	if requested < 1 {
		requested = 1
	}
	if cached, ok, err := s.cache.GetPage(ctx, requested); err != nil {
		log.Printf("feed cache read failed: %v", err)
	} else if ok {
		return &FeedPage{Posts: cached.Posts, Page: cached.Page}, nil
	}

	total, err := s.posts.CountPosts(ctx)
	if err != nil {
		return nil, err
	}
	offset, limit, page := pagination.Paginate(total, s.pageSize, requested)

	posts, err := s.posts.ListPosts(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	// page.Number, not requested: an above-range request resolves to the
	// last page and must share that page's cache entry
	if err := s.cache.PutPage(ctx, page.Number, &cache.CachedPage{Posts: posts, Page: page}); err != nil {
		log.Printf("feed cache write failed: %v", err)
	}
	return &FeedPage{Posts: posts, Page: page}, nil
}

// GroupFeed lists the posts filed under the group with the given slug.
func (s *FeedService) GroupFeed(ctx context.Context, slug string, requested int) (*GroupFeedPage, error) {
	group, err := s.groups.GetGroupBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: group %q", common.ErrNotFound, slug)
		}
		return nil, err
	}

	total, err := s.posts.CountGroupPosts(ctx, group.GroupID)
	if err != nil {
		return nil, err
	}
	offset, limit, page := pagination.Paginate(total, s.pageSize, requested)

	posts, err := s.posts.ListGroupPosts(ctx, group.GroupID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &GroupFeedPage{
		Group:    *group,
		FeedPage: FeedPage{Posts: posts, Page: page},
	}, nil
}

// AuthorFeed lists an author's posts and, for an authenticated viewer,
// whether they currently follow the author.
func (s *FeedService) AuthorFeed(ctx context.Context, username string, viewer common.Identity, requested int) (*AuthorFeedPage, error) {
	author, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", common.ErrNotFound, username)
		}
		return nil, err
	}

	total, err := s.posts.CountAuthorPosts(ctx, author.UserID)
	if err != nil {
		return nil, err
	}
	offset, limit, page := pagination.Paginate(total, s.pageSize, requested)

	posts, err := s.posts.ListAuthorPosts(ctx, author.UserID, offset, limit)
	if err != nil {
		return nil, err
	}

	following := false
	if !viewer.IsAnonymous() {
		following, err = s.follows.IsFollowing(ctx, viewer, author.UserID)
		if err != nil {
			return nil, err
		}
	}

	return &AuthorFeedPage{
		Author:    *author,
		Following: following,
		FeedPage:  FeedPage{Posts: posts, Page: page},
	}, nil
}

// PersonalFeed lists posts from every author the viewer follows. Callers
// must be authenticated.
func (s *FeedService) PersonalFeed(ctx context.Context, viewer common.Identity, requested int) (*FeedPage, error) {
	if err := common.RequireAuthenticated(viewer); err != nil {
		return nil, err
	}

	total, err := s.posts.CountFollowedPosts(ctx, viewer.UserID)
	if err != nil {
		return nil, err
	}
	offset, limit, page := pagination.Paginate(total, s.pageSize, requested)

	posts, err := s.posts.ListFollowedPosts(ctx, viewer.UserID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &FeedPage{Posts: posts, Page: page}, nil
}

// PostDetail returns one post with a page of its comments.
func (s *FeedService) PostDetail(ctx context.Context, postID uint64, requested int) (*PostDetailPage, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", common.ErrNotFound, postID)
		}
		return nil, err
	}

	total, err := s.comments.CountPostComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	offset, limit, page := pagination.Paginate(total, s.pageSize, requested)

	comments, err := s.comments.ListPostComments(ctx, postID, offset, limit)
	if err != nil {
		return nil, err
	}
	return &PostDetailPage{Post: *post, Comments: comments, Page: page}, nil
}
