//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"inkwell/internal/cache"
	"inkwell/internal/common"
	"inkwell/internal/config"
	"inkwell/internal/dbmongo"
	"inkwell/internal/feed"
	"inkwell/internal/media"
	"inkwell/internal/user"
	"inkwell/internal/views"
)

// Declarations only; wire generates the real bodies in wire_gen.go.

func InitFeedHandler(db *gorm.DB, mongoClient *dbmongo.MongoClient, redisClient *redis.Client, cfg *config.Config, renderer views.Renderer) *feed.FeedHandler {
	wire.Build(
		feed.NewFeedRepository,
		wire.Bind(new(feed.Posts), new(*feed.FeedRepository)),
		wire.Bind(new(feed.Groups), new(*feed.FeedRepository)),
		wire.Bind(new(feed.Comments), new(*feed.FeedRepository)),
		user.NewUserRepository,
		wire.Bind(new(feed.UserDirectory), new(user.UserRepository)),
		user.NewFollowRepository,
		user.NewFollowService,
		wire.Bind(new(feed.FollowChecker), new(user.FollowService)),
		dbmongo.NewImageStorage,
		wire.Bind(new(feed.ImageStore), new(*dbmongo.ImageStorage)),
		provideCacheTTL,
		cache.NewRedisPageCache,
		wire.Bind(new(cache.PageCache), new(*cache.RedisPageCache)),
		providePageSize,
		feed.NewFeedService,
		feed.NewAuthoringService,
		feed.NewFeedHandler,
	)
	return &feed.FeedHandler{}
}

func InitUserHandler(db *gorm.DB, cfg *config.Config, sessions *common.SessionManager, renderer views.Renderer) *user.UserHandler {
	wire.Build(
		user.NewUserRepository,
		user.NewFollowRepository,
		provideSessionLifetime,
		user.NewUserService,
		user.NewFollowService,
		user.NewUserHandler,
	)
	return &user.UserHandler{}
}

func InitMediaHandler(mongoClient *dbmongo.MongoClient) *media.Handler {
	wire.Build(
		dbmongo.NewImageStorage,
		media.NewHandler,
	)
	return &media.Handler{}
}
