package di

import (
	"time"

	"inkwell/internal/config"
)

func providePageSize(cfg *config.Config) int {
	return cfg.Feed.PageSize
}

func provideCacheTTL(cfg *config.Config) time.Duration {
	return cfg.Feed.CacheTTL
}

func provideSessionLifetime(cfg *config.Config) time.Duration {
	return cfg.Session.Lifetime
}
