package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"inkwell/internal/cache"
	"inkwell/internal/common"
	"inkwell/internal/config"
	"inkwell/internal/dbmongo"
	"inkwell/internal/dbmysql"
	"inkwell/internal/di"
	"inkwell/internal/views"
)

func main() {
	cfg := config.LoadConfig()
	log.Println("configuration loaded")

	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("failed to initialize MySQL: %v", err)
	}

	mongoClient, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		log.Fatalf("failed to initialize MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoClient.Close(ctx)
	}()

	redisClient, err := cache.NewRedis(cfg)
	if err != nil {
		log.Fatalf("failed to initialize Redis: %v", err)
	}

	// the template layer drops in via TEMPLATES_DIR; without it the views
	// render their data as JSON
	renderer, err := views.NewTemplateRenderer(os.Getenv("TEMPLATES_DIR"))
	if err != nil {
		log.Fatalf("failed to load templates: %v", err)
	}

	sessions := common.NewSessionManager(cfg.Session.Secret)

	feedHandler := di.InitFeedHandler(db, mongoClient, redisClient, cfg, renderer)
	userHandler := di.InitUserHandler(db, cfg, sessions, renderer)
	mediaHandler := di.InitMediaHandler(mongoClient)
	log.Println("dependencies wired successfully")

	router := mux.NewRouter()
	userHandler.RegisterRoutes(router)
	mediaHandler.RegisterRoutes(router)
	feedHandler.RegisterRoutes(router)
	router.Use(sessions.Middleware)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	log.Printf("inkwell listening on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
