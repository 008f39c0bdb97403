package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"reviewhub/database"
	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"
	"reviewhub/internal/mail"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	codeStore, err := auth.NewRedisCodeStore(cfg.RedisURL, cfg.RedisPassword, cfg.ConfirmationCodeTTL)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}

	var mailer mail.Sender
	if cfg.IsProduction() {
		mailer = mail.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		mailer = mail.NewLogSender(logger)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, codeStore, mailer, cfg)
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := service.NewReviewService(reviewRepo, titleRepo)
	commentService := service.NewCommentService(commentRepo, reviewRepo, titleRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	optionalAuth := middleware.OptionalAuthenticate(authService)
	requireAuth := middleware.Authenticate(authService)
	rateLimit := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst).Handler()

	api := r.Group("/api/v1")
	handler.NewAuthHandler(authService).RegisterRoutes(api, rateLimit)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(api, optionalAuth)
	handler.NewGenreHandler(genreService).RegisterRoutes(api, optionalAuth)
	handler.NewTitleHandler(titleService).RegisterRoutes(api, optionalAuth)
	handler.NewReviewHandler(reviewService).RegisterRoutes(api, optionalAuth)
	handler.NewCommentHandler(commentService).RegisterRoutes(api, optionalAuth)
	handler.NewUserHandler(userService).RegisterRoutes(api, requireAuth)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
