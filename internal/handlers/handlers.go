package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"modelreviews/internal/cache"
	"modelreviews/internal/config"
	"modelreviews/internal/middleware"
	"modelreviews/internal/models"
	"modelreviews/internal/queue"
	"modelreviews/internal/repository"
	"modelreviews/internal/service"
	"modelreviews/internal/storage"
)

type ReviewAPI interface {
	List(ctx context.Context, modelID int64, limit, offset int) ([]models.Review, error)
	Get(ctx context.Context, id int64) (models.Review, error)
	Delete(ctx context.Context, actor models.User, id int64) (models.Review, error)
	Report(ctx context.Context, actor models.User, id int64, reason models.ReportReason) error
}

type AuthAPI interface {
	Login(ctx context.Context, input service.LoginInput) (service.AuthResult, error)
	Logout(ctx context.Context, userID string, deviceID string) error
	ChangePassword(ctx context.Context, userID, current, next string) error
}

type ReportQueue interface {
	ReviewsWithOpenReports(ctx context.Context, limit int) ([]int64, error)
	Tally(ctx context.Context, reviewID int64) (models.ReportTally, error)
}

type Pinger func(ctx context.Context) error

// Deps are the collaborators behind the routes.
type Deps struct {
	Log           zerolog.Logger
	Environment   string
	Reviews       ReviewAPI
	Auth          AuthAPI
	Reports       ReportQueue
	Authenticator *middleware.Authenticator
	DBPing        Pinger
	CachePing     Pinger
}

type HandlerSet struct {
	log         zerolog.Logger
	environment string
	reviews     ReviewAPI
	auth        AuthAPI
	reports     ReportQueue
	authn       *middleware.Authenticator
	dbPing      Pinger
	cachePing   Pinger
}

func New(deps Deps) HandlerSet {
	return HandlerSet{
		log:         deps.Log,
		environment: deps.Environment,
		reviews:     deps.Reviews,
		auth:        deps.Auth,
		reports:     deps.Reports,
		authn:       deps.Authenticator,
		dbPing:      deps.DBPing,
		cachePing:   deps.CachePing,
	}
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, redisClient *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	reportRepo := repository.NewReportRepository(db)

	reviewCache := cache.NewReviewCache(redisClient, cfg.Cache.ReviewsTTL)
	producer := queue.NewProducer(redisClient, cfg.Queue.Stream)

	return New(Deps{
		Log:           log,
		Environment:   cfg.Environment,
		Reviews:       service.NewReviewService(reviewRepo, reportRepo, reviewCache, producer, store.PublicURL, log),
		Auth:          service.NewAuthService(userRepo, sessionRepo, cfg, log),
		Reports:       reportRepo,
		Authenticator: middleware.NewAuthenticator(cfg.Security.JWTAccessSecret, userRepo, sessionRepo),
		DBPing:        db.Ping,
		CachePing: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})
}

func (h HandlerSet) Routes(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/login", h.Login)

		protected := v1.Group("/auth")
		protected.Use(h.authn.Required())
		protected.POST("/logout", h.Logout)
		protected.GET("/me", h.Me)
		protected.POST("/password", h.ChangePassword)
	}

	browse := v1.Group("")
	browse.Use(h.authn.Optional())
	browse.GET("/models/:modelId/reviews", h.ListReviews)
	browse.GET("/reviews/:id", h.GetReview)

	mutate := v1.Group("/reviews")
	mutate.Use(h.authn.Required())
	mutate.DELETE("/:id", h.DeleteReview)
	mutate.POST("/:id/report", h.ReportReview)

	mod := v1.Group("/moderation")
	mod.Use(
		h.authn.Required(),
		middleware.RequireRoles(models.UserRoleModerator, models.UserRoleAdmin),
	)
	mod.GET("/reports", h.OpenReports)
}
