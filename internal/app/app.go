package app

import (
	"net/http"

	"hostcalendar/internal/config"
	"hostcalendar/internal/domain/account"
	"hostcalendar/internal/domain/attachment"
	"hostcalendar/internal/domain/calendar"
	"hostcalendar/internal/domain/feed"
	"hostcalendar/internal/middleware"
	"hostcalendar/internal/pkg/clock"
	"hostcalendar/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table, in dependency order.
func Models() []any {
	return append([]any{&account.User{}}, calendar.Models()...)
}

type App struct {
	Router *gin.Engine
	Hub    *feed.Hub
	Tokens *jwt.Service
}

// New wires repositories, services and handlers onto a gin engine.
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger, clk clock.Clock) *App {
	if log == nil {
		log = zap.NewNop()
	}
	tokens := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	hub := feed.NewHub(log.Named("feed"))
	origins := middleware.AllowedOrigins(cfg.AllowedOrigins)

	users := account.NewRepository(db)
	accountHandler := account.NewHandler(account.NewService(users, tokens), account.CookieConfig{
		Name:     cfg.CookieName,
		Path:     cfg.CookiePath,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.SameSite(),
		TTL:      cfg.JWTAccessTTL,
	})

	calendarService := calendar.NewService(calendar.NewRepository(db), users, hub)
	calendarHandler := calendar.NewHandler(calendarService)

	attachmentHandler := attachment.NewHandler(attachment.NewService(
		calendarService,
		attachment.NewRepository(db),
		attachment.NewStorage(cfg.UploadsDir, cfg.StaticURLBase, clk),
		cfg.MaxUploadSize,
	))
	feedHandler := feed.NewHandler(hub, origins)

	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(origins))
	r.MaxMultipartMemory = cfg.MaxUploadSize + 1<<20
	r.Static(cfg.StaticURLBase, cfg.UploadsDir)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.Auth(tokens, cfg.CookieName)
	optionalAuth := middleware.OptionalAuth(tokens, cfg.CookieName)

	v1 := r.Group("/api/v1")
	accountHandler.RegisterRoutes(v1, requireAuth)
	calendarHandler.RegisterRoutes(v1, requireAuth, optionalAuth)
	attachmentHandler.RegisterRoutes(v1, requireAuth)
	feedHandler.RegisterRoutes(v1, requireAuth)

	return &App{Router: r, Hub: hub, Tokens: tokens}
}
