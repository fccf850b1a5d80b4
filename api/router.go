// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"keygate/auth-api/db"
	"keygate/auth-api/internal/account"
	"keygate/auth-api/internal/auth"
	"keygate/auth-api/internal/service"
	"keygate/auth-api/internal/session"
	"keygate/auth-api/internal/verification"
	"keygate/auth-api/pkg/middleware"
	"keygate/auth-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Auth      *auth.Service
	Sessions  *session.Issuer
	Ledger    *session.Ledger
	MailQueue *service.MailQueue
}

func NewRouter() (*API, error) {
	a := &API{
		MailQueue: service.NewMailQueue(),
	}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = conn

	makeLogger()

	accounts := account.NewStore(conn, security.New())
	a.Ledger = session.NewLedger(conn)
	a.Sessions = session.NewIssuer(
		a.Ledger,
		[]byte(viper.GetString("jwt.secret")),
		time.Duration(viper.GetInt("jwt.ttl_hours"))*time.Hour,
	)
	verif := verification.NewWorkflow(
		accounts,
		a.MailQueue,
		time.Duration(viper.GetInt("verification.ttl_minutes"))*time.Minute,
	)
	a.Auth = auth.NewService(accounts, a.Sessions, verif)

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("accountID"); v != "" {
					fields = append(fields, zap.String("accountID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	jwt := middleware.NewJWTMiddleware(a.Sessions)
	turnstile := middleware.NewTurnstileMiddleware()

	rps := viper.GetInt("rate_limit.requests_per_second")
	if rps <= 0 {
		rps = 5
	}
	burst := viper.GetInt("rate_limit.burst")
	if burst <= 0 {
		burst = 2 * rps
	}
	rateLimit := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rps,
		Burst:             burst,
	})

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", cacheFor(30), a.Heartbeat)
	}

	authGroup := router.Group("/auth/v1", rateLimit, middleware.BodySizeLimiter(1<<20))
	{
		// POST /auth/v1/sign_in	-> Checks credentials and returns account + session token
		authGroup.POST("/sign_in", a.SignIn)

		// POST /auth/v1/sign_up	-> Creates an account, queues a verification mail
		authGroup.POST("/sign_up", turnstile, a.SignUp)

		// DELETE /auth/v1/sign_out	-> Revokes the presented session token
		authGroup.DELETE("/sign_out", jwt, a.SignOut)

		// GET /auth/v1/verify_email	-> Consumes a verification token, redirects to the front app
		authGroup.GET("/verify_email", a.VerifyEmail)

		// HEAD /auth/v1/validate	-> Validates a session token
		authGroup.HEAD("/validate", jwt, a.Validate)
	}

	a.MailQueue.StartWorkerPool()

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
