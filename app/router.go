// Package app wires the endpoints, middleware and collaborators into
// a runnable router.
package app

import (
	"strings"
	"time"

	"bingelog/api/app/history"
	"bingelog/api/app/liked"
	"bingelog/api/app/root"
	"bingelog/api/app/user"
	"bingelog/api/app/watchlist"
	"bingelog/api/db"
	"bingelog/api/internal"
	"bingelog/api/internal/service"
	"bingelog/api/internal/storage"
	"bingelog/api/internal/store"
	"bingelog/api/pkg/middleware"
	"bingelog/api/pkg/security"
	"bingelog/api/pkg/token"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var cacheStore persist.CacheStore

func NewRouter() (*gin.Engine, error) {
	d := &internal.Deps{}

	database, err := db.New()
	if err != nil {
		return nil, err
	}

	d.DB = database
	d.Users = store.NewUserStore(database)
	d.Watchlist = store.NewWatchlistStore(database)
	d.Liked = store.NewLikedStore(database)
	d.History = store.NewHistoryStore(database)

	d.Hasher = security.New()
	d.Tokens = token.FromConfig()
	d.Mailer = service.NewSMTPMailer()

	if viper.GetBool("avatars.enabled") {
		d.Avatars, err = storage.NewAvatarStore()
		if err != nil {
			return nil, err
		}
	}

	makeLogger()

	if viper.GetBool("redis.enabled") {
		cacheStore = persist.NewRedisStore(redis.NewClient(&redis.Options{
			Addr: viper.GetString("redis.address"),
		}))
	} else {
		cacheStore = persist.NewMemoryStore(time.Minute)
	}

	router := gin.New()

	origins := strings.Split(viper.GetString("host.cors"), ",")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
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

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	auth := middleware.NewAuthMiddleware(d.Users, d.Tokens)
	protect := middleware.Protect()
	turnstile := middleware.NewTurnstileMiddleware()

	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
	})

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates an access token
		m.GET("/validate", auth, protect, root.Validate)
	}

	u := m.Group("/users", middleware.BodySizeLimiter(5<<20))
	{
		// POST /api/users		-> Registers a new user
		u.POST("", turnstile, func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/users/login	-> Logs in a user and returns the session tokens
		u.POST("/login", turnstile, func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/users/google-login	-> Logs in or registers through Google
		u.POST("/google-login", func(c *gin.Context) { user.UserGoogleLogin(c, d) })

		// GET /api/users/verify-email	-> Consumes an email verification token
		u.GET("/verify-email", func(c *gin.Context) { user.UserVerify(c, d) })

		// POST /api/users/refresh	-> Rotates the refresh token, mints a new access token
		u.POST("/refresh", func(c *gin.Context) { user.UserRefresh(c, d) })

		// GET /api/users		-> Returns the caller's profile
		u.GET("", auth, protect, func(c *gin.Context) { user.UserFetch(c, d) })

		// PUT /api/users		-> Updates profile fields and the avatar
		u.PUT("", auth, protect, func(c *gin.Context) { user.UserUpdate(c, d) })

		// DELETE /api/users		-> Deletes the caller's account
		u.DELETE("", auth, protect, func(c *gin.Context) { user.UserDelete(c, d) })

		// PUT /api/users/password	-> Changes the password
		u.PUT("/password", auth, protect, func(c *gin.Context) { user.UserChangePassword(c, d) })

		// POST /api/users/logout	-> Revokes the stored session tokens
		u.POST("/logout", auth, protect, func(c *gin.Context) { user.UserLogout(c, d) })

		// Favorite genres
		u.POST("/genres", auth, protect, func(c *gin.Context) { user.GenresAdd(c, d) })
		u.GET("/genres", auth, protect, func(c *gin.Context) { user.GenresList(c, d) })
		u.DELETE("/genres", auth, protect, func(c *gin.Context) { user.GenreRemove(c, d) })
	}

	w := m.Group("/watchlist", middleware.BodySizeLimiter(1<<20), auth, protect)
	{
		w.POST("", func(c *gin.Context) { watchlist.Add(c, d) })
		w.GET("", cacheForUser(15), func(c *gin.Context) { watchlist.List(c, d) })
		w.GET("/count", func(c *gin.Context) { watchlist.Count(c, d) })
		w.GET("/:mediaID/status", func(c *gin.Context) { watchlist.Status(c, d) })
		w.DELETE("/:mediaID", func(c *gin.Context) { watchlist.Remove(c, d) })
	}

	l := m.Group("/liked", middleware.BodySizeLimiter(1<<20), auth, protect)
	{
		l.POST("", func(c *gin.Context) { liked.Toggle(c, d) })
		l.GET("", func(c *gin.Context) { liked.List(c, d) })
	}

	h := m.Group("/history", middleware.BodySizeLimiter(1<<20), auth, protect)
	{
		h.POST("", func(c *gin.Context) { history.Record(c, d) })
		h.GET("/weekly", cacheForUser(60), func(c *gin.Context) { history.Weekly(c, d) })
		h.GET("/today", func(c *gin.Context) { history.Today(c, d) })
	}

	// Unverified local accounts get a month before they're purged
	service.ScheduleAccountCleanup(database, time.Hour*24*30)

	return router, nil
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

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

// cacheForUser caches responses keyed by user and URI so one user's
// cached list never leaks to another.
func cacheForUser(sec int) gin.HandlerFunc {
	ttl := time.Second * time.Duration(sec)

	return cache.CacheByRequestURI(cacheStore, ttl, cache.WithCacheStrategyByRequest(
		func(c *gin.Context) (bool, cache.Strategy) {
			return true, cache.Strategy{
				CacheKey:      c.GetString("userID") + ":" + c.Request.RequestURI,
				CacheDuration: ttl,
			}
		},
	))
}
