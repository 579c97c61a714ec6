package router

import (
	"time"

	"github.com/dlsms/dlsms-backend/internal/config"
	"github.com/dlsms/dlsms-backend/internal/handler"
	"github.com/dlsms/dlsms-backend/internal/metrics"
	"github.com/dlsms/dlsms-backend/internal/middleware"
	"github.com/dlsms/dlsms-backend/internal/model"
	"github.com/dlsms/dlsms-backend/internal/response"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	Verification *handler.VerificationHandler
	Classroom    *handler.ClassroomHandler
	Assignment   *handler.AssignmentHandler
	WS           *handler.WSHandler
	System       *handler.SystemHandler
}

// Options carries the optional pieces of the router.
type Options struct {
	// AuthLimiter throttles signup, login and resend per client IP.
	AuthLimiter *middleware.RateLimiter
	// UploadDir is served under /uploads when files are stored locally.
	UploadDir string
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	tokens middleware.TokenVerifier,
	handlers *Handlers,
	cfg *config.Config,
	opts Options,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(metrics.Middleware())
	router.Use(middleware.Brotli())

	// Serve locally stored assignment files with aggressive caching (1 year).
	if opts.UploadDir != "" {
		uploadsGroup := router.Group("/uploads")
		uploadsGroup.Use(middleware.CacheControl(31536000))
		{
			uploadsGroup.Static("/", opts.UploadDir)
		}
	}

	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	limited := func() []gin.HandlerFunc {
		mws := []gin.HandlerFunc{middleware.NoStore()}
		if opts.AuthLimiter != nil {
			mws = append(mws, opts.AuthLimiter.Middleware())
		}
		return mws
	}
	session := middleware.RequireSession(tokens)

	// ─── 0. Shared (both roles) ────────────────────────────────────────
	router.GET("/verify-email/:token", handlers.Verification.VerifyEmail)
	router.POST("/resend-verification-code", append(limited(), handlers.Verification.ResendVerification)...)
	router.POST("/logout", handlers.Verification.Logout)

	// ─── 1. Tutor ──────────────────────────────────────────────────────
	tutor := router.Group("/tutor")
	{
		tutor.POST("/signup", append(limited(), handlers.Auth.TutorSignup)...)
		tutor.POST("/login", append(limited(), handlers.Auth.TutorLogin)...)

		authed := tutor.Group("")
		authed.Use(session, middleware.RequireRole(model.RoleTutor), middleware.NoStore())
		{
			authed.GET("/me", handlers.Auth.Me)
			authed.POST("/create-classroom", handlers.Classroom.CreateClassroom)
			authed.GET("/classrooms", handlers.Classroom.ListTutorClassrooms)
			authed.POST("/create-assignment", handlers.Assignment.CreateAssignment)
			authed.GET("/classrooms/:id/assignments", handlers.Assignment.ListAssignments)
		}
	}

	// ─── 2. Student ────────────────────────────────────────────────────
	student := router.Group("/student")
	{
		student.POST("/signup", append(limited(), handlers.Auth.StudentSignup)...)
		student.POST("/login", append(limited(), handlers.Auth.StudentLogin)...)

		authed := student.Group("")
		authed.Use(session, middleware.RequireRole(model.RoleStudent), middleware.NoStore())
		{
			authed.GET("/me", handlers.Auth.Me)
			authed.GET("/classrooms", handlers.Classroom.ListStudentClassrooms)
			authed.GET("/classroom/:code", handlers.Classroom.GetClassroomByCode)
			authed.POST("/classroom/:code/join", handlers.Classroom.JoinClassroom)
			authed.GET("/classrooms/:id/assignments", handlers.Assignment.ListAssignments)
		}
	}

	// ─── 3. Realtime ───────────────────────────────────────────────────
	ws := router.Group("/ws")
	ws.Use(session, middleware.RequireAnyRole(model.Roles...))
	{
		ws.GET("/classrooms/:id", handlers.WS.ClassroomStream)
	}

	return router
}
