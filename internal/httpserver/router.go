package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"daytrack/internal/handler"
	"daytrack/pkg/mq"
)

type Router struct {
	Engine *gin.Engine
}

type Handlers struct {
	Auth         *handler.AuthHandler
	Habit        *handler.HabitHandler
	Task         *handler.TaskHandler
	Course       *handler.CourseHandler
	Calendar     *handler.CalendarHandler
	Settings     *handler.SettingsHandler
	Notification *handler.NotificationHandler
}

func NewRouter(
	h Handlers,
	jwtSecret string,
	db *pgxpool.Pool,
	publisher *mq.Publisher,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		if publisher != nil && !publisher.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", h.Auth.Register)
	r.POST("/login", h.Auth.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/me", h.Auth.Me)

		auth.GET("/habits", h.Habit.List)
		auth.POST("/habits", h.Habit.Create)
		auth.GET("/habits/:id", h.Habit.Get)
		auth.PUT("/habits/:id", h.Habit.Update)
		auth.DELETE("/habits/:id", h.Habit.Delete)
		auth.POST("/habits/:id/archive", h.Habit.Archive(true))
		auth.POST("/habits/:id/unarchive", h.Habit.Archive(false))
		auth.GET("/habits/:id/logs", h.Habit.ListLogs)
		auth.GET("/habits/:id/logs/:date", h.Habit.GetLog)
		auth.PUT("/habits/:id/logs", h.Habit.Log)
		auth.PUT("/habits/:id/logs/:date", h.Habit.Log)
		auth.DELETE("/habits/:id/logs/:date", h.Habit.DeleteLog)
		auth.GET("/habits/:id/stats", h.Habit.Stats)

		auth.GET("/tasks", h.Task.List)
		auth.POST("/tasks", h.Task.Create)
		auth.POST("/tasks/:id/complete", h.Task.Complete)
		auth.DELETE("/tasks/:id", h.Task.Delete)

		auth.GET("/courses", h.Course.List)
		auth.POST("/courses", h.Course.Create)
		auth.PUT("/courses/:id", h.Course.Update)
		auth.POST("/courses/:id/archive", h.Course.Archive(true))
		auth.POST("/courses/:id/unarchive", h.Course.Archive(false))

		auth.GET("/calendar/events", h.Calendar.List)
		auth.POST("/calendar/events", h.Calendar.Create)
		auth.PUT("/calendar/events/:id", h.Calendar.Update)
		auth.DELETE("/calendar/events/:id", h.Calendar.Delete)

		auth.GET("/settings", h.Settings.Get)
		auth.PUT("/settings", h.Settings.Update)

		auth.GET("/notifications", h.Notification.List)
		auth.POST("/notifications/:id/read", h.Notification.MarkRead)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
