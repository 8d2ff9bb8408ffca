package main

import (
	"os"

	"go.uber.org/zap"

	"daytrack/internal/handler"
	"daytrack/internal/httpserver"
	"daytrack/internal/repository"
	"daytrack/internal/service/auth"
	"daytrack/internal/service/habits"
	"daytrack/internal/service/habitstats"
	"daytrack/internal/service/tasks"
	"daytrack/pkg/config"
	"daytrack/pkg/db"
	"daytrack/pkg/logger"
	"daytrack/pkg/mq"
	"daytrack/pkg/redis"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting api...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("port", cfg.Server.Port),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis
	rdb := redis.NewClient(cfg.Redis)
	defer rdb.Close()

	// MQ publisher, used for readiness only; events leave through the outbox.
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(dbConn, log)
	habitRepo := repository.NewHabitRepository(dbConn, log)
	logRepo := repository.NewHabitLogRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	courseRepo := repository.NewCourseRepository(dbConn, log)
	eventRepo := repository.NewCalendarEventRepository(dbConn, log)
	settingsRepo := repository.NewSettingsRepository(dbConn, cfg.Tracker, log)
	notificationRepo := repository.NewNotificationRepository(dbConn, log)

	// Services
	authService := auth.NewService(userRepo, cfg.JWT.Secret, log)
	habitService := habits.NewService(dbConn, habitRepo, logRepo, settingsRepo, log)
	statsService := habitstats.NewService(habitRepo, logRepo, settingsRepo, rdb, log)
	taskService := tasks.NewService(dbConn, taskRepo, log)

	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		Habit:        handler.NewHabitHandler(habitService, statsService, log),
		Task:         handler.NewTaskHandler(taskService, log),
		Course:       handler.NewCourseHandler(courseRepo, log),
		Calendar:     handler.NewCalendarHandler(eventRepo, log),
		Settings:     handler.NewSettingsHandler(settingsRepo, log),
		Notification: handler.NewNotificationHandler(notificationRepo, log),
	}, cfg.JWT.Secret, dbConn, publisher, log)

	log.Info("API listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("HTTP server crashed", zap.Error(err))
	}
}
