package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	mqcontracts "daytrack/internal/mq"
	"daytrack/internal/mqhandler"
	"daytrack/internal/repository"
	"daytrack/internal/service/habitstats"
	"daytrack/pkg/config"
	"daytrack/pkg/db"
	"daytrack/pkg/logger"
	"daytrack/pkg/mq"
	"daytrack/pkg/redis"
	"daytrack/pkg/util"
)

const dlqMaxRetries = 5

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting worker...")

	// Redis
	rdb := redis.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Hour, log)
	retryCounter := util.NewRetryCounter(rdb, time.Hour)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	// DLQ publisher for poison messages
	dlqPublisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init DLQ publisher", zap.Error(err))
	}
	defer dlqPublisher.Close()

	// Repositories
	habitRepo := repository.NewHabitRepository(dbConn, log)
	logRepo := repository.NewHabitLogRepository(dbConn, log)
	settingsRepo := repository.NewSettingsRepository(dbConn, cfg.Tracker, log)
	notificationRepo := repository.NewNotificationRepository(dbConn, log)

	statsService := habitstats.NewService(habitRepo, logRepo, settingsRepo, rdb, log)

	statsHandler := mqhandler.NewHabitStatsHandler(statsService, deduper, log)
	overdueHandler := mqhandler.NewTaskOverdueHandler(notificationRepo, deduper, log)

	// -------------------------
	// Habit log consumer
	// -------------------------
	log.Info("Init consumer: habit.log.updated.q")
	consumerLogs, err := mq.NewConsumer(
		cfg.MQ.URL,
		"habit.log.updated.q",
		mqcontracts.RoutingKeyHabitLogUpdated,
		log,
	)
	if err != nil {
		log.Fatal("Habit log consumer init failed", zap.Error(err))
	}
	consumerLogs.SetHandler(statsHandler.Handle)
	if err := consumerLogs.SetDeadLetter(dlqPublisher, retryCounter, dlqMaxRetries); err != nil {
		log.Fatal("Habit log consumer DLQ init failed", zap.Error(err))
	}
	go func() {
		if err := consumerLogs.StartConsuming(); err != nil {
			log.Fatal("Habit log consumer crashed", zap.Error(err))
		}
	}()
	defer consumerLogs.Close()

	// -------------------------
	// Habit update consumer
	// -------------------------
	log.Info("Init consumer: habit.updated.q")
	consumerHabits, err := mq.NewConsumer(
		cfg.MQ.URL,
		"habit.updated.q",
		mqcontracts.RoutingKeyHabitUpdated,
		log,
	)
	if err != nil {
		log.Fatal("Habit update consumer init failed", zap.Error(err))
	}
	consumerHabits.SetHandler(statsHandler.Handle)
	if err := consumerHabits.SetDeadLetter(dlqPublisher, retryCounter, dlqMaxRetries); err != nil {
		log.Fatal("Habit update consumer DLQ init failed", zap.Error(err))
	}
	go func() {
		if err := consumerHabits.StartConsuming(); err != nil {
			log.Fatal("Habit update consumer crashed", zap.Error(err))
		}
	}()
	defer consumerHabits.Close()

	// -------------------------
	// Task overdue consumer
	// -------------------------
	log.Info("Init consumer: task.overdue.q")
	consumerOverdue, err := mq.NewConsumer(
		cfg.MQ.URL,
		"task.overdue.q",
		mqcontracts.RoutingKeyTaskOverdue,
		log,
	)
	if err != nil {
		log.Fatal("Task overdue consumer init failed", zap.Error(err))
	}
	consumerOverdue.SetHandler(overdueHandler.Handle)
	if err := consumerOverdue.SetDeadLetter(dlqPublisher, retryCounter, dlqMaxRetries); err != nil {
		log.Fatal("Task overdue consumer DLQ init failed", zap.Error(err))
	}
	go func() {
		if err := consumerOverdue.StartConsuming(); err != nil {
			log.Fatal("Task overdue consumer crashed", zap.Error(err))
		}
	}()
	defer consumerOverdue.Close()

	log.Info("Worker running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker gracefully...")
	consumerLogs.Close()
	consumerHabits.Close()
	consumerOverdue.Close()
	log.Info("Worker shutdown complete")
}
