package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"daytrack/internal/repository"
	"daytrack/internal/service/tasks"
	"daytrack/pkg/config"
	"daytrack/pkg/db"
	"daytrack/pkg/logger"
	"daytrack/pkg/mq"
	"daytrack/pkg/outbox"
)

const (
	sweepInterval    = 1 * time.Minute
	dispatchInterval = 5 * time.Second
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting runner...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("mq_url", cfg.MQ.URL),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// MQ publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	taskRepo := repository.NewTaskRepository(dbConn, log)
	sweeper := tasks.NewSweeper(taskRepo, publisher, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outbox dispatcher drains the events the api queued transactionally.
	outboxRepo := outbox.NewRepository(dbConn)
	dispatcher := outbox.NewDispatcher(outboxRepo, publisher, log, dispatchInterval)
	go dispatcher.Start(ctx)

	// Overdue sweep
	log.Info("Starting overdue sweep", zap.Duration("interval", sweepInterval))
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		// Run immediately on startup
		if _, err := sweeper.SweepOverdue(ctx); err != nil {
			log.Error("Overdue sweep failed", zap.Error(err))
		}

		for {
			select {
			case <-ctx.Done():
				log.Info("Overdue sweep stopped")
				return
			case <-ticker.C:
				if _, err := sweeper.SweepOverdue(ctx); err != nil {
					log.Error("Overdue sweep failed", zap.Error(err))
				}
			}
		}
	}()

	log.Info("Runner running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down runner gracefully...")
	cancel()
	log.Info("Runner shutdown complete")
}
