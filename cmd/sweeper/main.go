package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/rosterpro-dev/rosterpro/backend/internal/config"
	"github.com/rosterpro-dev/rosterpro/backend/internal/notify"
	"github.com/rosterpro-dev/rosterpro/backend/internal/repository"
	"github.com/rosterpro-dev/rosterpro/backend/internal/roster"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * create logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * load configuration
	 **********************************************/
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", "error", err)
		return
	}

	/**********************************************
	 * connect to the database
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("unable to create database connection pool", "error", err)
		return
	}
	defer dbpool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("unable to connect to the database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * connect to rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("unable to connect to rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("unable to open a channel", "error", err)
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		notify.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("unable to declare the notification queue", "error", err)
		return
	}

	/**********************************************
	 * schedule the sweep
	 **********************************************/
	sink := notify.NewService(cfg, repo, ch)
	sweeper := roster.NewSweeper(repo, repo, sink)

	runSweep := func() {
		report, err := sweeper.Run(context.Background())
		if err != nil {
			logger.Error("sweep failed", "error", err)
			return
		}
		logger.Info("sweep completed", "updated", report.UpdatedCount, "compOffGrants", len(report.CompOffGrants))
	}

	if cfg.Sweep.RunOnStart {
		runSweep()
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Sweep.Schedule, runSweep); err != nil {
		logger.Error("invalid sweep schedule", "schedule", cfg.Sweep.Schedule, "error", err)
		return
	}
	c.Start()
	logger.Info("sweeper started", "schedule", cfg.Sweep.Schedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down sweeper...")
	<-c.Stop().Done()
	logger.Info("sweeper stopped")
}
