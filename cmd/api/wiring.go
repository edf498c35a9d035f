package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"secondhand-marketplace/internal/config"
	"secondhand-marketplace/internal/events"
	sessionrepo "secondhand-marketplace/internal/repository/session"
)

func newSessionStore(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, logger *log.Logger) (sessionrepo.Repository, func(), error) {
	switch cfg.SessionStore {
	case "postgres":
		logger.Printf("sessions stored in postgres")
		return sessionrepo.NewPostgres(pool), func() {}, nil
	case "redis":
		client, err := sessionrepo.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		logger.Printf("sessions stored in redis at %s", cfg.RedisAddr)
		return sessionrepo.NewRedis(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown SESSION_STORE %q (want postgres or redis)", cfg.SessionStore)
	}
}

func newPublisher(cfg config.Config, logger *log.Logger) (events.Publisher, error) {
	if cfg.RabbitMQURL == "" {
		logger.Printf("RABBITMQ_URL not set, purchase events disabled")
		return events.NewNoop(logger), nil
	}
	return events.NewRabbitMQ(cfg.RabbitMQURL, cfg.EventsExchange, logger)
}
