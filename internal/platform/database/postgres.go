package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
)

func NewPostgresDB(ctx context.Context, cfg Config, log logrus.FieldLogger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		log.Infof("Connecting to database (attempt %d/%d)...", i, maxRetries)
		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.PingContext(ctx)
		}

		if err == nil {
			log.Info("Database connected successfully!")
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(25)
			db.SetConnMaxLifetime(5 * time.Minute)
			return db, nil
		}

		if db != nil {
			db.Close()
		}

		log.WithError(err).Warnf("Database not ready yet. Waiting %s...", retryDelay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}
