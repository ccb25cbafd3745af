package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Connect opens the pool and retries the first ping until maxWait elapses,
// so the API can start before the database container is ready.
func Connect(ctx context.Context, dsn string, maxWait time.Duration, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ping := func() (struct{}, error) {
		ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return struct{}{}, db.PingContext(ctx2)
	}
	_, err = backoff.Retry(ctx, ping,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(maxWait),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("postgres not ready", zap.Error(err), zap.Duration("retry_in", next))
		}),
	)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
