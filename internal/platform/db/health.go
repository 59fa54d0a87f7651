package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Health describes the outcome of a database connectivity probe.
type Health struct {
	Healthy bool          `json:"healthy"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// CheckHealth pings the database with a short deadline and reports latency.
func CheckHealth(ctx context.Context, pool *pgxpool.Pool) Health {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	err := pool.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Health{Healthy: false, Latency: latency, Error: err.Error()}
	}
	return Health{Healthy: true, Latency: latency}
}
