package usecase

import (
	"context"
	"time"

	"go-coaching-backend/pkg/redis"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	db *pgxpool.Pool
}

func NewHealthUsecase(db *pgxpool.Pool) HealthUsecase {
	return &healthUsecase{db: db}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status":   "ok",
		"database": "ok",
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := u.db.Ping(pingCtx); err != nil {
		status["status"] = "degraded"
		status["database"] = "unreachable"
	}

	// Redis is optional; its absence does not degrade overall status.
	if redis.Client() == nil {
		status["redis"] = "unconfigured"
	} else if err := redis.HealthCheck(pingCtx); err != nil {
		status["redis"] = "unreachable"
	} else {
		status["redis"] = "ok"
	}
	return status
}
