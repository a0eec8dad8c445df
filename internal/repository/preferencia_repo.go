package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const prefixoLimiteCritico = "pref:limite_critico:"

// PreferenciaRepository stores per-company dashboard preferences in redis.
type PreferenciaRepository interface {
	// LimiteCritico returns the stored threshold and whether one was set.
	LimiteCritico(ctx context.Context, empresaID uuid.UUID) (int, bool, error)
	SalvarLimiteCritico(ctx context.Context, empresaID uuid.UUID, dias int) error
}

type preferenciaRepo struct{ rdb *redis.Client }

func NewPreferenciaRepository(rdb *redis.Client) PreferenciaRepository {
	return &preferenciaRepo{rdb: rdb}
}

func (r *preferenciaRepo) LimiteCritico(ctx context.Context, empresaID uuid.UUID) (int, bool, error) {
	v, err := r.rdb.Get(ctx, prefixoLimiteCritico+empresaID.String()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	dias, err := strconv.Atoi(v)
	if err != nil {
		// a corrupt value behaves like an unset one
		return 0, false, nil
	}
	return dias, true, nil
}

func (r *preferenciaRepo) SalvarLimiteCritico(ctx context.Context, empresaID uuid.UUID, dias int) error {
	return r.rdb.Set(ctx, prefixoLimiteCritico+empresaID.String(), dias, 0).Err()
}
