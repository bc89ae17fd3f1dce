package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis abre el cliente que respalda las colas de notificaciones y la DLQ
// de domiciliaciones. Falla en el arranque si Redis no responde al ping:
// mejor no levantar el servidor que perder avisos en silencio.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
