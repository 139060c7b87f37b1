package tsdb

import (
	"context"
	"time"

	"dogker/lintang/monitor-billing-service/config"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Redis struct {
	Client *redis.Client
}

func NewRedis(cfg *config.Config) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddress,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		hlog.Fatal("client.Ping (NewRedis)", zap.Error(err))
	}
	return &Redis{Client: client}
}

func (r *Redis) Close() error {
	zap.L().Info("closing redis gracefully")
	return r.Client.Close()
}
