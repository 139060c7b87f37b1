package dal

import (
	"dogker/lintang/monitor-billing-service/biz/dal/db"
	"dogker/lintang/monitor-billing-service/biz/dal/messagebroker"
	"dogker/lintang/monitor-billing-service/biz/dal/tsdb"
	"dogker/lintang/monitor-billing-service/config"
)

func InitPg(cfg *config.Config) *db.Postgres {
	pg := db.NewPostgres(cfg)
	return pg
}

func InitRedis(cfg *config.Config) *tsdb.Redis {
	rdb := tsdb.NewRedis(cfg)
	return rdb
}

func InitRmq(cfg *config.Config) *messagebroker.RabbitMQ {
	rmq := messagebroker.NewRabbitMQ(cfg)

	return rmq
}
