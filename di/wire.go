//go:build wireinject
// +build wireinject

package di

import (
	"dogker/lintang/monitor-billing-service/biz/dal/db"
	"dogker/lintang/monitor-billing-service/biz/dal/messagebroker"
	"dogker/lintang/monitor-billing-service/biz/dal/tsdb"
	"dogker/lintang/monitor-billing-service/biz/service"
	"dogker/lintang/monitor-billing-service/biz/webapi"
	"dogker/lintang/monitor-billing-service/config"

	"github.com/google/wire"
)

var ProviderSet wire.ProviderSet = wire.NewSet(
	service.NewCollectorService,
	service.NewAggregatorService,
	service.NewInvoiceService,
	service.NewPaymentService,
	webapi.CreateCAdvisorAPI,
	webapi.CreateChapaAPI,
	tsdb.NewMetricsStreamRepo,
	db.NewContainerRepo,
	db.NewMetricsRepo,
	db.NewInvoiceRepo,
	db.NewUserRepo,
	messagebroker.NewBillingPublisher,
	ProvidePricing,
	ProvideDueDateOffsetDays,

	wire.Bind(new(service.UsageAPI), new(*webapi.CAdvisorAPI)),
	wire.Bind(new(service.PaymentGatewayAPI), new(*webapi.ChapaAPI)),
	wire.Bind(new(service.MetricsStream), new(*tsdb.MetricsStreamRepository)),
	wire.Bind(new(service.ContainerRepository), new(*db.ContainerRepository)),
	wire.Bind(new(service.MetricsRepository), new(*db.MetricsRepository)),
	wire.Bind(new(service.InvoiceRepository), new(*db.InvoiceRepository)),
	wire.Bind(new(service.UserRepository), new(*db.UserRepository)),
	wire.Bind(new(service.BillingPublisher), new(*messagebroker.BillingPublisher)),
)

func InitCollectorService(rdb *tsdb.Redis, cfg *config.Config) *service.CollectorService {
	wire.Build(ProviderSet)
	return nil
}

func InitAggregatorService(rdb *tsdb.Redis, pg *db.Postgres, rmq *messagebroker.RabbitMQ, cfg *config.Config) *service.AggregatorService {
	wire.Build(ProviderSet)
	return nil
}

func InitInvoiceService(pg *db.Postgres, cfg *config.Config) *service.InvoiceService {
	wire.Build(ProviderSet)
	return nil
}

func InitPaymentService(pg *db.Postgres, rmq *messagebroker.RabbitMQ, cfg *config.Config) *service.PaymentService {
	wire.Build(ProviderSet)
	return nil
}
