package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"dogker/lintang/monitor-billing-service/biz/dal"
	"dogker/lintang/monitor-billing-service/biz/dal/db"
	"dogker/lintang/monitor-billing-service/biz/router"
	"dogker/lintang/monitor-billing-service/config"
	"dogker/lintang/monitor-billing-service/di"
	"dogker/lintang/monitor-billing-service/pkg/scheduler"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzap "github.com/hertz-contrib/logger/zap"
	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
)

const taskTimeout = 30 * time.Minute

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("zap.NewProduction: %s", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	hlog.SetLogger(hertzzap.NewLogger())
	hlog.SetOutput(io.MultiWriter(&lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    100, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}, os.Stdout))

	pg := dal.InitPg(cfg)
	rdb := dal.InitRedis(cfg)
	rmq := dal.InitRmq(cfg)

	collectorSvc := di.InitCollectorService(rdb, cfg)
	aggregatorSvc := di.InitAggregatorService(rdb, pg, rmq, cfg)
	invoiceSvc := di.InitInvoiceService(pg, cfg)
	paymentSvc := di.InitPaymentService(pg, rmq, cfg)

	sched := scheduler.New(taskTimeout)
	mustRegister(sched, scheduler.Task{Name: "collector", Spec: cfg.Cron.CollectorSpec, Run: collectorSvc.CollectTick})
	mustRegister(sched, scheduler.Task{Name: "aggregator", Spec: cfg.Cron.AggregatorSpec, Run: aggregatorSvc.AggregateTick})
	mustRegister(sched, scheduler.Task{Name: "invoice", Spec: cfg.Cron.InvoiceSpec, Run: invoiceSvc.GenerateTick})
	mustRegister(sched, scheduler.Task{Name: "payment", Spec: cfg.Cron.PaymentSpec, Run: paymentSvc.PaymentTick})
	sched.Start()

	h := server.Default(server.WithHostPorts(":" + cfg.HTTP.Port))
	router.MyRouter(h, collectorSvc, aggregatorSvc, invoiceSvc, paymentSvc)

	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		sched.Stop()
		if err := db.ClosePostgres(pg.Pool); err != nil {
			zap.L().Error("db.ClosePostgres", zap.Error(err))
		}
		if err := rdb.Close(); err != nil {
			zap.L().Error("rdb.Close", zap.Error(err))
		}
		if err := rmq.Close(); err != nil {
			zap.L().Error("rmq.Close", zap.Error(err))
		}
	})

	h.Spin()
}

func mustRegister(s *scheduler.Scheduler, t scheduler.Task) {
	if err := s.Register(t); err != nil {
		hlog.Fatal("s.Register "+t.Name, zap.Error(err))
	}
}
