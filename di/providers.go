package di

import (
	"dogker/lintang/monitor-billing-service/biz/domain"
	"dogker/lintang/monitor-billing-service/config"
)

func ProvidePricing(cfg *config.Config) domain.Pricing {
	return domain.Pricing{
		CpuSecond:   cfg.Pricing.PricePerCpuSecond,
		MemoryByte:  cfg.Pricing.PricePerMemByte,
		NetworkByte: cfg.Pricing.PricePerNetByte,
	}
}

func ProvideDueDateOffsetDays(cfg *config.Config) int {
	return cfg.Billing.DueDateOffsetDays
}
