package router

import (
	"context"
	"errors"
	"net/http"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type CollectorService interface {
	CollectTick(ctx context.Context) error
}

type AggregatorService interface {
	AggregateTick(ctx context.Context) error
}

type InvoiceService interface {
	GenerateTick(ctx context.Context) error
	GetUserInvoices(ctx context.Context, userID string) ([]domain.Invoice, error)
}

type PaymentService interface {
	PaymentTick(ctx context.Context) error
}

type BillingHandler struct {
	collector  CollectorService
	aggregator AggregatorService
	invoicer   InvoiceService
	payments   PaymentService
}

// MyRouter exposes health plus the internal scheduler-trigger endpoints, the
// same cron-hits-HTTP shape the platform's other services use, so ops (or
// dkron) can force a pipeline run out of band.
func MyRouter(r *server.Hertz, c CollectorService, a AggregatorService, i InvoiceService, p PaymentService) {

	handler := &BillingHandler{
		collector:  c,
		aggregator: a,
		invoicer:   i,
		payments:   p,
	}

	r.GET("/healthz", handler.Healthz)

	root := r.Group("/api/v1")
	{
		billingH := root.Group("/billing")
		{
			billingH.GET("/invoices/:userId", handler.GetUserInvoices)
			jobsH := billingH.Group("/jobs")
			{
				jobsH.POST("/collect/run", handler.RunCollect)
				jobsH.POST("/aggregate/run", handler.RunAggregate)
				jobsH.POST("/invoice/run", handler.RunInvoice)
				jobsH.POST("/payment/run", handler.RunPayment)
			}
		}
	}
}

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

type runJobResp struct {
	Message string `json:"message"`
}

func (m *BillingHandler) Healthz(ctx context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (m *BillingHandler) RunCollect(ctx context.Context, c *app.RequestContext) {
	if err := m.collector.CollectTick(ctx); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, runJobResp{Message: "collector run finished"})
}

func (m *BillingHandler) RunAggregate(ctx context.Context, c *app.RequestContext) {
	if err := m.aggregator.AggregateTick(ctx); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, runJobResp{Message: "aggregator run finished"})
}

func (m *BillingHandler) RunInvoice(ctx context.Context, c *app.RequestContext) {
	if err := m.invoicer.GenerateTick(ctx); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, runJobResp{Message: "invoice run finished"})
}

func (m *BillingHandler) RunPayment(ctx context.Context, c *app.RequestContext) {
	if err := m.payments.PaymentTick(ctx); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, runJobResp{Message: "payment run finished"})
}

type getUserInvoicesResp struct {
	Invoices []domain.Invoice `json:"invoices"`
}

func (m *BillingHandler) GetUserInvoices(ctx context.Context, c *app.RequestContext) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(consts.StatusBadRequest, ResponseError{Message: "userId is required"})
		return
	}
	invoices, err := m.invoicer.GetUserInvoices(ctx, userID)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, getUserInvoicesResp{Invoices: invoices})
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *domain.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	} else {
		switch ierr.Code() {
		case domain.ErrInternalServerError:
			return http.StatusInternalServerError
		case domain.ErrNotFound:
			return http.StatusNotFound
		case domain.ErrConflict:
			return http.StatusConflict
		case domain.ErrBadParamInput:
			return http.StatusBadRequest
		default:
			return http.StatusBadRequest
		}
	}

}
