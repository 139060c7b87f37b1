package service

import (
	"context"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentGatewayAPI interface {
	InitializeTransaction(ctx context.Context, amount float64, email string, txRef string) (string, error)
}

type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Suspend(ctx context.Context, userID string, suspendedAt time.Time) error
}

type PaymentService struct {
	invoiceRepo InvoiceRepository
	userRepo    UserRepository
	gateway     PaymentGatewayAPI
	publisher   BillingPublisher
}

func NewPaymentService(i InvoiceRepository, u UserRepository, g PaymentGatewayAPI, p BillingPublisher) *PaymentService {
	return &PaymentService{
		invoiceRepo: i,
		userRepo:    u,
		gateway:     g,
		publisher:   p,
	}
}

// PaymentTick walks every outstanding invoice (PENDING, GENERATED, FAILED).
// Before the due date it requests a fresh hosted payment link; past the due
// date it suspends the owning account instead. One invoice's failure never
// aborts the batch.
func (s *PaymentService) PaymentTick(ctx context.Context) error {
	invoices, err := s.invoiceRepo.GetOutstanding(ctx)
	if err != nil {
		zap.L().Error("s.invoiceRepo.GetOutstanding (PaymentTick) (PaymentService)", zap.Error(err))
		return err
	}

	now := time.Now().UTC()
	for i := range invoices {
		inv := &invoices[i]
		if inv.DueDate.Before(now) {
			if err := s.suspendOwner(ctx, inv, now); err != nil {
				zap.L().Error("s.suspendOwner (PaymentTick) (PaymentService)", zap.Error(err), zap.String("invoiceID", inv.ID))
			}
			continue
		}
		if err := s.requestPaymentLink(ctx, inv); err != nil {
			zap.L().Error("s.requestPaymentLink (PaymentTick) (PaymentService)", zap.Error(err), zap.String("invoiceID", inv.ID))
		}
	}
	return nil
}

func (s *PaymentService) requestPaymentLink(ctx context.Context, inv *domain.Invoice) error {
	usr, err := s.userRepo.Get(ctx, inv.UserID)
	if err != nil {
		return err
	}

	// fresh reference per attempt, the gateway treats tx_ref as an
	// idempotency token and rejects reuse
	txRef := "dogker-" + inv.ID + "-" + uuid.New().String()

	link, err := s.gateway.InitializeTransaction(ctx, inv.Amount, usr.Email, txRef)
	if err != nil {
		if uerr := s.invoiceRepo.UpdateStatus(ctx, inv.ID, domain.InvoiceStatusFailed, ""); uerr != nil {
			zap.L().Error("s.invoiceRepo.UpdateStatus (requestPaymentLink) (PaymentService)", zap.Error(uerr), zap.String("invoiceID", inv.ID))
		}
		return err
	}

	return s.invoiceRepo.UpdateStatus(ctx, inv.ID, domain.InvoiceStatusGenerated, link)
}

// suspendOwner marks the invoice owner's account SUSPENDED and tells the
// containers service over the monitor-billing exchange. Teardown of the
// suspended user's containers happens there, not here.
func (s *PaymentService) suspendOwner(ctx context.Context, inv *domain.Invoice, now time.Time) error {
	usr, err := s.userRepo.Get(ctx, inv.UserID)
	if err != nil {
		return err
	}
	if usr.Status == domain.UserStatusSuspended {
		return nil
	}

	if err := s.userRepo.Suspend(ctx, inv.UserID, now); err != nil {
		return err
	}

	err = s.publisher.PublishUserSuspended(ctx, domain.UserSuspendedMessage{
		UserID:      inv.UserID,
		InvoiceID:   inv.ID,
		SuspendedAt: now,
	})
	if err != nil {
		// account state is already persisted, the event can be replayed by ops
		zap.L().Error("s.publisher.PublishUserSuspended (suspendOwner) (PaymentService)", zap.Error(err), zap.String("userID", inv.UserID))
	}
	return nil
}
