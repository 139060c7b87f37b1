package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dogker/lintang/monitor-billing-service/biz/domain"
	"dogker/lintang/monitor-billing-service/config"

	"go.uber.org/zap"
)

// ChapaAPI requests hosted checkout links from the payment gateway.
type ChapaAPI struct {
	BaseURL     string
	Token       string
	CallbackURL string
	ReturnURL   string
	Currency    string
	client      *http.Client
}

func CreateChapaAPI(cfg *config.Config) *ChapaAPI {
	return &ChapaAPI{
		BaseURL:     cfg.Chapa.BaseURL,
		Token:       cfg.Chapa.Token,
		CallbackURL: cfg.Chapa.CallbackURL,
		ReturnURL:   cfg.Chapa.ReturnURL,
		Currency:    cfg.Chapa.Currency,
		client:      &http.Client{Timeout: 15 * time.Second},
	}
}

type initializeTransactionReq struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
}

type initializeTransactionResp struct {
	Status string `json:"status"`
	Data   struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// InitializeTransaction asks the gateway for a hosted payment link. txRef must
// be freshly generated per request; the gateway rejects a reused reference.
func (c *ChapaAPI) InitializeTransaction(ctx context.Context, amount float64, email string, txRef string) (string, error) {
	payload, err := json.Marshal(initializeTransactionReq{
		Amount:      fmt.Sprintf("%.2f", amount),
		Currency:    c.Currency,
		Email:       email,
		TxRef:       txRef,
		CallbackURL: c.CallbackURL,
		ReturnURL:   c.ReturnURL,
	})
	if err != nil {
		zap.L().Error("Marshal JSON (InitializeTransaction) (ChapaAPI)", zap.Error(err))
		return "", domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/transaction/initialize", bytes.NewBuffer(payload))
	if err != nil {
		zap.L().Error("NewRequest (InitializeTransaction) (ChapaAPI)", zap.Error(err))
		return "", domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Error("c.client.Do(req) (InitializeTransaction) (ChapaAPI)", zap.Error(err))
		return "", domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}
	defer resp.Body.Close()

	var body initializeTransactionResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		zap.L().Error("json.Decode (InitializeTransaction) (ChapaAPI)", zap.Error(err))
		return "", domain.WrapErrorf(err, domain.ErrInternalServerError, domain.MessageInternalServerError)
	}

	if resp.StatusCode != http.StatusOK || body.Status != "success" {
		zap.L().Error("payment gateway rejected transaction",
			zap.Int("status", resp.StatusCode), zap.String("gatewayStatus", body.Status), zap.String("txRef", txRef))
		return "", domain.NewErrorf(domain.ErrInternalServerError, "payment gateway returned status %q", body.Status)
	}
	return body.Data.CheckoutURL, nil
}
