package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChapaAPI(baseURL string, client *http.Client) *ChapaAPI {
	return &ChapaAPI{
		BaseURL:     baseURL,
		Token:       "test-token",
		CallbackURL: "http://billing.local/callback",
		ReturnURL:   "http://dashboard.local/billing",
		Currency:    "USD",
		client:      client,
	}
}

func TestInitializeTransactionSuccess(t *testing.T) {
	var got initializeTransactionReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data":   map[string]string{"checkout_url": "https://checkout.chapa.co/pay/xyz"},
		})
	}))
	defer srv.Close()

	api := testChapaAPI(srv.URL, srv.Client())
	link, err := api.InitializeTransaction(context.Background(), 42.5, "u1@dogker.io", "dogker-inv-1-ref")
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.chapa.co/pay/xyz", link)
	assert.Equal(t, "42.50", got.Amount)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "u1@dogker.io", got.Email)
	assert.Equal(t, "dogker-inv-1-ref", got.TxRef)
	assert.Equal(t, "http://billing.local/callback", got.CallbackURL)
	assert.Equal(t, "http://dashboard.local/billing", got.ReturnURL)
}

func TestInitializeTransactionGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"status": "failed"})
	}))
	defer srv.Close()

	api := testChapaAPI(srv.URL, srv.Client())
	_, err := api.InitializeTransaction(context.Background(), 1, "u1@dogker.io", "ref")
	require.Error(t, err)
}
