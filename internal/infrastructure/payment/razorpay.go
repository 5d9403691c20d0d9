package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/pkg/apperror"
	"github.com/oksasatya/pixcredit/pkg/httpclient"
)

// Razorpay talks to the Razorpay Orders API.
type Razorpay struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *httpclient.Client
}

func NewRazorpay(baseURL, keyID, keySecret string, hc *httpclient.Client) *Razorpay {
	return &Razorpay{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyID:     keyID,
		keySecret: keySecret,
		http:      hc,
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type errorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder creates an order for amount (in the currency's minor unit).
func (r *Razorpay) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*entity.GatewayOrder, error) {
	body, err := json.Marshal(createOrderRequest{Amount: amount, Currency: currency, Receipt: receipt})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	req, err := http.NewRequest(http.MethodPost, r.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	var order entity.GatewayOrder
	if err := r.do(ctx, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FetchOrder returns the current state of an order. Unknown orders are
// reported as a failed payment.
func (r *Razorpay) FetchOrder(ctx context.Context, orderID string) (*entity.GatewayOrder, error) {
	req, err := http.NewRequest(http.MethodGet, r.baseURL+"/v1/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	var order entity.GatewayOrder
	if err := r.do(ctx, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Razorpay) do(ctx context.Context, req *http.Request, out any) error {
	req.SetBasicAuth(r.keyID, r.keySecret)
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(ctx, req)
	if err != nil {
		return apperror.PaymentGateway(fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperror.PaymentGateway(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.Unmarshal(raw, out); err != nil {
			return apperror.PaymentGateway(fmt.Errorf("decode response: %w", err))
		}
		return nil
	case resp.StatusCode == http.StatusNotFound ||
		(resp.StatusCode == http.StatusBadRequest && req.Method == http.MethodGet):
		return apperror.PaymentFailed("payment order not found")
	default:
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		return apperror.PaymentGateway(fmt.Errorf("razorpay status %d: %s %s", resp.StatusCode, eb.Error.Code, eb.Error.Description))
	}
}
