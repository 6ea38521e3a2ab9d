// Package payment talks to the Razorpay orders API and checks checkout
// callback signatures.
package payment

import (
	"context"
	"errors"
	"fmt"

	"appliance-store/pkg/utils"

	razorpay "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
	"go.uber.org/zap"
)

var ErrGatewayDisabled = errors.New("payment gateway disabled")

type OrderRequest struct {
	AmountMinor int64 // paise
	Currency    string
	Receipt     string
	Notes       map[string]string
}

type Order struct {
	ID       string
	Amount   int64
	Currency string
	Status   string
}

type Callback struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

type Gateway interface {
	Enabled() bool
	KeyID() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifySignature(cb Callback) bool
}

type razorpayGateway struct {
	client *razorpay.Client
	config utils.PaymentConfig
	log    *zap.Logger
}

func NewRazorpayGateway(config utils.PaymentConfig, log *zap.Logger) Gateway {
	return &razorpayGateway{
		client: razorpay.NewClient(config.KeyID, config.KeySecret),
		config: config,
		log:    log.With(zap.String("gateway", "razorpay")),
	}
}

func (g *razorpayGateway) Enabled() bool {
	return g.config.Enabled && g.config.KeyID != "" && g.config.KeySecret != ""
}

func (g *razorpayGateway) KeyID() string {
	return g.config.KeyID
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if !g.Enabled() {
		return nil, ErrGatewayDisabled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = g.config.Currency
	}

	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.log.Error("Failed to create gateway order",
			zap.String("receipt", req.Receipt),
			zap.Int64("amount", req.AmountMinor),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create razorpay order %s: %w", req.Receipt, err)
	}

	return parseOrder(body)
}

func (g *razorpayGateway) VerifySignature(cb Callback) bool {
	if cb.GatewayOrderID == "" || cb.PaymentID == "" || cb.Signature == "" {
		return false
	}

	params := map[string]interface{}{
		"razorpay_order_id":   cb.GatewayOrderID,
		"razorpay_payment_id": cb.PaymentID,
	}
	return rzputils.VerifyPaymentSignature(params, cb.Signature, g.config.KeySecret)
}

func parseOrder(body map[string]interface{}) (*Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay order response without id")
	}

	order := &Order{ID: id}
	order.Currency, _ = body["currency"].(string)
	order.Status, _ = body["status"].(string)

	// amounts decode from JSON as float64
	switch amount := body["amount"].(type) {
	case float64:
		order.Amount = int64(amount)
	case int64:
		order.Amount = amount
	case int:
		order.Amount = int64(amount)
	}

	return order, nil
}
