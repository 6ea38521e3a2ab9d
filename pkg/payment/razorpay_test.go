package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"appliance-store/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestGateway(enabled bool) Gateway {
	return NewRazorpayGateway(utils.PaymentConfig{
		Enabled:   enabled,
		KeyID:     "rzp_test_key",
		KeySecret: "s3cr3t",
		Currency:  "INR",
	}, zap.NewNop())
}

func TestVerifySignature(t *testing.T) {
	gw := newTestGateway(true)

	valid := Callback{
		GatewayOrderID: "order_Ab12",
		PaymentID:      "pay_Zy98",
		Signature:      sign("s3cr3t", "order_Ab12", "pay_Zy98"),
	}
	assert.True(t, gw.VerifySignature(valid))

	tampered := valid
	tampered.PaymentID = "pay_other"
	assert.False(t, gw.VerifySignature(tampered))

	wrongSecret := valid
	wrongSecret.Signature = sign("other", "order_Ab12", "pay_Zy98")
	assert.False(t, gw.VerifySignature(wrongSecret))

	assert.False(t, gw.VerifySignature(Callback{GatewayOrderID: "order_Ab12", PaymentID: "pay_Zy98"}))
}

func TestCreateOrder_Disabled(t *testing.T) {
	gw := newTestGateway(false)
	assert.False(t, gw.Enabled())

	_, err := gw.CreateOrder(context.Background(), OrderRequest{AmountMinor: 100, Receipt: "ORD-1"})
	assert.ErrorIs(t, err, ErrGatewayDisabled)
}

func TestParseOrder(t *testing.T) {
	order, err := parseOrder(map[string]interface{}{
		"id":       "order_Ab12",
		"amount":   float64(129900),
		"currency": "INR",
		"status":   "created",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_Ab12", order.ID)
	assert.Equal(t, int64(129900), order.Amount)
	assert.Equal(t, "created", order.Status)

	_, err = parseOrder(map[string]interface{}{"error": "bad"})
	assert.Error(t, err)
}
