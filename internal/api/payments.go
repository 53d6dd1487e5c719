package api

import (
	"context"

	"github.com/saathghoomo/go-saath/internal/types"
)

type CreateOrderRequest struct {
	BookingId string `json:"bookingId"`
}

// VerifyPaymentParams carries the gateway's order confirmation back to the
// backend; the gateway SDK itself is outside this client.
type VerifyPaymentParams struct {
	OrderId   string `json:"orderId"`
	PaymentId string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (c *Client) CreatePaymentOrder(ctx context.Context, bookingId string) (*types.PaymentOrder, error) {
	var resp struct {
		Order *types.PaymentOrder `json:"order"`
	}
	if err := c.post(ctx, "/payments/create-order", CreateOrderRequest{BookingId: bookingId}, &resp); err != nil {
		return nil, err
	}

	return resp.Order, nil
}

func (c *Client) VerifyPayment(ctx context.Context, params VerifyPaymentParams) error {
	return c.post(ctx, "/payments/verify", params, nil)
}
