package api

import (
	"context"
	"time"

	"github.com/saathghoomo/go-saath/internal/types"
)

type CreateBookingParams struct {
	PartnerId string    `json:"partnerId"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location"`
	Hours     int       `json:"hours"`
}

func (c *Client) CreateBooking(ctx context.Context, params CreateBookingParams) (*types.Booking, error) {
	var resp struct {
		Booking *types.Booking `json:"booking"`
	}
	if err := c.post(ctx, "/bookings", params, &resp); err != nil {
		return nil, err
	}

	return resp.Booking, nil
}

func (c *Client) MyBookings(ctx context.Context) ([]types.Booking, error) {
	var resp struct {
		Bookings []types.Booking `json:"bookings"`
	}
	if err := c.get(ctx, "/bookings/my-bookings", &resp); err != nil {
		return nil, err
	}

	return resp.Bookings, nil
}

func (c *Client) PartnerBookings(ctx context.Context) ([]types.Booking, error) {
	var resp struct {
		Bookings []types.Booking `json:"bookings"`
	}
	if err := c.get(ctx, "/bookings/partner-bookings", &resp); err != nil {
		return nil, err
	}

	return resp.Bookings, nil
}
