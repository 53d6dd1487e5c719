package api

import (
	"context"
	"net/url"

	"github.com/saathghoomo/go-saath/internal/types"
)

// ChatHistory is the read-only message log for one booking's chat room,
// together with the booking metadata used to name the other party.
type ChatHistory struct {
	Messages []types.ChatMessage `json:"messages"`
	Booking  types.Booking       `json:"booking"`
}

func (c *Client) ChatHistory(ctx context.Context, bookingId string) (*ChatHistory, error) {
	var resp ChatHistory
	if err := c.get(ctx, "/chat/"+url.PathEscape(bookingId), &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
