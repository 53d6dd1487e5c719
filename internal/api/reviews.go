package api

import (
	"context"
	"net/url"

	"github.com/saathghoomo/go-saath/internal/types"
)

type CreateReviewRequest struct {
	PartnerId string `json:"partnerId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

func (c *Client) PartnerReviews(ctx context.Context, partnerId string) ([]types.Review, error) {
	var resp struct {
		Reviews []types.Review `json:"reviews"`
	}
	if err := c.get(ctx, "/reviews/partner/"+url.PathEscape(partnerId), &resp); err != nil {
		return nil, err
	}

	return resp.Reviews, nil
}

func (c *Client) CreateReview(ctx context.Context, partnerId string, rating int, comment string) (*types.Review, error) {
	var resp struct {
		Review *types.Review `json:"review"`
	}
	req := CreateReviewRequest{PartnerId: partnerId, Rating: rating, Comment: comment}
	if err := c.post(ctx, "/reviews", req, &resp); err != nil {
		return nil, err
	}

	return resp.Review, nil
}
