package api

import (
	"context"

	"github.com/saathghoomo/go-saath/internal/types"
)

func (c *Client) AnalyticsStats(ctx context.Context) (*types.AnalyticsStats, error) {
	var resp struct {
		Stats *types.AnalyticsStats `json:"stats"`
	}
	if err := c.get(ctx, "/admin/analytics/stats", &resp); err != nil {
		return nil, err
	}

	return resp.Stats, nil
}
