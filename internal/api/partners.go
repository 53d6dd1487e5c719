package api

import (
	"context"
	"net/url"

	"github.com/saathghoomo/go-saath/internal/types"
)

type PartnerApplicationParams struct {
	Name       string  `json:"name"`
	City       string  `json:"city"`
	Bio        string  `json:"bio"`
	HourlyRate float64 `json:"hourlyRate"`
}

func (c *Client) ListPartners(ctx context.Context) ([]types.PartnerProfile, error) {
	var resp struct {
		Partners []types.PartnerProfile `json:"partners"`
	}
	if err := c.get(ctx, "/partners", &resp); err != nil {
		return nil, err
	}

	return resp.Partners, nil
}

func (c *Client) ApplyPartner(ctx context.Context, params PartnerApplicationParams) (*types.PartnerApplication, error) {
	var resp struct {
		Application *types.PartnerApplication `json:"application"`
	}
	if err := c.post(ctx, "/partners/apply", params, &resp); err != nil {
		return nil, err
	}

	return resp.Application, nil
}

func (c *Client) MyApplication(ctx context.Context) (*types.PartnerApplication, error) {
	var resp struct {
		Application *types.PartnerApplication `json:"application"`
	}
	if err := c.get(ctx, "/partners/my-application", &resp); err != nil {
		return nil, err
	}

	return resp.Application, nil
}

func (c *Client) PendingPartners(ctx context.Context) ([]types.PartnerApplication, error) {
	var resp struct {
		Partners []types.PartnerApplication `json:"partners"`
	}
	if err := c.get(ctx, "/admin/partners?status=pending", &resp); err != nil {
		return nil, err
	}

	return resp.Partners, nil
}

func (c *Client) ApprovePartner(ctx context.Context, id string) error {
	return c.patch(ctx, "/admin/partners/"+url.PathEscape(id)+"/approve", nil, nil)
}

func (c *Client) RejectPartner(ctx context.Context, id string) error {
	return c.patch(ctx, "/admin/partners/"+url.PathEscape(id)+"/reject", nil, nil)
}
