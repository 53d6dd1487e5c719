package api

import (
	"context"

	"github.com/saathghoomo/go-saath/internal/types"
)

type WithdrawRequest struct {
	Amount      float64           `json:"amount"`
	BankDetails types.BankDetails `json:"bankDetails"`
}

type TransferRequest struct {
	Amount  float64 `json:"amount"`
	Email   string  `json:"email"`
	Message string  `json:"message,omitempty"`
}

func (c *Client) GetWallet(ctx context.Context) (*types.Wallet, error) {
	var resp struct {
		Wallet *types.Wallet `json:"wallet"`
	}
	if err := c.get(ctx, "/wallet", &resp); err != nil {
		return nil, err
	}

	return resp.Wallet, nil
}

func (c *Client) Withdraw(ctx context.Context, amount float64, bank types.BankDetails) error {
	return c.post(ctx, "/wallet/withdraw", WithdrawRequest{Amount: amount, BankDetails: bank}, nil)
}

func (c *Client) Transfer(ctx context.Context, amount float64, email, message string) error {
	req := TransferRequest{Amount: amount, Email: email, Message: message}
	return c.post(ctx, "/wallet/transfer", req, nil)
}

func (c *Client) ReferralCode(ctx context.Context) (string, error) {
	var resp struct {
		ReferralCode string `json:"referralCode"`
	}
	if err := c.get(ctx, "/referral/code", &resp); err != nil {
		return "", err
	}

	return resp.ReferralCode, nil
}
