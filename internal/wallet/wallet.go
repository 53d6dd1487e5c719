package wallet

import (
	"context"
	"log"
	"sync"

	"github.com/saathghoomo/go-saath/internal/api"
	"github.com/saathghoomo/go-saath/internal/types"
)

// Wallet is the client-side view of the SaathCoins balance. Withdrawals and
// transfers are validated against the local snapshot before any network
// call is issued.
type Wallet struct {
	api      api.Backend
	notifier types.Notifier
	log      *log.Logger

	mu       sync.Mutex
	wallet   types.Wallet
	referral string
}

func New(backend api.Backend, notifier types.Notifier, logger *log.Logger) *Wallet {
	return &Wallet{
		api:      backend,
		notifier: notifier,
		log:      logger,
	}
}

func (w *Wallet) Balance() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wallet.Balance
}

func (w *Wallet) Transactions() []types.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]types.Transaction, len(w.wallet.Transactions))
	copy(out, w.wallet.Transactions)
	return out
}

// Fetch refreshes the balance snapshot. On failure the wallet falls back to
// an empty snapshot rather than keeping a stale balance around for the
// local withdrawal check.
func (w *Wallet) Fetch(ctx context.Context) error {
	wallet, err := w.api.GetWallet(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil || wallet == nil {
		w.log.Println("fetch wallet:", err)
		w.wallet = types.Wallet{}
		return err
	}

	w.wallet = *wallet
	return nil
}

// ReferralCode is best-effort; a missing code is not an error worth
// surfacing.
func (w *Wallet) ReferralCode(ctx context.Context) string {
	w.mu.Lock()
	cached := w.referral
	w.mu.Unlock()
	if cached != "" {
		return cached
	}

	code, err := w.api.ReferralCode(ctx)
	if err != nil {
		w.log.Println("fetch referral code:", err)
		return ""
	}

	w.mu.Lock()
	w.referral = code
	w.mu.Unlock()
	return code
}

func (w *Wallet) validateAmount(amount float64) error {
	if amount <= 0 {
		return api.NewValidationError("amount", "Please enter a valid amount")
	}
	if amount > w.Balance() {
		return api.NewValidationError("amount", "Insufficient balance")
	}

	return nil
}

// Withdraw requests a payout to a bank account. All checks run before the
// network call; a rejected withdrawal never reaches the backend.
func (w *Wallet) Withdraw(ctx context.Context, amount float64, bank types.BankDetails) error {
	if err := w.validateAmount(amount); err != nil {
		w.notifier.Error(api.UserMessageFor(err))
		return err
	}
	if bank.AccountNumber == "" || bank.IFSC == "" || bank.AccountHolder == "" {
		err := api.NewValidationError("bankDetails", "Please fill all bank details")
		w.notifier.Error(err.UserMessage())
		return err
	}

	if err := w.api.Withdraw(ctx, amount, bank); err != nil {
		w.notifier.Error(api.UserMessageFor(err))
		return err
	}

	w.notifier.Success("Withdrawal request submitted successfully!")
	if err := w.Fetch(ctx); err != nil {
		w.log.Println("refresh wallet after withdrawal:", err)
	}
	return nil
}

// Transfer sends SaathCoins to another user by email.
func (w *Wallet) Transfer(ctx context.Context, amount float64, email, message string) error {
	if err := w.validateAmount(amount); err != nil {
		w.notifier.Error(api.UserMessageFor(err))
		return err
	}
	if email == "" {
		err := api.NewValidationError("email", "Please enter the recipient's email")
		w.notifier.Error(err.UserMessage())
		return err
	}

	if err := w.api.Transfer(ctx, amount, email, message); err != nil {
		w.notifier.Error(api.UserMessageFor(err))
		return err
	}

	w.notifier.Success("Transfer completed successfully!")
	if err := w.Fetch(ctx); err != nil {
		w.log.Println("refresh wallet after transfer:", err)
	}
	return nil
}
