package wallet

import (
	"context"
	"testing"

	"github.com/saathghoomo/go-saath/internal/api"
	"github.com/saathghoomo/go-saath/internal/testutil"
	"github.com/saathghoomo/go-saath/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testBank = types.BankDetails{
	AccountNumber: "1234567890",
	IFSC:          "SBIN0001234",
	AccountHolder: "Asha Patel",
}

type walletFixture struct {
	wallet   *Wallet
	backend  *api.MockBackend
	notifier *testutil.RecordingNotifier
}

func newWalletFixture(t *testing.T, balance float64) *walletFixture {
	f := &walletFixture{
		backend:  &api.MockBackend{},
		notifier: &testutil.RecordingNotifier{},
	}
	f.wallet = New(f.backend, f.notifier, testutil.TestLogger(t))

	f.backend.On("GetWallet", mock.Anything).
		Return(&types.Wallet{Balance: balance}, nil).Once()
	assert.NoError(t, f.wallet.Fetch(context.Background()))
	return f
}

func TestFetch(t *testing.T) {
	f := newWalletFixture(t, 250)
	assert.Equal(t, 250.0, f.wallet.Balance())
}

func TestFetch_ErrorResetsSnapshot(t *testing.T) {
	f := newWalletFixture(t, 250)
	defer f.backend.AssertExpectations(t)

	f.backend.On("GetWallet", mock.Anything).
		Return(nil, api.NewStatusError(500, "down")).Once()

	assert.Error(t, f.wallet.Fetch(context.Background()))
	assert.Zero(t, f.wallet.Balance(),
		"a stale balance must not back the local withdrawal check")
}

func TestWithdraw(t *testing.T) {
	f := newWalletFixture(t, 100)
	defer f.backend.AssertExpectations(t)

	f.backend.On("Withdraw", mock.Anything, 60.0, testBank).Return(nil).Once()
	f.backend.On("GetWallet", mock.Anything).
		Return(&types.Wallet{Balance: 40}, nil).Once()

	assert.NoError(t, f.wallet.Withdraw(context.Background(), 60, testBank))

	assert.Equal(t, "Withdrawal request submitted successfully!", f.notifier.LastSuccess())
	assert.Equal(t, 40.0, f.wallet.Balance(), "the snapshot refreshes after a withdrawal")
}

func TestWithdraw_InsufficientBalanceSkipsNetwork(t *testing.T) {
	f := newWalletFixture(t, 100)

	err := f.wallet.Withdraw(context.Background(), 150, testBank)

	assert.Error(t, err)
	f.backend.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "Insufficient balance", f.notifier.LastError())
}

func TestWithdraw_InvalidAmount(t *testing.T) {
	f := newWalletFixture(t, 100)

	assert.Error(t, f.wallet.Withdraw(context.Background(), 0, testBank))
	assert.Error(t, f.wallet.Withdraw(context.Background(), -5, testBank))
	f.backend.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "Please enter a valid amount", f.notifier.LastError())
}

func TestWithdraw_IncompleteBankDetails(t *testing.T) {
	f := newWalletFixture(t, 100)

	bank := testBank
	bank.IFSC = ""
	assert.Error(t, f.wallet.Withdraw(context.Background(), 50, bank))

	f.backend.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "Please fill all bank details", f.notifier.LastError())
}

func TestTransfer(t *testing.T) {
	f := newWalletFixture(t, 100)
	defer f.backend.AssertExpectations(t)

	f.backend.On("Transfer", mock.Anything, 30.0, "ravi@example.com", "chai money").
		Return(nil).Once()
	f.backend.On("GetWallet", mock.Anything).
		Return(&types.Wallet{Balance: 70}, nil).Once()

	assert.NoError(t, f.wallet.Transfer(context.Background(), 30, "ravi@example.com", "chai money"))
	assert.Equal(t, "Transfer completed successfully!", f.notifier.LastSuccess())
	assert.Equal(t, 70.0, f.wallet.Balance())
}

func TestTransfer_MissingRecipient(t *testing.T) {
	f := newWalletFixture(t, 100)

	assert.Error(t, f.wallet.Transfer(context.Background(), 30, "", ""))
	f.backend.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransfer_ServerRejection(t *testing.T) {
	f := newWalletFixture(t, 100)
	defer f.backend.AssertExpectations(t)

	f.backend.On("Transfer", mock.Anything, 30.0, "ravi@example.com", "").
		Return(api.NewStatusError(400, "Recipient not found")).Once()

	assert.Error(t, f.wallet.Transfer(context.Background(), 30, "ravi@example.com", ""))
	assert.Equal(t, "Recipient not found", f.notifier.LastError())
	assert.Equal(t, 100.0, f.wallet.Balance(), "a rejected transfer leaves the balance alone")
}

func TestReferralCode_Cached(t *testing.T) {
	f := newWalletFixture(t, 100)
	defer f.backend.AssertExpectations(t)

	f.backend.On("ReferralCode", mock.Anything).Return("SAATH123", nil).Once()

	assert.Equal(t, "SAATH123", f.wallet.ReferralCode(context.Background()))
	assert.Equal(t, "SAATH123", f.wallet.ReferralCode(context.Background()),
		"the second read is served from cache")
}

func TestReferralCode_BestEffort(t *testing.T) {
	f := newWalletFixture(t, 100)
	defer f.backend.AssertExpectations(t)

	f.backend.On("ReferralCode", mock.Anything).
		Return("", api.NewStatusError(500, "down")).Once()

	assert.Empty(t, f.wallet.ReferralCode(context.Background()))
	assert.Empty(t, f.notifier.Errors, "a missing referral code is not surfaced")
}
