package api

import (
	"context"

	"github.com/saathghoomo/go-saath/internal/types"
	"github.com/stretchr/testify/mock"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if resp, ok := args.Get(0).(*AuthResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	args := m.Called(ctx, name, email, password)
	if resp, ok := args.Get(0).(*AuthResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	args := m.Called(ctx, idToken)
	if resp, ok := args.Get(0).(*AuthResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) Profile(ctx context.Context) (*types.User, error) {
	args := m.Called(ctx)
	if user, ok := args.Get(0).(*types.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) ListNotifications(ctx context.Context) (*NotificationList, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).(*NotificationList); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) MarkNotificationRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBackend) MarkAllNotificationsRead(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockBackend) DeleteNotification(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *MockBackend) ChatHistory(ctx context.Context, bookingId string) (*ChatHistory, error) {
	args := m.Called(ctx, bookingId)
	if hist, ok := args.Get(0).(*ChatHistory); ok {
		return hist, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) CreateBooking(ctx context.Context, params CreateBookingParams) (*types.Booking, error) {
	args := m.Called(ctx, params)
	if b, ok := args.Get(0).(*types.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) MyBookings(ctx context.Context) ([]types.Booking, error) {
	args := m.Called(ctx)
	if b, ok := args.Get(0).([]types.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) PartnerBookings(ctx context.Context) ([]types.Booking, error) {
	args := m.Called(ctx)
	if b, ok := args.Get(0).([]types.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) GetWallet(ctx context.Context) (*types.Wallet, error) {
	args := m.Called(ctx)
	if w, ok := args.Get(0).(*types.Wallet); ok {
		return w, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) Withdraw(ctx context.Context, amount float64, bank types.BankDetails) error {
	args := m.Called(ctx, amount, bank)
	return args.Error(0)
}
func (m *MockBackend) Transfer(ctx context.Context, amount float64, email, message string) error {
	args := m.Called(ctx, amount, email, message)
	return args.Error(0)
}
func (m *MockBackend) ReferralCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
func (m *MockBackend) ListPartners(ctx context.Context) ([]types.PartnerProfile, error) {
	args := m.Called(ctx)
	if p, ok := args.Get(0).([]types.PartnerProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) ApplyPartner(ctx context.Context, params PartnerApplicationParams) (*types.PartnerApplication, error) {
	args := m.Called(ctx, params)
	if a, ok := args.Get(0).(*types.PartnerApplication); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) MyApplication(ctx context.Context) (*types.PartnerApplication, error) {
	args := m.Called(ctx)
	if a, ok := args.Get(0).(*types.PartnerApplication); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) PendingPartners(ctx context.Context) ([]types.PartnerApplication, error) {
	args := m.Called(ctx)
	if a, ok := args.Get(0).([]types.PartnerApplication); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) ApprovePartner(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBackend) RejectPartner(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBackend) PartnerReviews(ctx context.Context, partnerId string) ([]types.Review, error) {
	args := m.Called(ctx, partnerId)
	if r, ok := args.Get(0).([]types.Review); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) CreateReview(ctx context.Context, partnerId string, rating int, comment string) (*types.Review, error) {
	args := m.Called(ctx, partnerId, rating, comment)
	if r, ok := args.Get(0).(*types.Review); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) CreatePaymentOrder(ctx context.Context, bookingId string) (*types.PaymentOrder, error) {
	args := m.Called(ctx, bookingId)
	if o, ok := args.Get(0).(*types.PaymentOrder); ok {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockBackend) VerifyPayment(ctx context.Context, params VerifyPaymentParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}
func (m *MockBackend) AnalyticsStats(ctx context.Context) (*types.AnalyticsStats, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(*types.AnalyticsStats); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
