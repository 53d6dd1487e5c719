package api

import (
	"context"

	"github.com/saathghoomo/go-saath/internal/types"
)

// Backend is the full REST surface the stores consume. Stores depend on
// this interface so tests can substitute MockBackend.
type Backend interface {
	// auth
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (*AuthResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error)
	Profile(ctx context.Context) (*types.User, error)

	// notifications
	ListNotifications(ctx context.Context) (*NotificationList, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) (int, error)

	// chat
	ChatHistory(ctx context.Context, bookingId string) (*ChatHistory, error)

	// bookings
	CreateBooking(ctx context.Context, params CreateBookingParams) (*types.Booking, error)
	MyBookings(ctx context.Context) ([]types.Booking, error)
	PartnerBookings(ctx context.Context) ([]types.Booking, error)

	// wallet
	GetWallet(ctx context.Context) (*types.Wallet, error)
	Withdraw(ctx context.Context, amount float64, bank types.BankDetails) error
	Transfer(ctx context.Context, amount float64, email, message string) error
	ReferralCode(ctx context.Context) (string, error)

	// partners
	ListPartners(ctx context.Context) ([]types.PartnerProfile, error)
	ApplyPartner(ctx context.Context, params PartnerApplicationParams) (*types.PartnerApplication, error)
	MyApplication(ctx context.Context) (*types.PartnerApplication, error)
	PendingPartners(ctx context.Context) ([]types.PartnerApplication, error)
	ApprovePartner(ctx context.Context, id string) error
	RejectPartner(ctx context.Context, id string) error

	// reviews
	PartnerReviews(ctx context.Context, partnerId string) ([]types.Review, error)
	CreateReview(ctx context.Context, partnerId string, rating int, comment string) (*types.Review, error)

	// payments
	CreatePaymentOrder(ctx context.Context, bookingId string) (*types.PaymentOrder, error)
	VerifyPayment(ctx context.Context, params VerifyPaymentParams) error

	// admin
	AnalyticsStats(ctx context.Context) (*types.AnalyticsStats, error)
}

var _ Backend = (*Client)(nil)
