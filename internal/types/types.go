package types

import (
	"time"
)

type Role string

const (
	RoleUser    Role = "user"
	RolePartner Role = "partner"
	RoleAdmin   Role = "admin"
)

type User struct {
	Id    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

type NotificationType string

const (
	NotificationBookingCreated     NotificationType = "booking_created"
	NotificationBookingAccepted    NotificationType = "booking_accepted"
	NotificationBookingRejected    NotificationType = "booking_rejected"
	NotificationPaymentCompleted   NotificationType = "payment_completed"
	NotificationNewMessage         NotificationType = "new_message"
	NotificationPartnerApplication NotificationType = "partner_application"
	NotificationPartnerApproved    NotificationType = "partner_approved"
	NotificationPartnerRejected    NotificationType = "partner_rejected"
	NotificationReviewReceived     NotificationType = "review_received"
	NotificationWalletUpdated      NotificationType = "wallet_updated"
)

type Notification struct {
	Id        string           `json:"_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	Link      string           `json:"link,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

type Sender struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

type ChatMessage struct {
	Id        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	// ClientId is the correlation id generated on send and echoed back by
	// the server so the optimistic local copy can be reconciled.
	ClientId string `json:"clientId,omitempty"`
	IsOwn    bool   `json:"-"`
	Pending  bool   `json:"-"`
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingAccepted  BookingStatus = "accepted"
	BookingRejected  BookingStatus = "rejected"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	Id          string        `json:"_id"`
	UserId      string        `json:"userId"`
	PartnerId   string        `json:"partnerId"`
	UserName    string        `json:"userName"`
	PartnerName string        `json:"partnerName"`
	Status      BookingStatus `json:"status"`
	Date        time.Time     `json:"date"`
	Location    string        `json:"location,omitempty"`
	Hours       int           `json:"hours,omitempty"`
	Amount      float64       `json:"amount"`
	IsPaid      bool          `json:"isPaid"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type Transaction struct {
	Id          string    `json:"_id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Wallet tracks the SaathCoins balance and its transaction history.
type Wallet struct {
	Balance      float64       `json:"balance"`
	Transactions []Transaction `json:"transactions"`
}

type BankDetails struct {
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
	AccountHolder string `json:"accountHolder"`
}

type PartnerProfile struct {
	Id         string  `json:"_id"`
	Name       string  `json:"name"`
	City       string  `json:"city"`
	Bio        string  `json:"bio,omitempty"`
	HourlyRate float64 `json:"hourlyRate"`
	Rating     float64 `json:"rating"`
	Reviews    int     `json:"reviewCount"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

type PartnerApplication struct {
	Id         string            `json:"_id"`
	UserId     string            `json:"userId"`
	Name       string            `json:"name"`
	City       string            `json:"city"`
	Bio        string            `json:"bio"`
	HourlyRate float64           `json:"hourlyRate"`
	Status     ApplicationStatus `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type Review struct {
	Id        string    `json:"_id"`
	PartnerId string    `json:"partnerId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type AnalyticsStats struct {
	TotalUsers          int     `json:"totalUsers"`
	TotalPartners       int     `json:"totalPartners"`
	TotalBookings       int     `json:"totalBookings"`
	TotalRevenue        float64 `json:"totalRevenue"`
	PendingApplications int     `json:"pendingApplications"`
	ActiveBookings      int     `json:"activeBookings"`
}

type PaymentOrder struct {
	OrderId  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Notifier surfaces transient user-facing notices. Failed mutating actions
// must produce a visible acknowledgment, session and money-adjacent
// successes a visible confirmation.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Navigator abstracts the host application's routing so stores can redirect
// (forced logout, notification links) without knowing the UI.
type Navigator interface {
	Current() string
	Navigate(path string)
}

const (
	SignInPath    = "/signin"
	DashboardPath = "/dashboard"
)
