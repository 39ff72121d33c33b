package domain

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// ActiveStatuses are the statuses whose stays occupy the calendar.
var ActiveStatuses = []BookingStatus{StatusConfirmed, StatusPending}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayCreditCard   PaymentMethod = "credit_card"
	PayPayPal       PaymentMethod = "paypal"
	PayGooglePay    PaymentMethod = "google_pay"
	PayBankTransfer PaymentMethod = "bank_transfer"
)

type Booking struct {
	ID            string        `json:"id"`
	GuestName     string        `json:"guest_name"`
	GuestEmail    string        `json:"guest_email"`
	GuestPhone    *string       `json:"guest_phone,omitempty"`
	CheckIn       time.Time     `json:"check_in"`
	CheckOut      time.Time     `json:"check_out"`
	GuestsCount   int           `json:"guests_count"`
	Message       *string       `json:"message,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// Nights is the number of nights between check-in and check-out.
func (b Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
