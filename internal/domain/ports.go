package domain

import (
	"context"
	"io"
	"time"
)

type BookingRepository interface {
	InsertBooking(ctx context.Context, b Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error) // newest first
	UpdateBookingStatus(ctx context.Context, id string, s BookingStatus) error
	DeleteBooking(ctx context.Context, id string) error
}

type CalendarRepository interface {
	ListUnavailableDays(ctx context.Context) ([]CalendarDay, error)
	GetCalendarDay(ctx context.Context, date time.Time) (CalendarDay, error)
	InsertCalendarDay(ctx context.Context, d CalendarDay) error
	UpdateCalendarDay(ctx context.Context, id string, available bool, notes *string) error
	DeleteCalendarDay(ctx context.Context, id string) error

	ListPrices(ctx context.Context) ([]DailyPrice, error)
	PricesBetween(ctx context.Context, from, to time.Time) ([]DailyPrice, error)
	UpsertPrice(ctx context.Context, p DailyPrice) error
	DeletePrice(ctx context.Context, id string) error
}

type ContentRepository interface {
	ListGallery(ctx context.Context) ([]GalleryImage, error)
	InsertGalleryImage(ctx context.Context, img GalleryImage) error
	UpdateGalleryField(ctx context.Context, id, field, value string) error
	DeleteGalleryImage(ctx context.Context, id string) error

	ListServices(ctx context.Context) ([]Service, error)
	InsertService(ctx context.Context, s Service) error
	UpdateServiceField(ctx context.Context, id, field, value string) error
	DeleteService(ctx context.Context, id string) error

	ListSiteContent(ctx context.Context, q SiteContentQuery) ([]SiteContent, error)
	GetSiteContent(ctx context.Context, id string) (SiteContent, error)
	InsertSiteContent(ctx context.Context, c SiteContent) error
	UpdateSiteContentField(ctx context.Context, id, field, value string) error
	DeleteSiteContent(ctx context.Context, id string) error

	GetStory(ctx context.Context) (Story, error)
	SaveStory(ctx context.Context, s Story) error
	GetContact(ctx context.Context) (ContactInfo, error)
	SaveContact(ctx context.Context, c ContactInfo) error
}

type ReviewRepository interface {
	ListReviews(ctx context.Context, publishedOnly bool) ([]Review, error) // newest first
	GetReview(ctx context.Context, id string) (Review, error)
	InsertReview(ctx context.Context, r Review) error
	SetReviewPublished(ctx context.Context, id string, published bool) error
	DeleteReview(ctx context.Context, id string) error
}

type AdminRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (AdminUser, error)
	HasAdminRole(ctx context.Context, userID string) (bool, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, keys ...string) error
	// Claim stores key only if absent; false means it was already claimed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type ReviewExtractor interface {
	Extract(ctx context.Context, url string) (ExtractedReview, error)
}

type Notifier interface {
	BookingRequested(ctx context.Context, b Booking) error
}

type ImageStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

type BookingExporter interface {
	WriteBookings(w io.Writer, bs []Booking) error
}

type Authenticator interface {
	ComparePassword(hash, password string) error
	IssueToken(userID, email string) (string, error)
}
