package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"villa_mare/internal/adapters/observability"
	"villa_mare/internal/availability"
	"villa_mare/internal/domain"
)

const idempotencyTTL = 10 * time.Minute

// BookingRequest is the public booking form.
type BookingRequest struct {
	GuestName     string `json:"guest_name" validate:"required,max=200"`
	GuestEmail    string `json:"guest_email" validate:"required,email,max=320"`
	GuestPhone    string `json:"guest_phone" validate:"omitempty,max=50"`
	CheckIn       string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut      string `json:"check_out" validate:"required,datetime=2006-01-02"`
	GuestsCount   int    `json:"guests_count" validate:"required,min=1,max=12"`
	Message       string `json:"message" validate:"max=4000"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=credit_card paypal google_pay bank_transfer"`

	// IdempotencyKey comes from the Idempotency-Key header, not the body.
	IdempotencyKey string `json:"-"`
}

type BookingService struct {
	repo     domain.BookingRepository
	calendar *CalendarService
	cache    domain.Cache
	notifier domain.Notifier
	exporter domain.BookingExporter
	now      func() time.Time
}

func NewBookingService(
	r domain.BookingRepository,
	cal *CalendarService,
	cache domain.Cache,
	n domain.Notifier,
	x domain.BookingExporter,
	now func() time.Time,
) *BookingService {
	if now == nil {
		now = time.Now
	}
	return &BookingService{repo: r, calendar: cal, cache: cache, notifier: n, exporter: x, now: now}
}

// Submit records a booking request as pending after re-checking the dates
// against a fresh availability snapshot.
func (s *BookingService) Submit(ctx context.Context, req BookingRequest) (domain.Booking, error) {
	b, err := s.submit(ctx, req)
	observability.ObserveBooking(submitOutcome(err))
	return b, err
}

func (s *BookingService) submit(ctx context.Context, req BookingRequest) (domain.Booking, error) {
	if err := validateStruct(req); err != nil {
		return domain.Booking{}, err
	}
	checkIn, _ := time.Parse(availability.DateLayout, req.CheckIn)
	checkOut, _ := time.Parse(availability.DateLayout, req.CheckOut)
	if checkOut.Before(checkIn) {
		return domain.Booking{}, fieldError("check_out", "must not be before check_in")
	}

	sel, outcome := s.calendar.Select(ctx, availability.Selection{From: checkIn, To: checkOut})
	if outcome != availability.Accepted || sel.State() != availability.Complete {
		log.Info().
			Str("check_in", req.CheckIn).
			Str("check_out", req.CheckOut).
			Str("outcome", outcome.String()).
			Msg("booking dates refused")
		return domain.Booking{}, fmt.Errorf("%s..%s: %w", req.CheckIn, req.CheckOut, domain.ErrUnavailable)
	}

	idemKey, claimed := "", false
	if req.IdempotencyKey != "" && s.cache != nil {
		idemKey = "booking:idem:" + req.IdempotencyKey
		ok, err := s.cache.Claim(ctx, idemKey, idempotencyTTL)
		if err != nil {
			// the guard is best effort; a cache outage must not block bookings
			log.Warn().Err(err).Msg("idempotency claim failed")
		} else if !ok {
			return domain.Booking{}, domain.ErrDuplicate
		}
		claimed = err == nil
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = domain.PayCreditCard
	}
	b := domain.Booking{
		ID:            uuid.NewString(),
		GuestName:     strings.TrimSpace(req.GuestName),
		GuestEmail:    strings.TrimSpace(req.GuestEmail),
		GuestPhone:    optional(req.GuestPhone),
		CheckIn:       sel.From,
		CheckOut:      sel.To,
		GuestsCount:   req.GuestsCount,
		Message:       optional(req.Message),
		PaymentMethod: method,
		Status:        domain.StatusPending,
		CreatedAt:     s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.InsertBooking(ctx, b); err != nil {
		// nothing was stored, so a retry with the same key must go through
		if claimed {
			if derr := s.cache.Del(ctx, idemKey); derr != nil {
				log.Warn().Err(derr).Str("key", idemKey).Msg("idempotency release failed")
			}
		}
		return domain.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	log.Info().Str("id", b.ID).Int("nights", b.Nights()).Msg("booking requested")

	if s.notifier != nil {
		if err := s.notifier.BookingRequested(ctx, b); err != nil {
			log.Warn().Err(err).Str("id", b.ID).Msg("booking notification failed")
		}
	}
	return b, nil
}

func submitOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrDuplicate):
		return "duplicate"
	default:
		return "error"
	}
}

// ---- admin ----

func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	return s.repo.ListBookings(ctx)
}

func (s *BookingService) SetStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	if !status.Valid() {
		return fieldError("status", "must be one of: pending confirmed cancelled")
	}
	if err := s.repo.UpdateBookingStatus(ctx, id, status); err != nil {
		return err
	}
	log.Info().Str("id", id).Str("status", string(status)).Msg("booking status changed")
	return nil
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteBooking(ctx, id)
}

// Export writes every booking as a spreadsheet.
func (s *BookingService) Export(ctx context.Context, w io.Writer) error {
	bs, err := s.repo.ListBookings(ctx)
	if err != nil {
		return err
	}
	return s.exporter.WriteBookings(w, bs)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
