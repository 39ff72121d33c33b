package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"villa_mare/internal/adapters/observability"
	"villa_mare/internal/availability"
	"villa_mare/internal/domain"
)

type CalendarService struct {
	loader *availability.Loader
	repo   domain.CalendarRepository
	now    func() time.Time
}

func NewCalendarService(src availability.Source, repo domain.CalendarRepository, policy availability.Policy, now func() time.Time) *CalendarService {
	if now == nil {
		now = time.Now
	}
	return &CalendarService{loader: availability.NewLoader(src, policy), repo: repo, now: now}
}

// Validator loads a fresh snapshot. degraded reports that one of the reads
// failed and the snapshot was shaped by the failure policy.
func (s *CalendarService) Validator(ctx context.Context) (v *availability.Validator, degraded bool) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		degraded = true
		for _, slice := range failedSlices(err) {
			observability.ObserveAvailabilityFailure(slice)
		}
		log.Warn().Err(err).
			Str("policy", s.loader.Policy().String()).
			Msg("availability snapshot degraded")
	}
	return availability.NewValidator(snap, s.now), degraded
}

func failedSlices(err error) []string {
	var errs []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	} else {
		errs = []error{err}
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		var re *availability.ReadError
		if errors.As(e, &re) {
			out = append(out, re.Slice)
		}
	}
	return out
}

// Month renders every day of the given month with its availability and price.
func (s *CalendarService) Month(ctx context.Context, year int, month time.Month) domain.CalendarMonth {
	v, degraded := s.Validator(ctx)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	prices := map[string]float64{}
	ps, err := s.repo.PricesBetween(ctx, first, last)
	if err != nil {
		// prices only decorate the calendar
		log.Warn().Err(err).Str("month", first.Format("2006-01")).Msg("load daily prices failed")
	}
	for _, p := range ps {
		prices[availability.Day(p.Date).Format(availability.DateLayout)] = p.Price
	}

	out := domain.CalendarMonth{
		Month:    first.Format("2006-01"),
		Days:     make([]domain.CalendarCell, 0, last.Day()),
		Degraded: degraded,
	}
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		cell := domain.CalendarCell{
			Date:        d.Format(availability.DateLayout),
			Unavailable: v.Snapshot().IsUnavailable(d),
			Past:        v.IsPast(d),
		}
		cell.Disabled = cell.Unavailable || cell.Past
		if p, ok := prices[cell.Date]; ok {
			cell.Price = &p
		}
		out.Days = append(out.Days, cell)
	}
	return out
}

func (s *CalendarService) Select(ctx context.Context, sel availability.Selection) (availability.Selection, availability.Outcome) {
	v, _ := s.Validator(ctx)
	return v.Validate(sel)
}

func (s *CalendarService) Pick(ctx context.Context, cur availability.Selection, day time.Time) (availability.Selection, availability.Outcome) {
	v, _ := s.Validator(ctx)
	return v.Pick(cur, day)
}

// ---- admin: blocked days ----

func (s *CalendarService) ListUnavailable(ctx context.Context) ([]domain.CalendarDay, error) {
	return s.repo.ListUnavailableDays(ctx)
}

// ToggleDates flips the availability of days that already have a calendar row
// and marks the others unavailable.
func (s *CalendarService) ToggleDates(ctx context.Context, dates []time.Time, notes string) error {
	if len(dates) == 0 {
		return fieldError("dates", "select at least one date")
	}
	var n *string
	if t := strings.TrimSpace(notes); t != "" {
		n = &t
	}
	for _, d := range dates {
		day := availability.Day(d)
		existing, err := s.repo.GetCalendarDay(ctx, day)
		switch {
		case err == nil:
			if err := s.repo.UpdateCalendarDay(ctx, existing.ID, !existing.IsAvailable, n); err != nil {
				return err
			}
		case errors.Is(err, domain.ErrNotFound):
			if err := s.repo.InsertCalendarDay(ctx, domain.CalendarDay{
				ID:          uuid.NewString(),
				Date:        day,
				IsAvailable: false,
				Notes:       n,
			}); err != nil {
				return err
			}
		default:
			return err
		}
	}
	log.Info().Int("days", len(dates)).Msg("calendar availability updated")
	return nil
}

func (s *CalendarService) DeleteDay(ctx context.Context, id string) error {
	return s.repo.DeleteCalendarDay(ctx, id)
}

// ---- admin: daily prices ----

func (s *CalendarService) ListPrices(ctx context.Context) ([]domain.DailyPrice, error) {
	return s.repo.ListPrices(ctx)
}

func (s *CalendarService) SetPrice(ctx context.Context, date time.Time, price float64) error {
	if date.IsZero() {
		return fieldError("date", "is required")
	}
	if price <= 0 {
		return fieldError("price", "must be greater than 0")
	}
	return s.repo.UpsertPrice(ctx, domain.DailyPrice{
		ID:    uuid.NewString(),
		Date:  availability.Day(date),
		Price: price,
	})
}

func (s *CalendarService) DeletePrice(ctx context.Context, id string) error {
	return s.repo.DeletePrice(ctx, id)
}
