package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"villa_mare/internal/domain"
)

func scanCalendarDay(s rowScanner) (domain.CalendarDay, error) {
	var d domain.CalendarDay
	var notes sql.NullString
	if err := s.Scan(&d.ID, &d.Date, &d.IsAvailable, &notes); err != nil {
		return domain.CalendarDay{}, err
	}
	d.Notes = strPtr(notes)
	return d, nil
}

func (r *Repo) ListUnavailableDays(ctx context.Context) ([]domain.CalendarDay, error) {
	rows, err := r.db.QueryContext(ctx, listUnavailableDaysSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.CalendarDay{}
	for rows.Next() {
		d, err := scanCalendarDay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *Repo) GetCalendarDay(ctx context.Context, date time.Time) (domain.CalendarDay, error) {
	d, err := scanCalendarDay(r.db.QueryRowContext(ctx, getCalendarDaySQL, dateArg(date)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CalendarDay{}, domain.ErrNotFound
	}
	return d, err
}

func (r *Repo) InsertCalendarDay(ctx context.Context, d domain.CalendarDay) error {
	_, err := r.db.ExecContext(ctx, insertCalendarDaySQL, d.ID, dateArg(d.Date), d.IsAvailable, valStr(d.Notes))
	return mapInsertErr(err)
}

// UpdateCalendarDay sets availability; nil notes keeps the stored ones.
func (r *Repo) UpdateCalendarDay(ctx context.Context, id string, available bool, notes *string) error {
	return expectOne(r.db.ExecContext(ctx, updateCalendarDaySQL, available, valStr(notes), id))
}

func (r *Repo) DeleteCalendarDay(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, deleteCalendarDaySQL, id))
}

func (r *Repo) queryPrices(ctx context.Context, q string, args ...any) ([]domain.DailyPrice, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.DailyPrice{}
	for rows.Next() {
		var p domain.DailyPrice
		if err := rows.Scan(&p.ID, &p.Date, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) ListPrices(ctx context.Context) ([]domain.DailyPrice, error) {
	return r.queryPrices(ctx, listPricesSQL)
}

func (r *Repo) PricesBetween(ctx context.Context, from, to time.Time) ([]domain.DailyPrice, error) {
	return r.queryPrices(ctx, pricesBetweenSQL, dateArg(from), dateArg(to))
}

func (r *Repo) UpsertPrice(ctx context.Context, p domain.DailyPrice) error {
	_, err := r.db.ExecContext(ctx, upsertPriceSQL, p.ID, dateArg(p.Date), p.Price)
	return err
}

func (r *Repo) DeletePrice(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, deletePriceSQL, id))
}
