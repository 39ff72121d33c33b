package mysql

import (
	"context"
	"database/sql"
	"errors"

	"villa_mare/internal/domain"
)

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID,
		b.GuestName,
		b.GuestEmail,
		valStr(b.GuestPhone),
		dateArg(b.CheckIn),
		dateArg(b.CheckOut),
		b.GuestsCount,
		valStr(b.Message),
		string(b.PaymentMethod),
		string(b.Status),
		b.CreatedAt.UTC(),
	)
	return mapInsertErr(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var phone, msg sql.NullString
	var method, status string
	if err := s.Scan(
		&b.ID, &b.GuestName, &b.GuestEmail, &phone,
		&b.CheckIn, &b.CheckOut, &b.GuestsCount, &msg,
		&method, &status, &b.CreatedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	b.GuestPhone = strPtr(phone)
	b.Message = strPtr(msg)
	b.PaymentMethod = domain.PaymentMethod(method)
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id string, s domain.BookingStatus) error {
	return expectOne(r.db.ExecContext(ctx, updateBookingStatusSQL, string(s), id))
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, deleteBookingSQL, id))
}
