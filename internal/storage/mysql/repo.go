package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"villa_mare/internal/availability"
	"villa_mare/internal/domain"
)

const errDupEntry = 1062

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// dateArg binds a calendar day to a DATE column.
func dateArg(t time.Time) string { return availability.Day(t).Format(availability.DateLayout) }

// Repo implements every repository port over one MySQL database.
// The DSN must set parseTime=true and clientFoundRows=true: an UPDATE that
// matches a row without changing it still counts as found.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// expectOne maps "no row touched" to domain.ErrNotFound.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapInsertErr(err error) error {
	var me *gomysql.MySQLError
	if errors.As(err, &me) && me.Number == errDupEntry {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, me.Message)
	}
	return err
}

// updateField writes one whitelisted column. cols maps field names to columns.
func (r *Repo) updateField(ctx context.Context, table string, cols map[string]string, id, field, value string) error {
	col, ok := cols[field]
	if !ok {
		return fmt.Errorf("%w: field %q", domain.ErrInvalidInput, field)
	}
	q := "UPDATE " + table + " SET " + col + " = ? WHERE id = ?"
	return expectOne(r.db.ExecContext(ctx, q, value, id))
}

// ---- availability.Source ----

func (r *Repo) BlockedDates(ctx context.Context) ([]availability.BlockedDate, error) {
	rows, err := r.db.QueryContext(ctx, blockedDatesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.BlockedDate
	for rows.Next() {
		var d time.Time
		var notes sql.NullString
		if err := rows.Scan(&d, &notes); err != nil {
			return nil, err
		}
		out = append(out, availability.BlockedDate{Date: d, Note: strings.TrimSpace(notes.String)})
	}
	return out, rows.Err()
}

func (r *Repo) BookedRanges(ctx context.Context) ([]availability.BookedRange, error) {
	rows, err := r.db.QueryContext(ctx, activeRangesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []availability.BookedRange
	for rows.Next() {
		var br availability.BookedRange
		if err := rows.Scan(&br.From, &br.To); err != nil {
			return nil, err
		}
		out = append(out, br)
	}
	return out, rows.Err()
}
