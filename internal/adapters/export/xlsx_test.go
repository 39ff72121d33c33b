package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"villa_mare/internal/adapters/export"
	"villa_mare/internal/domain"
)

func TestWriteBookings(t *testing.T) {
	phone := "+39 333 000"
	bs := []domain.Booking{
		{
			ID: "b-1", GuestName: "Giulia", GuestEmail: "g@example.com", GuestPhone: &phone,
			CheckIn:     time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
			CheckOut:    time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC),
			GuestsCount: 4, PaymentMethod: domain.PayBankTransfer, Status: domain.StatusPending,
			CreatedAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			ID: "b-2", GuestName: "Marco", GuestEmail: "m@example.com",
			CheckIn:     time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			CheckOut:    time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC),
			GuestsCount: 2, PaymentMethod: domain.PayCreditCard, Status: domain.StatusConfirmed,
		},
	}

	var buf bytes.Buffer
	if err := export.NewXLSX().WriteBookings(&buf, bs); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Prenotazioni")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][4] != "Check-in" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	r := rows[1]
	if r[0] != "b-1" || r[3] != "+39 333 000" || r[4] != "10/07/2025" || r[6] != "4" || r[9] != "pending" {
		t.Fatalf("unexpected first row: %v", r)
	}
	if rows[2][3] != "" {
		t.Fatalf("missing phone should be blank, got %q", rows[2][3])
	}
}

func TestWriteBookings_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := export.NewXLSX().WriteBookings(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows("Prenotazioni")
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
