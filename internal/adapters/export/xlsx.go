package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"villa_mare/internal/domain"
)

const sheet = "Prenotazioni"

var headers = []string{
	"ID", "Ospite", "Email", "Telefono", "Check-in", "Check-out",
	"Notti", "Ospiti", "Pagamento", "Stato", "Messaggio", "Ricevuta il",
}

// XLSX writes bookings as a single-sheet workbook.
type XLSX struct{}

func NewXLSX() *XLSX { return &XLSX{} }

func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSX) WriteBookings(w io.Writer, bs []domain.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return err
	}

	pending, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFF2CC"}, Pattern: 1},
	})
	for i, b := range bs {
		row := i + 2
		vals := []any{
			b.ID,
			b.GuestName,
			b.GuestEmail,
			deref(b.GuestPhone),
			b.CheckIn.Format("02/01/2006"),
			b.CheckOut.Format("02/01/2006"),
			b.Nights(),
			b.GuestsCount,
			string(b.PaymentMethod),
			string(b.Status),
			deref(b.Message),
			b.CreatedAt.Format("02/01/2006 15:04"),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, start, &vals); err != nil {
			return err
		}
		if b.Status == domain.StatusPending {
			end, _ := excelize.CoordinatesToCellName(len(headers), row)
			_ = f.SetCellStyle(sheet, start, end, pending)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "D", 24)
	_ = f.SetColWidth(sheet, "E", "J", 14)
	_ = f.SetColWidth(sheet, "K", "K", 40)
	_ = f.SetColWidth(sheet, "L", "L", 18)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	_, err = f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
