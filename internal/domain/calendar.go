package domain

import "time"

// CalendarDay is an admin-managed row of the availability calendar.
type CalendarDay struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	IsAvailable bool      `json:"is_available"`
	Notes       *string   `json:"notes,omitempty"`
}

type DailyPrice struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// CalendarCell is one day of the public month view.
type CalendarCell struct {
	Date        string   `json:"date"`
	Unavailable bool     `json:"unavailable"`
	Past        bool     `json:"past"`
	Disabled    bool     `json:"disabled"`
	Price       *float64 `json:"price,omitempty"`
}

type CalendarMonth struct {
	Month string         `json:"month"` // YYYY-MM
	Days  []CalendarCell `json:"days"`
	// Degraded is set when availability data could not be fully loaded.
	Degraded bool `json:"degraded,omitempty"`
}
