package httpserver

import (
	"net/http"
	"strings"
	"time"

	"villa_mare/internal/availability"
	"villa_mare/internal/domain"
)

// selectionDTO carries a selection as YYYY-MM-DD strings; empty means unset.
type selectionDTO struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type pickRequest struct {
	selectionDTO
	Day string `json:"day"`
}

type selectionResponse struct {
	selectionDTO
	State   string `json:"state"`
	Outcome string `json:"outcome"`
}

func invalidField(field, msg string) error {
	ve := domain.NewValidationError()
	ve.Add(field, msg)
	return ve
}

func parseDay(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(availability.DateLayout, s)
	if err != nil {
		return time.Time{}, invalidField(field, "must be a date formatted as "+availability.DateLayout)
	}
	return t, nil
}

func (d selectionDTO) selection() (availability.Selection, error) {
	from, err := parseDay("from", d.From)
	if err != nil {
		return availability.Selection{}, err
	}
	to, err := parseDay("to", d.To)
	if err != nil {
		return availability.Selection{}, err
	}
	return availability.Selection{From: from, To: to}, nil
}

func fmtDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(availability.DateLayout)
}

func toResponse(sel availability.Selection, out availability.Outcome) selectionResponse {
	return selectionResponse{
		selectionDTO: selectionDTO{From: fmtDay(sel.From), To: fmtDay(sel.To)},
		State:        sel.State().String(),
		Outcome:      out.String(),
	}
}

// calendarMonth serves ?month=YYYY-MM, defaulting to the current month.
func (h *Handlers) calendarMonth(w http.ResponseWriter, r *http.Request) {
	now := h.Now()
	year, month := now.Year(), now.Month()
	if m := strings.TrimSpace(r.URL.Query().Get("month")); m != "" {
		t, err := time.Parse("2006-01", m)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid month", "month must be formatted as YYYY-MM")
			return
		}
		year, month = t.Year(), t.Month()
	}
	out := h.Calendar.Month(r.Context(), year, month)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) calendarSelect(w http.ResponseWriter, r *http.Request) {
	var in selectionDTO
	if !decode(w, r, &in) {
		return
	}
	sel, err := in.selection()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(h.Calendar.Select(r.Context(), sel)))
}

func (h *Handlers) calendarPick(w http.ResponseWriter, r *http.Request) {
	var in pickRequest
	if !decode(w, r, &in) {
		return
	}
	cur, err := in.selection()
	if err != nil {
		writeError(w, r, err)
		return
	}
	day, err := parseDay("day", in.Day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if day.IsZero() {
		writeError(w, r, invalidField("day", "is required"))
		return
	}
	writeJSON(w, http.StatusOK, toResponse(h.Calendar.Pick(r.Context(), cur, day)))
}
