// Package availability merges blocked days and booked stays into a single
// unavailability predicate and validates check-in/check-out selections
// against it.
package availability

import "time"

const DateLayout = "2006-01-02"

// BlockedDate is a whole day the owner closed from the calendar.
type BlockedDate struct {
	Date time.Time
	Note string
}

// BookedRange is the inclusive [From, To] stay of a pending or confirmed booking.
type BookedRange struct {
	From time.Time
	To   time.Time
}

// Day drops the time of day from t. The calendar date is read in t's own
// location and returned as midnight UTC, so two instants on the same local
// day compare equal.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Snapshot is an immutable view of everything that makes a day unavailable
// at the moment it was loaded.
type Snapshot struct {
	blocked map[time.Time]struct{}
	notes   []BlockedDate
	booked  []BookedRange
	closed  bool
}

func NewSnapshot(blocked []BlockedDate, booked []BookedRange) *Snapshot {
	s := &Snapshot{
		blocked: make(map[time.Time]struct{}, len(blocked)),
		notes:   make([]BlockedDate, 0, len(blocked)),
		booked:  make([]BookedRange, 0, len(booked)),
	}
	for _, b := range blocked {
		d := Day(b.Date)
		s.blocked[d] = struct{}{}
		s.notes = append(s.notes, BlockedDate{Date: d, Note: b.Note})
	}
	for _, r := range booked {
		from, to := Day(r.From), Day(r.To)
		if to.Before(from) {
			from, to = to, from
		}
		s.booked = append(s.booked, BookedRange{From: from, To: to})
	}
	return s
}

// Closed returns a snapshot in which every day is unavailable.
func Closed() *Snapshot {
	s := NewSnapshot(nil, nil)
	s.closed = true
	return s
}

// IsUnavailable reports whether d is blocked or falls inside a booked range.
// Both range boundaries count, so the checkout day is not re-offered.
func (s *Snapshot) IsUnavailable(d time.Time) bool {
	if s.closed {
		return true
	}
	day := Day(d)
	if _, ok := s.blocked[day]; ok {
		return true
	}
	for _, r := range s.booked {
		if !day.Before(r.From) && !day.After(r.To) {
			return true
		}
	}
	return false
}

// IsClosed is true for snapshots built by Closed.
func (s *Snapshot) IsClosed() bool { return s.closed }

func (s *Snapshot) Blocked() []BlockedDate {
	out := make([]BlockedDate, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *Snapshot) Booked() []BookedRange {
	out := make([]BookedRange, len(s.booked))
	copy(out, s.booked)
	return out
}
