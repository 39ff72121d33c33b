package availability

import "time"

// Selection is a guest's in-progress check-in/check-out pick. A zero time
// means the endpoint has not been chosen.
type Selection struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type State int

const (
	Empty State = iota
	Partial
	Complete
)

func (s State) String() string {
	switch s {
	case Partial:
		return "partial"
	case Complete:
		return "complete"
	default:
		return "empty"
	}
}

func (s Selection) State() State {
	switch {
	case s.From.IsZero():
		return Empty
	case s.To.IsZero():
		return Partial
	default:
		return Complete
	}
}

// Outcome is the validator's verdict on a selection. None of them is an error.
type Outcome int

const (
	// Accepted keeps the selection as proposed.
	Accepted Outcome = iota
	// Truncated keeps From and drops To because a day in between is unavailable.
	Truncated
	// Rejected discards the pick because it lies in the past.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Truncated:
		return "truncated"
	case Rejected:
		return "rejected"
	default:
		return "accepted"
	}
}

type Validator struct {
	snap *Snapshot
	now  func() time.Time
}

// NewValidator binds a snapshot to a clock. A nil clock means time.Now.
func NewValidator(snap *Snapshot, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	if snap == nil {
		snap = NewSnapshot(nil, nil)
	}
	return &Validator{snap: snap, now: now}
}

func (v *Validator) Snapshot() *Snapshot { return v.snap }

// Today is the current calendar day according to the validator's clock.
func (v *Validator) Today() time.Time { return Day(v.now()) }

// IsPast reports whether d is strictly before today.
func (v *Validator) IsPast(d time.Time) bool { return Day(d).Before(v.Today()) }

// Disabled is true for days a calendar must not offer.
func (v *Validator) Disabled(d time.Time) bool {
	return v.IsPast(d) || v.snap.IsUnavailable(d)
}

// Validate checks a proposed selection. Reversed endpoints are swapped.
// A selection reaching into the past is rejected outright; a range crossing
// an unavailable day keeps only its start.
func (v *Validator) Validate(sel Selection) (Selection, Outcome) {
	sel = normalize(sel)
	if sel.From.IsZero() {
		return Selection{}, Accepted
	}
	if v.IsPast(sel.From) {
		return Selection{}, Rejected
	}
	if sel.To.IsZero() {
		return sel, Accepted
	}
	for d := sel.From; !d.After(sel.To); d = d.AddDate(0, 0, 1) {
		if v.snap.IsUnavailable(d) {
			return Selection{From: sel.From}, Truncated
		}
	}
	return sel, Accepted
}

// Pick applies one calendar click to the current selection.
func (v *Validator) Pick(cur Selection, day time.Time) (Selection, Outcome) {
	day = Day(day)
	if v.IsPast(day) {
		return cur, Rejected
	}
	if cur.State() == Partial {
		return v.Validate(Selection{From: cur.From, To: day})
	}
	// Empty starts a selection; Complete is cleared and restarted.
	return Selection{From: day}, Accepted
}

func normalize(sel Selection) Selection {
	var out Selection
	if !sel.From.IsZero() {
		out.From = Day(sel.From)
	}
	if !sel.To.IsZero() {
		out.To = Day(sel.To)
	}
	if out.From.IsZero() {
		out.From, out.To = out.To, time.Time{}
	}
	if !out.To.IsZero() && out.To.Before(out.From) {
		out.From, out.To = out.To, out.From
	}
	return out
}
