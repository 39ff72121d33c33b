package availability

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Source answers the two reads a snapshot is built from.
type Source interface {
	// BlockedDates returns the days marked not available.
	BlockedDates(ctx context.Context) ([]BlockedDate, error)
	// BookedRanges returns the stays of bookings that are pending or confirmed.
	BookedRanges(ctx context.Context) ([]BookedRange, error)
}

// Policy decides what a snapshot looks like when one of the reads fails.
type Policy int

const (
	// FailOpen leaves the failed slice empty: its days look available.
	FailOpen Policy = iota
	// FailClosed marks every day unavailable until both reads succeed.
	FailClosed
)

func (p Policy) String() string {
	if p == FailClosed {
		return "fail_closed"
	}
	return "fail_open"
}

const (
	SliceBlocked = "blocked_dates"
	SliceBooked  = "booked_ranges"
)

// ReadError tells which of the two reads failed.
type ReadError struct {
	Slice string
	Err   error
}

func (e *ReadError) Error() string { return fmt.Sprintf("availability: read %s: %v", e.Slice, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

type Loader struct {
	src    Source
	policy Policy
}

func NewLoader(src Source, p Policy) *Loader {
	return &Loader{src: src, policy: p}
}

func (l *Loader) Policy() Policy { return l.policy }

// Load runs both reads concurrently and builds a snapshot once both returned.
// The reads fill disjoint slices, so completion order does not matter.
// A non-nil error is always accompanied by a usable snapshot shaped by the
// loader's policy.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	var (
		blocked    []BlockedDate
		booked     []BookedRange
		blockedErr error
		bookedErr  error
		g          errgroup.Group
	)
	g.Go(func() error {
		blocked, blockedErr = l.src.BlockedDates(ctx)
		return blockedErr
	})
	g.Go(func() error {
		booked, bookedErr = l.src.BookedRanges(ctx)
		return bookedErr
	})
	_ = g.Wait()

	var errs []error
	if blockedErr != nil {
		blocked = nil
		errs = append(errs, &ReadError{Slice: SliceBlocked, Err: blockedErr})
	}
	if bookedErr != nil {
		booked = nil
		errs = append(errs, &ReadError{Slice: SliceBooked, Err: bookedErr})
	}
	err := errors.Join(errs...)
	if err != nil && l.policy == FailClosed {
		return Closed(), err
	}
	return NewSnapshot(blocked, booked), err
}
