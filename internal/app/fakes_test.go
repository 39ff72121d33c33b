package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"villa_mare/internal/availability"
	"villa_mare/internal/domain"
)

// ---- cache ----

type fakeCache struct {
	mu      sync.Mutex
	store   map[string][]byte
	deleted []string
	claimFn func(key string) (bool, error)
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.store, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *fakeCache) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if c.claimFn != nil {
		return c.claimFn(key)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store[key]; ok {
		return false, nil
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = []byte("1")
	return true, nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

// ---- calendar + availability source ----

type fakeCalendar struct {
	days       []domain.CalendarDay
	prices     []domain.DailyPrice
	booked     []availability.BookedRange
	blockedErr error
	bookedErr  error
}

func (f *fakeCalendar) BlockedDates(ctx context.Context) ([]availability.BlockedDate, error) {
	if f.blockedErr != nil {
		return nil, f.blockedErr
	}
	var out []availability.BlockedDate
	for _, d := range f.days {
		if !d.IsAvailable {
			out = append(out, availability.BlockedDate{Date: d.Date})
		}
	}
	return out, nil
}

func (f *fakeCalendar) BookedRanges(ctx context.Context) ([]availability.BookedRange, error) {
	if f.bookedErr != nil {
		return nil, f.bookedErr
	}
	return f.booked, nil
}

func (f *fakeCalendar) ListUnavailableDays(ctx context.Context) ([]domain.CalendarDay, error) {
	var out []domain.CalendarDay
	for _, d := range f.days {
		if !d.IsAvailable {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeCalendar) GetCalendarDay(ctx context.Context, date time.Time) (domain.CalendarDay, error) {
	for _, d := range f.days {
		if d.Date.Equal(date) {
			return d, nil
		}
	}
	return domain.CalendarDay{}, domain.ErrNotFound
}

func (f *fakeCalendar) InsertCalendarDay(ctx context.Context, d domain.CalendarDay) error {
	f.days = append(f.days, d)
	return nil
}

func (f *fakeCalendar) UpdateCalendarDay(ctx context.Context, id string, available bool, notes *string) error {
	for i := range f.days {
		if f.days[i].ID == id {
			f.days[i].IsAvailable = available
			f.days[i].Notes = notes
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCalendar) DeleteCalendarDay(ctx context.Context, id string) error {
	for i := range f.days {
		if f.days[i].ID == id {
			f.days = append(f.days[:i], f.days[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCalendar) ListPrices(ctx context.Context) ([]domain.DailyPrice, error) {
	return f.prices, nil
}

func (f *fakeCalendar) PricesBetween(ctx context.Context, from, to time.Time) ([]domain.DailyPrice, error) {
	var out []domain.DailyPrice
	for _, p := range f.prices {
		if !p.Date.Before(from) && !p.Date.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCalendar) UpsertPrice(ctx context.Context, p domain.DailyPrice) error {
	for i := range f.prices {
		if f.prices[i].Date.Equal(p.Date) {
			f.prices[i].Price = p.Price
			return nil
		}
	}
	f.prices = append(f.prices, p)
	return nil
}

func (f *fakeCalendar) DeletePrice(ctx context.Context, id string) error {
	for i := range f.prices {
		if f.prices[i].ID == id {
			f.prices = append(f.prices[:i], f.prices[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ---- bookings ----

type fakeBookings struct {
	items     []domain.Booking
	insertErr error
}

func (f *fakeBookings) InsertBooking(ctx context.Context, b domain.Booking) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.items = append(f.items, b)
	return nil
}

func (f *fakeBookings) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	for _, b := range f.items {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Booking{}, domain.ErrNotFound
}

func (f *fakeBookings) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	out := append([]domain.Booking(nil), f.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBookings) UpdateBookingStatus(ctx context.Context, id string, s domain.BookingStatus) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Status = s
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeBookings) DeleteBooking(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeNotifier struct {
	sent []domain.Booking
	err  error
}

func (n *fakeNotifier) BookingRequested(ctx context.Context, b domain.Booking) error {
	n.sent = append(n.sent, b)
	return n.err
}

type fakeExporter struct{ rows int }

func (x *fakeExporter) WriteBookings(w io.Writer, bs []domain.Booking) error {
	x.rows = len(bs)
	_, err := io.WriteString(w, "xlsx")
	return err
}

// ---- content ----

type fakeContent struct {
	gallery  []domain.GalleryImage
	services []domain.Service
	texts    []domain.SiteContent
	story    *domain.Story
	contact  *domain.ContactInfo

	calls   map[string]int
	listErr error
	updated map[string]string // id/field -> value
}

func (f *fakeContent) hit(name string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeContent) ListGallery(ctx context.Context) ([]domain.GalleryImage, error) {
	f.hit("gallery")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.gallery, nil
}

func (f *fakeContent) InsertGalleryImage(ctx context.Context, img domain.GalleryImage) error {
	f.gallery = append(f.gallery, img)
	return nil
}

func (f *fakeContent) UpdateGalleryField(ctx context.Context, id, field, value string) error {
	return f.update(id, field, value)
}

func (f *fakeContent) DeleteGalleryImage(ctx context.Context, id string) error { return nil }

func (f *fakeContent) ListServices(ctx context.Context) ([]domain.Service, error) {
	f.hit("services")
	return f.services, nil
}

func (f *fakeContent) InsertService(ctx context.Context, s domain.Service) error {
	f.services = append(f.services, s)
	return nil
}

func (f *fakeContent) UpdateServiceField(ctx context.Context, id, field, value string) error {
	return f.update(id, field, value)
}

func (f *fakeContent) DeleteService(ctx context.Context, id string) error { return nil }

func (f *fakeContent) ListSiteContent(ctx context.Context, q domain.SiteContentQuery) ([]domain.SiteContent, error) {
	f.hit("content")
	var out []domain.SiteContent
	for _, c := range f.texts {
		if q.Page != "" && c.Page != q.Page {
			continue
		}
		if q.Section != "" && c.Section != q.Section {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeContent) GetSiteContent(ctx context.Context, id string) (domain.SiteContent, error) {
	for _, c := range f.texts {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.SiteContent{}, domain.ErrNotFound
}

func (f *fakeContent) InsertSiteContent(ctx context.Context, c domain.SiteContent) error {
	f.texts = append(f.texts, c)
	return nil
}

func (f *fakeContent) UpdateSiteContentField(ctx context.Context, id, field, value string) error {
	return f.update(id, field, value)
}

func (f *fakeContent) DeleteSiteContent(ctx context.Context, id string) error { return nil }

func (f *fakeContent) GetStory(ctx context.Context) (domain.Story, error) {
	f.hit("story")
	if f.story == nil {
		return domain.Story{}, domain.ErrNotFound
	}
	return *f.story, nil
}

func (f *fakeContent) SaveStory(ctx context.Context, s domain.Story) error {
	f.story = &s
	return nil
}

func (f *fakeContent) GetContact(ctx context.Context) (domain.ContactInfo, error) {
	if f.contact == nil {
		return domain.ContactInfo{}, domain.ErrNotFound
	}
	return *f.contact, nil
}

func (f *fakeContent) SaveContact(ctx context.Context, c domain.ContactInfo) error {
	f.contact = &c
	return nil
}

func (f *fakeContent) update(id, field, value string) error {
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[id+"/"+field] = value
	return nil
}

// ---- reviews ----

type fakeReviews struct {
	items []domain.Review
	calls int
}

func (f *fakeReviews) ListReviews(ctx context.Context, publishedOnly bool) ([]domain.Review, error) {
	f.calls++
	var out []domain.Review
	for _, r := range f.items {
		if publishedOnly && !r.IsPublished {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReviews) GetReview(ctx context.Context, id string) (domain.Review, error) {
	for _, r := range f.items {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Review{}, domain.ErrNotFound
}

func (f *fakeReviews) InsertReview(ctx context.Context, r domain.Review) error {
	f.items = append(f.items, r)
	return nil
}

func (f *fakeReviews) SetReviewPublished(ctx context.Context, id string, published bool) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].IsPublished = published
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeReviews) DeleteReview(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeExtractor struct {
	out domain.ExtractedReview
	err error
}

func (x *fakeExtractor) Extract(ctx context.Context, url string) (domain.ExtractedReview, error) {
	return x.out, x.err
}

// ---- admins ----

type fakeAdmins struct {
	users map[string]domain.AdminUser
	roles map[string]bool
}

func (f *fakeAdmins) GetAdminByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	u, ok := f.users[email]
	if !ok {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeAdmins) HasAdminRole(ctx context.Context, userID string) (bool, error) {
	return f.roles[userID], nil
}

// fakeAuth treats the hash as the plain password.
type fakeAuth struct{}

func (fakeAuth) ComparePassword(hash, password string) error {
	if hash != password {
		return errors.New("mismatch")
	}
	return nil
}

func (fakeAuth) IssueToken(userID, email string) (string, error) {
	return "token-" + userID, nil
}

// ---- helpers ----

func day(s string) time.Time {
	t, err := time.Parse(availability.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func clock(s string) func() time.Time {
	t := day(s).Add(10 * time.Hour)
	return func() time.Time { return t }
}

func ptr[T any](v T) *T { return &v }
