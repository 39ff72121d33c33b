package httpserver_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"villa_mare/internal/availability"
	"villa_mare/internal/domain"
)

// memStore backs every repository port with maps.
type memStore struct {
	mu       sync.Mutex
	bookings map[string]domain.Booking
	days     map[string]domain.CalendarDay
	prices   map[string]domain.DailyPrice
	gallery  map[string]domain.GalleryImage
	services map[string]domain.Service
	content  map[string]domain.SiteContent
	reviews  map[string]domain.Review
	story    *domain.Story
	contact  *domain.ContactInfo
	admins   map[string]domain.AdminUser
	roles    map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		bookings: map[string]domain.Booking{},
		days:     map[string]domain.CalendarDay{},
		prices:   map[string]domain.DailyPrice{},
		gallery:  map[string]domain.GalleryImage{},
		services: map[string]domain.Service{},
		content:  map[string]domain.SiteContent{},
		reviews:  map[string]domain.Review{},
		admins:   map[string]domain.AdminUser{},
		roles:    map[string]bool{},
	}
}

// ---- availability.Source ----

func (m *memStore) BlockedDates(ctx context.Context) ([]availability.BlockedDate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []availability.BlockedDate
	for _, d := range m.days {
		if !d.IsAvailable {
			out = append(out, availability.BlockedDate{Date: d.Date})
		}
	}
	return out, nil
}

func (m *memStore) BookedRanges(ctx context.Context) ([]availability.BookedRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []availability.BookedRange
	for _, b := range m.bookings {
		if b.Status != domain.StatusCancelled {
			out = append(out, availability.BookedRange{From: b.CheckIn, To: b.CheckOut})
		}
	}
	return out, nil
}

// ---- bookings ----

func (m *memStore) InsertBooking(ctx context.Context, b domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
	return nil
}

func (m *memStore) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}

func (m *memStore) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) UpdateBookingStatus(ctx context.Context, id string, s domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = s
	m.bookings[id] = b
	return nil
}

func (m *memStore) DeleteBooking(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

// ---- calendar ----

func (m *memStore) ListUnavailableDays(ctx context.Context) ([]domain.CalendarDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CalendarDay
	for _, d := range m.days {
		if !d.IsAvailable {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memStore) GetCalendarDay(ctx context.Context, date time.Time) (domain.CalendarDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.days {
		if d.Date.Equal(availability.Day(date)) {
			return d, nil
		}
	}
	return domain.CalendarDay{}, domain.ErrNotFound
}

func (m *memStore) InsertCalendarDay(ctx context.Context, d domain.CalendarDay) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.days[d.ID] = d
	return nil
}

func (m *memStore) UpdateCalendarDay(ctx context.Context, id string, available bool, notes *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.days[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.IsAvailable, d.Notes = available, notes
	m.days[id] = d
	return nil
}

func (m *memStore) DeleteCalendarDay(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.days[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.days, id)
	return nil
}

func (m *memStore) ListPrices(ctx context.Context) ([]domain.DailyPrice, error) {
	return m.PricesBetween(ctx, time.Time{}, time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
}

func (m *memStore) PricesBetween(ctx context.Context, from, to time.Time) ([]domain.DailyPrice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DailyPrice
	for _, p := range m.prices {
		if !p.Date.Before(from) && !p.Date.After(to) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memStore) UpsertPrice(ctx context.Context, p domain.DailyPrice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, old := range m.prices {
		if old.Date.Equal(p.Date) {
			old.Price = p.Price
			m.prices[id] = old
			return nil
		}
	}
	m.prices[p.ID] = p
	return nil
}

func (m *memStore) DeletePrice(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.prices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.prices, id)
	return nil
}

// ---- content ----

func (m *memStore) ListGallery(ctx context.Context) ([]domain.GalleryImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.GalleryImage, 0, len(m.gallery))
	for _, g := range m.gallery {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *memStore) InsertGalleryImage(ctx context.Context, img domain.GalleryImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gallery[img.ID] = img
	return nil
}

func (m *memStore) UpdateGalleryField(ctx context.Context, id, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gallery[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch field {
	case "title":
		g.Title = value
	case "image_url":
		g.ImageURL = value
	case "description":
		g.Description = &value
	}
	m.gallery[id] = g
	return nil
}

func (m *memStore) DeleteGalleryImage(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gallery[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.gallery, id)
	return nil
}

func (m *memStore) ListServices(ctx context.Context) ([]domain.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Service, 0, len(m.services))
	for _, s := range m.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *memStore) InsertService(ctx context.Context, s domain.Service) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services[s.ID] = s
	return nil
}

func (m *memStore) UpdateServiceField(ctx context.Context, id, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.services[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch field {
	case "title":
		s.Title = value
	case "description":
		s.Description = value
	case "icon_name":
		s.IconName = value
	}
	m.services[id] = s
	return nil
}

func (m *memStore) DeleteService(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.services[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.services, id)
	return nil
}

func (m *memStore) ListSiteContent(ctx context.Context, q domain.SiteContentQuery) ([]domain.SiteContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SiteContent
	for _, c := range m.content {
		if q.Page != "" && c.Page != q.Page {
			continue
		}
		if q.Section != "" && c.Section != q.Section {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContentKey < out[j].ContentKey })
	return out, nil
}

func (m *memStore) GetSiteContent(ctx context.Context, id string) (domain.SiteContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.content[id]
	if !ok {
		return domain.SiteContent{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *memStore) InsertSiteContent(ctx context.Context, c domain.SiteContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[c.ID] = c
	return nil
}

func (m *memStore) UpdateSiteContentField(ctx context.Context, id, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.content[id]
	if !ok {
		return domain.ErrNotFound
	}
	switch field {
	case "page":
		c.Page = value
	case "section":
		c.Section = value
	case "content_key":
		c.ContentKey = value
	case "content_value":
		c.ContentValue = value
	}
	m.content[id] = c
	return nil
}

func (m *memStore) DeleteSiteContent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.content[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.content, id)
	return nil
}

func (m *memStore) GetStory(ctx context.Context) (domain.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.story == nil {
		return domain.Story{}, domain.ErrNotFound
	}
	return *m.story, nil
}

func (m *memStore) SaveStory(ctx context.Context, s domain.Story) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.story = &s
	return nil
}

func (m *memStore) GetContact(ctx context.Context) (domain.ContactInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.contact == nil {
		return domain.ContactInfo{}, domain.ErrNotFound
	}
	return *m.contact, nil
}

func (m *memStore) SaveContact(ctx context.Context, c domain.ContactInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contact = &c
	return nil
}

// ---- reviews ----

func (m *memStore) ListReviews(ctx context.Context, publishedOnly bool) ([]domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Review
	for _, r := range m.reviews {
		if publishedOnly && !r.IsPublished {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetReview(ctx context.Context, id string) (domain.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memStore) InsertReview(ctx context.Context, r domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews[r.ID] = r
	return nil
}

func (m *memStore) SetReviewPublished(ctx context.Context, id string, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.IsPublished = published
	m.reviews[id] = r
	return nil
}

func (m *memStore) DeleteReview(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

// ---- admins ----

func (m *memStore) GetAdminByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.admins[email]
	if !ok {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *memStore) HasAdminRole(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roles[userID], nil
}
