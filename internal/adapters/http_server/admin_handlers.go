package httpserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"villa_mare/internal/app"
	"villa_mare/internal/domain"
)

const (
	xlsxType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxUploadSize = 10 << 20
)

type fieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type statusUpdate struct {
	Status domain.BookingStatus `json:"status"`
}

type calendarToggle struct {
	Dates []string `json:"dates"`
	Notes string   `json:"notes"`
}

type priceInput struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

type urlInput struct {
	URL string `json:"url"`
}

func (h *Handlers) mountAdmin(r chi.Router) {
	r.Get("/admin/me", h.me)

	r.Get("/admin/bookings", h.listBookings)
	r.Get("/admin/bookings/export", h.exportBookings)
	r.Patch("/admin/bookings/{id}", h.setBookingStatus)
	r.Delete("/admin/bookings/{id}", h.deleteBooking)

	r.Get("/admin/calendar", h.listUnavailable)
	r.Post("/admin/calendar", h.toggleDates)
	r.Delete("/admin/calendar/{id}", h.deleteCalendarDay)
	r.Get("/admin/prices", h.listPrices)
	r.Put("/admin/prices", h.setPrice)
	r.Delete("/admin/prices/{id}", h.deletePrice)

	r.Post("/admin/gallery", h.addGalleryImage)
	r.Post("/admin/gallery/upload", h.uploadGalleryImage)
	r.Patch("/admin/gallery/{id}", h.updateGalleryImage)
	r.Delete("/admin/gallery/{id}", h.deleteGalleryImage)

	r.Post("/admin/services", h.addService)
	r.Patch("/admin/services/{id}", h.updateService)
	r.Delete("/admin/services/{id}", h.deleteService)

	r.Get("/admin/content", h.listSiteContent)
	r.Post("/admin/content", h.addSiteContent)
	r.Patch("/admin/content/{id}", h.updateSiteContent)
	r.Delete("/admin/content/{id}", h.deleteSiteContent)
	r.Put("/admin/story", h.saveStory)
	r.Put("/admin/contact", h.saveContact)

	r.Get("/admin/reviews", h.listAllReviews)
	r.Post("/admin/reviews", h.addReview)
	r.Post("/admin/reviews/extract", h.extractReview)
	r.Post("/admin/reviews/import", h.importReview)
	r.Patch("/admin/reviews/{id}/publish", h.togglePublish)
	r.Delete("/admin/reviews/{id}", h.deleteReview)
}

func noContent(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	c, _ := AdminFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"id": c.Subject, "email": c.Email})
}

// ---- bookings ----

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Bookings.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) exportBookings(w http.ResponseWriter, r *http.Request) {
	// buffer so a failed export still gets a proper error response
	var buf bytes.Buffer
	if err := h.Bookings.Export(r.Context(), &buf); err != nil {
		writeError(w, r, err)
		return
	}
	name := fmt.Sprintf("prenotazioni-%s.xlsx", h.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, &buf); err != nil {
		log.Error().Err(err).Msg("failed to write export")
	}
}

func (h *Handlers) setBookingStatus(w http.ResponseWriter, r *http.Request) {
	var in statusUpdate
	if !decode(w, r, &in) {
		return
	}
	if err := h.Bookings.SetStatus(r.Context(), chi.URLParam(r, "id"), in.Status); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

// ---- calendar ----

func (h *Handlers) listUnavailable(w http.ResponseWriter, r *http.Request) {
	out, err := h.Calendar.ListUnavailable(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) toggleDates(w http.ResponseWriter, r *http.Request) {
	var in calendarToggle
	if !decode(w, r, &in) {
		return
	}
	dates := make([]time.Time, 0, len(in.Dates))
	for _, s := range in.Dates {
		d, err := parseDay("dates", s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !d.IsZero() {
			dates = append(dates, d)
		}
	}
	if err := h.Calendar.ToggleDates(r.Context(), dates, in.Notes); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handlers) deleteCalendarDay(w http.ResponseWriter, r *http.Request) {
	if err := h.Calendar.DeleteDay(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handlers) listPrices(w http.ResponseWriter, r *http.Request) {
	out, err := h.Calendar.ListPrices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) setPrice(w http.ResponseWriter, r *http.Request) {
	var in priceInput
	if !decode(w, r, &in) {
		return
	}
	d, err := parseDay("date", in.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Calendar.SetPrice(r.Context(), d, in.Price); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handlers) deletePrice(w http.ResponseWriter, r *http.Request) {
	if err := h.Calendar.DeletePrice(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

// ---- gallery ----

func (h *Handlers) addGalleryImage(w http.ResponseWriter, r *http.Request) {
	var in app.GalleryInput
	if !decode(w, r, &in) {
		return
	}
	img, err := h.Admin.AddGalleryImage(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

// uploadGalleryImage takes multipart fields file, title and description.
func (h *Handlers) uploadGalleryImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "expected a multipart form up to 10MB")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, invalidField("file", "is required"))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ct := http.DetectContentType(data); !strings.HasPrefix(ct, "image/") {
		writeError(w, r, invalidField("file", "must be an image"))
		return
	}
	img, err := h.Admin.UploadGalleryImage(r.Context(), hdr.Filename, data, r.FormValue("title"), r.FormValue("description"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, img)
}

func (h *Handlers) updateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var in fieldUpdate
	if !decode(w, r, &in) {
		return
	}
	if err := h.Admin.UpdateGalleryImage(r.Context(), chi.URLParam(r, "id"), in.Field, in.Value); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handlers) deleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	if err := h.Admin.DeleteGalleryImage(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

// ---- services ----

func (h *Handlers) addService(w http.ResponseWriter, r *http.Request) {
	var in app.ServiceInput
	if !decode(w, r, &in) {
		return
	}
	sv, err := h.Admin.AddService(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sv)
}

func (h *Handlers) updateService(w http.ResponseWriter, r *http.Request) {
	var in fieldUpdate
	if !decode(w, r, &in) {
		return
	}
	if err := h.Admin.UpdateService(r.Context(), chi.URLParam(r, "id"), in.Field, in.Value); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handlers) deleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.Admin.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

// ---- site text ----

func (h *Handlers) listSiteContent(w http.ResponseWriter, r *http.Request) {
	out, err := h.Admin.ListSiteContent(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) addSiteContent(w http.ResponseWriter, r *http.Request) {
	var in app.SiteContentInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.Admin.AddSiteContent(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) updateSiteContent(w http.ResponseWriter, r *http.Request) {
	var in fieldUpdate
	if !decode(w, r, &in) {
		return
	}
	if err := h.Admin.UpdateSiteContent(r.Context(), chi.URLParam(r, "id"), in.Field, in.Value); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handlers) deleteSiteContent(w http.ResponseWriter, r *http.Request) {
	if err := h.Admin.DeleteSiteContent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handlers) saveStory(w http.ResponseWriter, r *http.Request) {
	var in app.StoryInput
	if !decode(w, r, &in) {
		return
	}
	st, err := h.Admin.SaveStory(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handlers) saveContact(w http.ResponseWriter, r *http.Request) {
	var in app.ContactInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.Admin.SaveContact(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ---- reviews ----

func (h *Handlers) listAllReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Reviews.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	var in app.ReviewInput
	if !decode(w, r, &in) {
		return
	}
	rv, err := h.Reviews.Add(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) extractReview(w http.ResponseWriter, r *http.Request) {
	var in urlInput
	if !decode(w, r, &in) {
		return
	}
	ex, err := h.Reviews.Extract(r.Context(), in.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (h *Handlers) importReview(w http.ResponseWriter, r *http.Request) {
	var in urlInput
	if !decode(w, r, &in) {
		return
	}
	rv, err := h.Reviews.Import(r.Context(), in.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) togglePublish(w http.ResponseWriter, r *http.Request) {
	published, err := h.Reviews.TogglePublish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_published": published})
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.Reviews.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	noContent(w)
}
