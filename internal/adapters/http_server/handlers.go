package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"villa_mare/internal/app"
	"villa_mare/internal/domain"
)

const maxBody = 1 << 20

type Handlers struct {
	Q        *app.QueryService
	Calendar *app.CalendarService
	Bookings *app.BookingService
	Reviews  *app.ReviewService
	Admin    *app.AdminService
	Auth     *app.AuthService
	Verifier TokenVerifier
	// Ready reports whether the backing stores answer; nil means always ready.
	Ready func(ctx context.Context) error
	Now   func() time.Time
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.Now == nil {
		h.Now = time.Now
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/calendar", h.calendarMonth)
		r.Post("/calendar/selection", h.calendarSelect)
		r.Post("/calendar/pick", h.calendarPick)
		r.Post("/bookings", h.submitBooking)

		r.Get("/gallery", h.gallery)
		r.Get("/services", h.services)
		r.Get("/reviews", h.publishedReviews)
		r.Post("/reviews", h.submitReview)
		r.Get("/story", h.story)
		r.Get("/contact", h.contact)
		r.Get("/content/{page}", h.siteText)

		r.Post("/admin/login", h.login)
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin(h.Verifier))
			h.mountAdmin(r)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblemBody(w, problem{
			Type: "about:blank", Title: "Unprocessable Entity", Status: http.StatusUnprocessableEntity,
			Detail: "some fields are invalid", Errors: ve.Fields,
		})
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, domain.ErrUnavailable):
		writeProblem(w, http.StatusConflict, "Dates Unavailable", "the selected dates are no longer available")
	case errors.Is(err, domain.ErrDuplicate):
		writeProblem(w, http.StatusConflict, "Duplicate", "this request was already received")
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "admin role required")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "request timed out")
	default:
		log.Error().Err(err).Str("route", routeOf(r)).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable answers 304 when the client already holds this version.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

// decode reads a JSON body into dst, writing a problem and returning false on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		detail := "body must be a JSON object"
		if errors.Is(err, io.EOF) {
			detail = "body is empty"
		}
		writeProblem(w, http.StatusBadRequest, "Bad Request", detail)
		return false
	}
	return true
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(r.Context()); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			writeProblem(w, http.StatusServiceUnavailable, "Not Ready", "")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// ---- public content ----

func (h *Handlers) gallery(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Gallery(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) services(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Services(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) publishedReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Reviews(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) story(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Story(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) contact(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Contact(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) siteText(w http.ResponseWriter, r *http.Request) {
	page := strings.TrimSpace(chi.URLParam(r, "page"))
	section := strings.TrimSpace(r.URL.Query().Get("section"))
	out, err := h.Q.SiteText(r.Context(), page, section)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

// ---- public writes ----

func (h *Handlers) submitBooking(w http.ResponseWriter, r *http.Request) {
	var req app.BookingRequest
	if !decode(w, r, &req) {
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	b, err := h.Bookings.Submit(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	var in app.ReviewInput
	if !decode(w, r, &in) {
		return
	}
	rv, err := h.Reviews.Submit(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	if h.Auth == nil {
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "admin access is not configured")
		return
	}
	var req app.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	tok, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok, "token_type": "Bearer"})
}
