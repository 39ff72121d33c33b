package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"villa_mare/internal/domain"
)

const anonymousGuest = "Ospite Anonimo"

// ReviewInput is a review typed in by a guest or by an admin.
type ReviewInput struct {
	GuestName      string `json:"guest_name" validate:"required,max=200"`
	Content        string `json:"content" validate:"required,max=5000"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	ExternalSource string `json:"external_source" validate:"max=100"`
	ExternalLink   string `json:"external_link" validate:"omitempty,url,max=2048"`
}

type ReviewService struct {
	repo      domain.ReviewRepository
	extractor domain.ReviewExtractor
	cache     domain.Cache
	now       func() time.Time
}

func NewReviewService(r domain.ReviewRepository, x domain.ReviewExtractor, cache domain.Cache, now func() time.Time) *ReviewService {
	if now == nil {
		now = time.Now
	}
	return &ReviewService{repo: r, extractor: x, cache: cache, now: now}
}

// Submit stores a guest review; it stays hidden until an admin publishes it.
func (s *ReviewService) Submit(ctx context.Context, in ReviewInput) (domain.Review, error) {
	in.ExternalSource, in.ExternalLink = "", ""
	return s.add(ctx, in, false)
}

// Add stores a review entered by an admin, published right away.
func (s *ReviewService) Add(ctx context.Context, in ReviewInput) (domain.Review, error) {
	return s.add(ctx, in, true)
}

func (s *ReviewService) add(ctx context.Context, in ReviewInput, published bool) (domain.Review, error) {
	if err := validateStruct(in); err != nil {
		return domain.Review{}, err
	}
	r := domain.Review{
		ID:             uuid.NewString(),
		GuestName:      strings.TrimSpace(in.GuestName),
		Content:        strings.TrimSpace(in.Content),
		Rating:         in.Rating,
		ExternalSource: optional(in.ExternalSource),
		ExternalLink:   optional(in.ExternalLink),
		IsPublished:    published,
		CreatedAt:      s.now().UTC().Truncate(time.Second),
	}
	if err := s.repo.InsertReview(ctx, r); err != nil {
		return domain.Review{}, fmt.Errorf("insert review: %w", err)
	}
	if published {
		s.invalidate(ctx)
	}
	return r, nil
}

func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	return s.repo.ListReviews(ctx, false)
}

// TogglePublish flips the published flag and returns the new value.
func (s *ReviewService) TogglePublish(ctx context.Context, id string) (bool, error) {
	r, err := s.repo.GetReview(ctx, id)
	if err != nil {
		return false, err
	}
	if err := s.repo.SetReviewPublished(ctx, id, !r.IsPublished); err != nil {
		return false, err
	}
	s.invalidate(ctx)
	return !r.IsPublished, nil
}

func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Extract pulls a review out of a third-party page without storing it.
func (s *ReviewService) Extract(ctx context.Context, url string) (domain.ExtractedReview, error) {
	url = strings.TrimSpace(url)
	if err := validate.Var(url, "required,http_url"); err != nil {
		return domain.ExtractedReview{}, fieldError("url", "must be a valid URL")
	}
	if s.extractor == nil {
		return domain.ExtractedReview{}, errors.New("review extraction is not configured")
	}
	ex, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return domain.ExtractedReview{}, err
	}
	return normalizeExtracted(ex, url), nil
}

// Import extracts a review from url and stores it unpublished for moderation.
func (s *ReviewService) Import(ctx context.Context, url string) (domain.Review, error) {
	ex, err := s.Extract(ctx, url)
	if err != nil {
		return domain.Review{}, err
	}
	if ex.Content == "" {
		return domain.Review{}, fmt.Errorf("%s: no review text found: %w", url, domain.ErrInvalidInput)
	}
	r, err := s.add(ctx, ReviewInput{
		GuestName:      ex.GuestName,
		Content:        ex.Content,
		Rating:         ex.Rating,
		ExternalSource: ex.ExternalSource,
		ExternalLink:   ex.ExternalLink,
	}, false)
	if err != nil {
		return domain.Review{}, err
	}
	log.Info().Str("id", r.ID).Str("source", ex.ExternalSource).Msg("review imported")
	return r, nil
}

func normalizeExtracted(ex domain.ExtractedReview, url string) domain.ExtractedReview {
	ex.GuestName = strings.TrimSpace(ex.GuestName)
	if ex.GuestName == "" {
		ex.GuestName = anonymousGuest
	}
	ex.Content = strings.TrimSpace(ex.Content)
	if ex.Rating < 1 || ex.Rating > 5 {
		ex.Rating = 5
	}
	ex.ExternalSource = strings.TrimSpace(ex.ExternalSource)
	ex.ExternalLink = url
	return ex
}

func (s *ReviewService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, keyReviews); err != nil {
		log.Warn().Err(err).Str("key", keyReviews).Msg("cache invalidation failed")
	}
}
