package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"villa_mare/internal/domain"
)

// cache keys for the public pages
const (
	keyGallery  = "gallery"
	keyServices = "services"
	keyReviews  = "reviews:published"
	keyStory    = "story"
	keyContact  = "contact"
)

func contentKey(page, section string) string {
	return fmt.Sprintf("content:%s:%s", strings.ToLower(page), strings.ToLower(section))
}

// QueryService serves the public pages, reading through the cache.
type QueryService struct {
	content  domain.ContentRepository
	reviews  domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(c domain.ContentRepository, r domain.ReviewRepository, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{content: c, reviews: r, cache: cache, cacheTTL: ttl}
}

func (s *QueryService) Gallery(ctx context.Context) ([]domain.GalleryImage, error) {
	return cached(ctx, s, keyGallery, s.content.ListGallery)
}

func (s *QueryService) Services(ctx context.Context) ([]domain.Service, error) {
	return cached(ctx, s, keyServices, s.content.ListServices)
}

func (s *QueryService) Reviews(ctx context.Context) ([]domain.Review, error) {
	return cached(ctx, s, keyReviews, func(ctx context.Context) ([]domain.Review, error) {
		return s.reviews.ListReviews(ctx, true)
	})
}

func (s *QueryService) Story(ctx context.Context) (domain.Story, error) {
	return cached(ctx, s, keyStory, s.content.GetStory)
}

func (s *QueryService) Contact(ctx context.Context) (domain.ContactInfo, error) {
	return cached(ctx, s, keyContact, s.content.GetContact)
}

// SiteText returns the key/value texts of a page, optionally narrowed to one section.
func (s *QueryService) SiteText(ctx context.Context, page, section string) (map[string]string, error) {
	return cached(ctx, s, contentKey(page, section), func(ctx context.Context) (map[string]string, error) {
		rows, err := s.content.ListSiteContent(ctx, domain.SiteContentQuery{Page: page, Section: section})
		if err != nil {
			return nil, err
		}
		out := make(map[string]string, len(rows))
		for _, r := range rows {
			out[r.ContentKey] = r.ContentValue
		}
		return out, nil
	})
}

// cached is cache-aside: a hit short-circuits, a miss loads and stores a copy.
func cached[T any](ctx context.Context, s *QueryService, key string, load func(context.Context) (T, error)) (T, error) {
	var out T
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if s.cache != nil {
		// optional size guard
		if b, _ := json.Marshal(v); len(b) < 1_000_000 {
			_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
		}
	}
	return v, nil
}
