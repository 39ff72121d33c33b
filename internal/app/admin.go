package app

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"villa_mare/internal/domain"
)

// editable columns per table; value says whether it may be blank
var (
	galleryFields = map[string]bool{"title": false, "description": true, "image_url": false}
	serviceFields = map[string]bool{"title": false, "description": true, "icon_name": false}
	contentFields = map[string]bool{"page": false, "section": false, "content_key": false, "content_value": true}
)

type GalleryInput struct {
	ImageURL    string `json:"image_url" validate:"required,url,max=2048"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type ServiceInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	IconName    string `json:"icon_name" validate:"required,max=64"`
}

type SiteContentInput struct {
	Page         string `json:"page" validate:"required,max=64"`
	Section      string `json:"section" validate:"required,max=64"`
	ContentKey   string `json:"content_key" validate:"required,max=128"`
	ContentValue string `json:"content_value" validate:"max=20000"`
}

type StoryInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

type ContactInput struct {
	Phone     string `json:"phone" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required,max=500"`
	WhatsApp  string `json:"whatsapp" validate:"max=50"`
	Instagram string `json:"instagram" validate:"max=200"`
	Facebook  string `json:"facebook" validate:"max=200"`
}

// AdminService edits the site content and evicts the cached public views it touches.
type AdminService struct {
	content domain.ContentRepository
	images  domain.ImageStore
	cache   domain.Cache
}

func NewAdminService(c domain.ContentRepository, images domain.ImageStore, cache domain.Cache) *AdminService {
	return &AdminService{content: c, images: images, cache: cache}
}

// ---- gallery ----

func (s *AdminService) AddGalleryImage(ctx context.Context, in GalleryInput) (domain.GalleryImage, error) {
	if err := validateStruct(in); err != nil {
		return domain.GalleryImage{}, err
	}
	imgs, err := s.content.ListGallery(ctx)
	if err != nil {
		return domain.GalleryImage{}, err
	}
	order := 0
	for _, img := range imgs {
		if img.DisplayOrder >= order {
			order = img.DisplayOrder + 1
		}
	}
	img := domain.GalleryImage{
		ID:           uuid.NewString(),
		ImageURL:     strings.TrimSpace(in.ImageURL),
		Title:        strings.TrimSpace(in.Title),
		Description:  optional(in.Description),
		DisplayOrder: order,
	}
	if err := s.content.InsertGalleryImage(ctx, img); err != nil {
		return domain.GalleryImage{}, err
	}
	s.invalidate(ctx, keyGallery)
	return img, nil
}

// UploadGalleryImage stores the file in object storage and adds it to the gallery.
func (s *AdminService) UploadGalleryImage(ctx context.Context, filename string, data []byte, title, description string) (domain.GalleryImage, error) {
	if len(data) == 0 {
		return domain.GalleryImage{}, fieldError("file", "is required")
	}
	if strings.TrimSpace(title) == "" {
		return domain.GalleryImage{}, fieldError("title", "is required")
	}
	if s.images == nil {
		return domain.GalleryImage{}, errors.New("image storage is not configured")
	}
	url, err := s.images.Upload(ctx, filename, data)
	if err != nil {
		return domain.GalleryImage{}, err
	}
	return s.AddGalleryImage(ctx, GalleryInput{ImageURL: url, Title: title, Description: description})
}

func (s *AdminService) UpdateGalleryImage(ctx context.Context, id, field, value string) error {
	if err := checkField(galleryFields, field, value); err != nil {
		return err
	}
	if err := s.content.UpdateGalleryField(ctx, id, field, strings.TrimSpace(value)); err != nil {
		return err
	}
	s.invalidate(ctx, keyGallery)
	return nil
}

func (s *AdminService) DeleteGalleryImage(ctx context.Context, id string) error {
	if err := s.content.DeleteGalleryImage(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyGallery)
	return nil
}

// ---- services ----

func (s *AdminService) AddService(ctx context.Context, in ServiceInput) (domain.Service, error) {
	if err := validateStruct(in); err != nil {
		return domain.Service{}, err
	}
	svcs, err := s.content.ListServices(ctx)
	if err != nil {
		return domain.Service{}, err
	}
	order := 0
	for _, sv := range svcs {
		if sv.DisplayOrder >= order {
			order = sv.DisplayOrder + 1
		}
	}
	sv := domain.Service{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		IconName:     strings.TrimSpace(in.IconName),
		DisplayOrder: order,
	}
	if err := s.content.InsertService(ctx, sv); err != nil {
		return domain.Service{}, err
	}
	s.invalidate(ctx, keyServices)
	return sv, nil
}

func (s *AdminService) UpdateService(ctx context.Context, id, field, value string) error {
	if err := checkField(serviceFields, field, value); err != nil {
		return err
	}
	if err := s.content.UpdateServiceField(ctx, id, field, strings.TrimSpace(value)); err != nil {
		return err
	}
	s.invalidate(ctx, keyServices)
	return nil
}

func (s *AdminService) DeleteService(ctx context.Context, id string) error {
	if err := s.content.DeleteService(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyServices)
	return nil
}

// ---- site text ----

func (s *AdminService) ListSiteContent(ctx context.Context) ([]domain.SiteContent, error) {
	return s.content.ListSiteContent(ctx, domain.SiteContentQuery{})
}

func (s *AdminService) AddSiteContent(ctx context.Context, in SiteContentInput) (domain.SiteContent, error) {
	if err := validateStruct(in); err != nil {
		return domain.SiteContent{}, err
	}
	c := domain.SiteContent{
		ID:           uuid.NewString(),
		Page:         strings.TrimSpace(in.Page),
		Section:      strings.TrimSpace(in.Section),
		ContentKey:   strings.TrimSpace(in.ContentKey),
		ContentValue: in.ContentValue,
	}
	if err := s.content.InsertSiteContent(ctx, c); err != nil {
		return domain.SiteContent{}, err
	}
	s.invalidateContent(ctx, c)
	return c, nil
}

func (s *AdminService) UpdateSiteContent(ctx context.Context, id, field, value string) error {
	if err := checkField(contentFields, field, value); err != nil {
		return err
	}
	old, err := s.content.GetSiteContent(ctx, id)
	if err != nil {
		return err
	}
	if field != "content_value" {
		value = strings.TrimSpace(value)
	}
	if err := s.content.UpdateSiteContentField(ctx, id, field, value); err != nil {
		return err
	}
	s.invalidateContent(ctx, old)
	switch field {
	case "page":
		old.Page = value
		s.invalidateContent(ctx, old)
	case "section":
		old.Section = value
		s.invalidateContent(ctx, old)
	}
	return nil
}

func (s *AdminService) DeleteSiteContent(ctx context.Context, id string) error {
	old, err := s.content.GetSiteContent(ctx, id)
	if err != nil {
		return err
	}
	if err := s.content.DeleteSiteContent(ctx, id); err != nil {
		return err
	}
	s.invalidateContent(ctx, old)
	return nil
}

// ---- single-row pages ----

func (s *AdminService) SaveStory(ctx context.Context, in StoryInput) (domain.Story, error) {
	if err := validateStruct(in); err != nil {
		return domain.Story{}, err
	}
	st := domain.Story{Title: strings.TrimSpace(in.Title), Content: in.Content, ImageURL: optional(in.ImageURL)}
	existing, err := s.content.GetStory(ctx)
	switch {
	case err == nil:
		st.ID = existing.ID
	case errors.Is(err, domain.ErrNotFound):
		st.ID = uuid.NewString()
	default:
		return domain.Story{}, err
	}
	if err := s.content.SaveStory(ctx, st); err != nil {
		return domain.Story{}, err
	}
	s.invalidate(ctx, keyStory)
	return st, nil
}

func (s *AdminService) SaveContact(ctx context.Context, in ContactInput) (domain.ContactInfo, error) {
	if err := validateStruct(in); err != nil {
		return domain.ContactInfo{}, err
	}
	c := domain.ContactInfo{
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		Address:   strings.TrimSpace(in.Address),
		WhatsApp:  optional(in.WhatsApp),
		Instagram: optional(in.Instagram),
		Facebook:  optional(in.Facebook),
	}
	existing, err := s.content.GetContact(ctx)
	switch {
	case err == nil:
		c.ID = existing.ID
	case errors.Is(err, domain.ErrNotFound):
		c.ID = uuid.NewString()
	default:
		return domain.ContactInfo{}, err
	}
	if err := s.content.SaveContact(ctx, c); err != nil {
		return domain.ContactInfo{}, err
	}
	s.invalidate(ctx, keyContact)
	return c, nil
}

// ---- helpers ----

func checkField(allowed map[string]bool, field, value string) error {
	blankOK, ok := allowed[field]
	if !ok {
		names := make([]string, 0, len(allowed))
		for k := range allowed {
			names = append(names, k)
		}
		sort.Strings(names)
		return fieldError("field", "must be one of: "+strings.Join(names, " "))
	}
	if !blankOK && strings.TrimSpace(value) == "" {
		return fieldError(field, "must not be empty")
	}
	return nil
}

func (s *AdminService) invalidateContent(ctx context.Context, c domain.SiteContent) {
	s.invalidate(ctx, contentKey(c.Page, ""), contentKey(c.Page, c.Section))
}

func (s *AdminService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
