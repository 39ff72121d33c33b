package mysql

import (
	"context"
	"database/sql"
	"errors"

	"villa_mare/internal/domain"
)

var (
	galleryCols = map[string]string{"title": "title", "description": "description", "image_url": "image_url"}
	serviceCols = map[string]string{"title": "title", "description": "description", "icon_name": "icon_name"}
	contentCols = map[string]string{
		"page": "page", "section": "section",
		"content_key": "content_key", "content_value": "content_value",
	}
)

// ---- gallery ----

func (r *Repo) ListGallery(ctx context.Context) ([]domain.GalleryImage, error) {
	rows, err := r.db.QueryContext(ctx, listGallerySQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.GalleryImage{}
	for rows.Next() {
		var g domain.GalleryImage
		var desc sql.NullString
		if err := rows.Scan(&g.ID, &g.ImageURL, &g.Title, &desc, &g.DisplayOrder); err != nil {
			return nil, err
		}
		g.Description = strPtr(desc)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repo) InsertGalleryImage(ctx context.Context, g domain.GalleryImage) error {
	_, err := r.db.ExecContext(ctx, insertGallerySQL, g.ID, g.ImageURL, g.Title, valStr(g.Description), g.DisplayOrder)
	return mapInsertErr(err)
}

func (r *Repo) UpdateGalleryField(ctx context.Context, id, field, value string) error {
	return r.updateField(ctx, "gallery_images", galleryCols, id, field, value)
}

func (r *Repo) DeleteGalleryImage(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = ?`, id))
}

// ---- services ----

func (r *Repo) ListServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, listServicesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Service{}
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.IconName, &s.DisplayOrder); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) InsertService(ctx context.Context, s domain.Service) error {
	_, err := r.db.ExecContext(ctx, insertServiceSQL, s.ID, s.Title, s.Description, s.IconName, s.DisplayOrder)
	return mapInsertErr(err)
}

func (r *Repo) UpdateServiceField(ctx context.Context, id, field, value string) error {
	return r.updateField(ctx, "services", serviceCols, id, field, value)
}

func (r *Repo) DeleteService(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id))
}

// ---- site text ----

func (r *Repo) ListSiteContent(ctx context.Context, q domain.SiteContentQuery) ([]domain.SiteContent, error) {
	query := selectSiteContentCols
	var args []any
	switch {
	case q.Page != "" && q.Section != "":
		query += "WHERE page = ? AND section = ? "
		args = append(args, q.Page, q.Section)
	case q.Page != "":
		query += "WHERE page = ? "
		args = append(args, q.Page)
	}
	query += "ORDER BY page, section, content_key"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.SiteContent{}
	for rows.Next() {
		var c domain.SiteContent
		if err := rows.Scan(&c.ID, &c.Page, &c.Section, &c.ContentKey, &c.ContentValue); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetSiteContent(ctx context.Context, id string) (domain.SiteContent, error) {
	var c domain.SiteContent
	err := r.db.QueryRowContext(ctx, getSiteContentSQL, id).
		Scan(&c.ID, &c.Page, &c.Section, &c.ContentKey, &c.ContentValue)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SiteContent{}, domain.ErrNotFound
	}
	return c, err
}

func (r *Repo) InsertSiteContent(ctx context.Context, c domain.SiteContent) error {
	_, err := r.db.ExecContext(ctx, insertSiteContentSQL, c.ID, c.Page, c.Section, c.ContentKey, c.ContentValue)
	return mapInsertErr(err)
}

func (r *Repo) UpdateSiteContentField(ctx context.Context, id, field, value string) error {
	return r.updateField(ctx, "site_content", contentCols, id, field, value)
}

func (r *Repo) DeleteSiteContent(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM site_content WHERE id = ?`, id))
}

// ---- single-row pages ----

func (r *Repo) GetStory(ctx context.Context) (domain.Story, error) {
	var s domain.Story
	var img sql.NullString
	err := r.db.QueryRowContext(ctx, getStorySQL).Scan(&s.ID, &s.Title, &s.Content, &img)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Story{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Story{}, err
	}
	s.ImageURL = strPtr(img)
	return s, nil
}

func (r *Repo) SaveStory(ctx context.Context, s domain.Story) error {
	_, err := r.db.ExecContext(ctx, saveStorySQL, s.ID, s.Title, s.Content, valStr(s.ImageURL))
	return err
}

func (r *Repo) GetContact(ctx context.Context) (domain.ContactInfo, error) {
	var c domain.ContactInfo
	var wa, ig, fb sql.NullString
	err := r.db.QueryRowContext(ctx, getContactSQL).
		Scan(&c.ID, &c.Phone, &c.Email, &c.Address, &wa, &ig, &fb)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ContactInfo{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ContactInfo{}, err
	}
	c.WhatsApp, c.Instagram, c.Facebook = strPtr(wa), strPtr(ig), strPtr(fb)
	return c, nil
}

func (r *Repo) SaveContact(ctx context.Context, c domain.ContactInfo) error {
	_, err := r.db.ExecContext(ctx, saveContactSQL,
		c.ID, c.Phone, c.Email, c.Address,
		valStr(c.WhatsApp), valStr(c.Instagram), valStr(c.Facebook),
	)
	return err
}
