package mysql

import (
	"context"
	"database/sql"
	"errors"

	"villa_mare/internal/domain"
)

func scanReview(s rowScanner) (domain.Review, error) {
	var rv domain.Review
	var source, link sql.NullString
	if err := s.Scan(
		&rv.ID, &rv.GuestName, &rv.Content, &rv.Rating,
		&source, &link, &rv.IsPublished, &rv.CreatedAt,
	); err != nil {
		return domain.Review{}, err
	}
	rv.ExternalSource = strPtr(source)
	rv.ExternalLink = strPtr(link)
	return rv, nil
}

func (r *Repo) ListReviews(ctx context.Context, publishedOnly bool) ([]domain.Review, error) {
	q := listReviewsSQL
	if publishedOnly {
		q = listPublishedReviewsSQL
	}
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, domain.ErrNotFound
	}
	return rv, err
}

func (r *Repo) InsertReview(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID,
		rv.GuestName,
		rv.Content,
		rv.Rating,
		valStr(rv.ExternalSource),
		valStr(rv.ExternalLink),
		rv.IsPublished,
		rv.CreatedAt.UTC(),
	)
	return mapInsertErr(err)
}

func (r *Repo) SetReviewPublished(ctx context.Context, id string, published bool) error {
	return expectOne(r.db.ExecContext(ctx, setReviewPublishedSQL, published, id))
}

func (r *Repo) DeleteReview(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, deleteReviewSQL, id))
}
