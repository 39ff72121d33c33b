package mysql

import (
	"context"
	"database/sql"
	"errors"

	"villa_mare/internal/domain"
)

func (r *Repo) GetAdminByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	var u domain.AdminUser
	err := r.db.QueryRowContext(ctx, getAdminByEmailSQL, email).Scan(&u.ID, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AdminUser{}, domain.ErrNotFound
	}
	return u, err
}

func (r *Repo) HasAdminRole(ctx context.Context, userID string) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, hasAdminRoleSQL, userID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
