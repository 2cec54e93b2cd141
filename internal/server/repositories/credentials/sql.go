// Package credentials contains the SQL implementation of the credential
// repository.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/dbx"
	"github.com/dmitrijs2005/edupass/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	query :=
		`SELECT c.id, c.user_id, c.site_id, c.login, c.password_encrypted, c.updated_at,
		        s.id, s.name, s.url, s.icon, s.description
		 FROM credentials c
		 JOIN sites s ON s.id = c.site_id
		 WHERE c.user_id = $1
		 ORDER BY s.name, c.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Credential, 0)
	for rows.Next() {
		c := &models.Credential{Site: &models.Site{}}
		err := rows.Scan(&c.ID, &c.UserID, &c.SiteID, &c.Login, &c.PasswordEncrypted, &c.UpdatedAt,
			&c.Site.ID, &c.Site.Name, &c.Site.URL, &c.Site.Icon, &c.Site.Description)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Credential, error) {
	query :=
		`SELECT id, user_id, site_id, login, password_encrypted, updated_at FROM credentials
		 WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *SQLRepository) GetByUserAndSite(ctx context.Context, userID, siteID string) (*models.Credential, error) {
	query :=
		`SELECT id, user_id, site_id, login, password_encrypted, updated_at FROM credentials
		 WHERE user_id = $1 AND site_id = $2`

	return r.getOne(ctx, query, userID, siteID)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*models.Credential, error) {
	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&c.ID, &c.UserID, &c.SiteID, &c.Login, &c.PasswordEncrypted, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *SQLRepository) Create(ctx context.Context, c *models.Credential) error {
	query :=
		`INSERT INTO credentials (id, user_id, site_id, login, password_encrypted, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.SiteID, c.Login, c.PasswordEncrypted, c.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *SQLRepository) Update(ctx context.Context, c *models.Credential) error {
	query :=
		`UPDATE credentials SET login = $1, password_encrypted = $2, updated_at = $3
		 WHERE id = $4 AND user_id = $5`

	res, err := r.db.ExecContext(ctx, query,
		c.Login, c.PasswordEncrypted, c.UpdatedAt, c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(res)
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id string) error {
	query :=
		`DELETE FROM credentials
		 WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(res)
}

func (r *SQLRepository) ListAll(ctx context.Context) ([]*models.Credential, error) {
	query :=
		`SELECT id, user_id, site_id, login, password_encrypted, updated_at FROM credentials
		 ORDER BY user_id, site_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Credential
	for rows.Next() {
		c := &models.Credential{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.SiteID, &c.Login, &c.PasswordEncrypted, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
