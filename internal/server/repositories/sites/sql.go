// Package sites contains the SQL implementation of the site catalog
// repository.
package sites

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

func (r *SQLRepository) List(ctx context.Context) ([]*models.Site, error) {
	query :=
		`SELECT id, name, url, icon, description FROM sites
		 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Site, 0)
	for rows.Next() {
		site := &models.Site{}
		if err := rows.Scan(&site.ID, &site.Name, &site.URL, &site.Icon, &site.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, site)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.Site, error) {
	query :=
		`SELECT id, name, url, icon, description FROM sites
		 WHERE id = $1`

	site := &models.Site{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&site.ID, &site.Name, &site.URL, &site.Icon, &site.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return site, nil
}

func (r *SQLRepository) CreateIfAbsent(ctx context.Context, site *models.Site) (bool, error) {
	query :=
		`INSERT INTO sites (id, name, name_key, url, icon, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		site.ID, site.Name, models.NormalizeSiteName(site.Name), site.URL, site.Icon, site.Description)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}
