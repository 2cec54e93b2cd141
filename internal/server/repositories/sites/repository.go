package sites

import (
	"context"

	"github.com/dmitrijs2005/edupass/internal/server/models"
)

// Repository persists the site catalog.
type Repository interface {
	// List returns every site ordered by name.
	List(ctx context.Context) ([]*models.Site, error)
	GetByID(ctx context.Context, id string) (*models.Site, error)
	// CreateIfAbsent inserts site unless one with the same id or normalized
	// name exists, and reports whether a row was written.
	CreateIfAbsent(ctx context.Context, site *models.Site) (bool, error)
}
