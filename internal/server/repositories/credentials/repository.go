package credentials

import (
	"context"

	"github.com/dmitrijs2005/edupass/internal/server/models"
)

// Repository persists credential records. Owner-scoped methods never
// return or touch another user's rows.
type Repository interface {
	// ListByUser returns the owner's credentials with their site embedded,
	// ordered by site name.
	ListByUser(ctx context.Context, userID string) ([]*models.Credential, error)
	GetByID(ctx context.Context, id string) (*models.Credential, error)
	GetByUserAndSite(ctx context.Context, userID, siteID string) (*models.Credential, error)
	// Create inserts c; a second credential for the same (user, site)
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, c *models.Credential) error
	// Update writes login, secret and updated_at of the row matching both
	// c.ID and c.UserID; common.ErrorNotFound if there is none.
	Update(ctx context.Context, c *models.Credential) error
	// Delete removes the row matching id and userID; common.ErrorNotFound
	// if there is none.
	Delete(ctx context.Context, userID, id string) error
	// ListAll returns every credential, secrets still encrypted.
	ListAll(ctx context.Context) ([]*models.Credential, error)
}
