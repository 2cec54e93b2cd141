package users

import (
	"context"

	"github.com/dmitrijs2005/edupass/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts user. A duplicate email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail looks a user up by exact email; common.ErrorNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// List returns every user ordered by creation time.
	List(ctx context.Context) ([]*models.User, error)
}
