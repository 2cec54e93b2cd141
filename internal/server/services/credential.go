package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/dbx"
	"github.com/dmitrijs2005/edupass/internal/server/models"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/edupass/internal/validation"
	"github.com/google/uuid"
)

const (
	maxLoginLength  = 255
	maxSecretLength = 1024
)

// SecretCipher encrypts credential secrets at rest.
type SecretCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(token string) (string, error)
}

// CredentialService manages a user's stored site logins. Every method takes
// the caller's userID and never reads or writes another user's records.
type CredentialService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      SecretCipher
	now         func() time.Time
}

// NewCredentialService constructs a CredentialService.
func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, cipher SecretCipher) *CredentialService {
	return &CredentialService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		now:         time.Now,
	}
}

// List returns userID's credentials with decrypted secrets and their site.
// A secret that fails to decrypt fails the whole call.
func (s *CredentialService) List(ctx context.Context, userID string) ([]*models.PlainCredential, error) {
	creds, err := s.repomanager.Credentials(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list credentials: %v", common.ErrorInternal, err)
	}

	result := make([]*models.PlainCredential, 0, len(creds))
	for _, c := range creds {
		plain, err := s.reveal(c, c.Site)
		if err != nil {
			return nil, err
		}
		result = append(result, plain)
	}

	return result, nil
}

// Create stores a new credential for (userID, siteID). An unknown site is a
// validation error; an existing credential for the pair yields
// common.ErrDuplicateCredential.
func (s *CredentialService) Create(ctx context.Context, userID, siteID, login, secret string) (*models.PlainCredential, error) {
	err := validation.New().
		Required("site_id", siteID).
		Required("login", login).MaxLength("login", login, maxLoginLength).
		Required("password", secret).MaxLength("password", secret, maxSecretLength).
		Err()
	if err != nil {
		return nil, err
	}

	site, err := s.repomanager.Sites(s.db).GetByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: unknown site %q", common.ErrValidation, siteID)
		}
		return nil, fmt.Errorf("%w: lookup site: %v", common.ErrorInternal, err)
	}

	repo := s.repomanager.Credentials(s.db)

	_, err = repo.GetByUserAndSite(ctx, userID, siteID)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateCredential
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: lookup credential: %v", common.ErrorInternal, err)
	}

	encrypted, err := s.cipher.Encrypt(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypt: %v", common.ErrorInternal, err)
	}

	c := &models.Credential{
		ID:                uuid.NewString(),
		UserID:            userID,
		SiteID:            siteID,
		Login:             login,
		PasswordEncrypted: encrypted,
		UpdatedAt:         s.now().UTC(),
	}

	if err := repo.Create(ctx, c); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrDuplicateCredential
		}
		return nil, fmt.Errorf("%w: create credential: %v", common.ErrorInternal, err)
	}

	return reveal(c, site, secret), nil
}

// Update changes login and/or secret of credential id owned by userID.
// Empty arguments leave the field unchanged. A missing or foreign
// credential yields common.ErrorNotFound. The ownership check and the write
// run in one transaction.
func (s *CredentialService) Update(ctx context.Context, userID, id, login, secret string) (*models.PlainCredential, error) {
	err := validation.New().
		MaxLength("login", login, maxLoginLength).
		MaxLength("password", secret, maxSecretLength).
		Err()
	if err != nil {
		return nil, err
	}

	updated, err := dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Credential, error) {
		repo := s.repomanager.Credentials(tx)

		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if c.UserID != userID {
			return nil, common.ErrorNotFound
		}

		if login != "" {
			c.Login = login
		}
		if secret != "" {
			encrypted, err := s.cipher.Encrypt(secret)
			if err != nil {
				return nil, fmt.Errorf("%w: encrypt: %v", common.ErrorInternal, err)
			}
			c.PasswordEncrypted = encrypted
		}
		c.UpdatedAt = s.now().UTC()

		if err := repo.Update(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: update credential: %v", common.ErrorInternal, err)
	}

	site, err := s.repomanager.Sites(s.db).GetByID(ctx, updated.SiteID)
	if err != nil {
		return nil, fmt.Errorf("%w: lookup site: %v", common.ErrorInternal, err)
	}

	return s.reveal(updated, site)
}

// Delete removes credential id owned by userID; common.ErrorNotFound when it
// does not exist or belongs to someone else.
func (s *CredentialService) Delete(ctx context.Context, userID, id string) error {
	err := s.repomanager.Credentials(s.db).Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: delete credential: %v", common.ErrorInternal, err)
	}
	return nil
}

func (s *CredentialService) reveal(c *models.Credential, site *models.Site) (*models.PlainCredential, error) {
	secret, err := s.cipher.Decrypt(c.PasswordEncrypted)
	if err != nil {
		return nil, fmt.Errorf("credential %s: %w", c.ID, err)
	}
	return reveal(c, site, secret), nil
}

func reveal(c *models.Credential, site *models.Site, secret string) *models.PlainCredential {
	return &models.PlainCredential{
		ID:        c.ID,
		UserID:    c.UserID,
		SiteID:    c.SiteID,
		Login:     c.Login,
		Password:  secret,
		UpdatedAt: c.UpdatedAt,
		Site:      site,
	}
}
