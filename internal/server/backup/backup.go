// Package backup exports the vault to object storage as a single JSON
// document. Credential secrets stay in their encrypted form and password
// hashes are left out.
package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/dbx"
	"github.com/dmitrijs2005/edupass/internal/logging"
	"github.com/dmitrijs2005/edupass/internal/server/models"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const contentType = "application/json"

// ErrNoSink is returned by NewSink when no backup driver is configured.
var ErrNoSink = errors.New("backup driver not configured")

// Sink stores one object.
type Sink interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// UserRecord is a user as exported; the password hash is omitted.
type UserRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CredentialRecord is a credential as exported, secret still encrypted.
type CredentialRecord struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	SiteID            string    `json:"site_id"`
	Login             string    `json:"login"`
	PasswordEncrypted string    `json:"password_encrypted"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Snapshot is the exported document.
type Snapshot struct {
	CreatedAt   time.Time          `json:"created_at"`
	Users       []UserRecord       `json:"users"`
	Sites       []*models.Site     `json:"sites"`
	Credentials []CredentialRecord `json:"credentials"`
}

// ObjectKey returns backups/YYYY/MM/DD/<id>.json for t in UTC.
func ObjectKey(t time.Time, id string) string {
	t = t.UTC()
	return fmt.Sprintf("backups/%04d/%02d/%02d/%s.json", t.Year(), t.Month(), t.Day(), id)
}

// Service takes snapshots and hands them to a Sink.
type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sink        Sink
	logger      logging.Logger
	now         func() time.Time
	newID       func() string
}

// NewService constructs a Service.
func NewService(db *sql.DB, m repomanager.RepositoryManager, sink Sink, logger logging.Logger) *Service {
	return &Service{
		db:          db,
		repomanager: m,
		sink:        sink,
		logger:      logger.With("module", "backup"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Snapshot reads every user, site and credential in one transaction.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	var (
		users []*models.User
		sites []*models.Site
		creds []*models.Credential
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if users, err = s.repomanager.Users(tx).List(ctx); err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		if sites, err = s.repomanager.Sites(tx).List(ctx); err != nil {
			return fmt.Errorf("list sites: %w", err)
		}
		if creds, err = s.repomanager.Credentials(tx).ListAll(ctx); err != nil {
			return fmt.Errorf("list credentials: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot: %v", common.ErrorInternal, err)
	}

	snap := &Snapshot{
		CreatedAt:   s.now().UTC(),
		Users:       make([]UserRecord, 0, len(users)),
		Sites:       sites,
		Credentials: make([]CredentialRecord, 0, len(creds)),
	}
	if snap.Sites == nil {
		snap.Sites = []*models.Site{}
	}
	for _, u := range users {
		snap.Users = append(snap.Users, UserRecord{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		})
	}
	for _, c := range creds {
		snap.Credentials = append(snap.Credentials, CredentialRecord{
			ID:                c.ID,
			UserID:            c.UserID,
			SiteID:            c.SiteID,
			Login:             c.Login,
			PasswordEncrypted: c.PasswordEncrypted,
			UpdatedAt:         c.UpdatedAt,
		})
	}
	return snap, nil
}

// Run takes a snapshot, uploads it and returns the object key.
func (s *Service) Run(ctx context.Context) (string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("%w: encode snapshot: %v", common.ErrorInternal, err)
	}

	key := ObjectKey(snap.CreatedAt, s.newID())
	if err := s.sink.Put(ctx, key, contentType, body); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Info(ctx, "backup uploaded",
		"key", key,
		"users", len(snap.Users),
		"sites", len(snap.Sites),
		"credentials", len(snap.Credentials),
		"bytes", len(body),
	)
	return key, nil
}
