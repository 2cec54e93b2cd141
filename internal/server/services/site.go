package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/logging"
	"github.com/dmitrijs2005/edupass/internal/server/models"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/repomanager"
)

// SiteCache is an optional read-through cache for the catalog listing.
type SiteCache interface {
	// Get returns the cached listing and whether it was present.
	Get(ctx context.Context) ([]*models.Site, bool, error)
	Set(ctx context.Context, sites []*models.Site) error
	Invalidate(ctx context.Context) error
}

// DefaultSites is the catalog installed by Seed.
var DefaultSites = []models.Site{
	{
		ID:          "prodabel",
		Name:        "Atendimento Prodabel",
		URL:         "https://atendimentoprodabel.pbh.gov.br/CAisd/pdmweb.exe",
		Icon:        "🔧",
		Description: "Sistema de chamados e atendimento técnico.",
	},
	{
		ID:          "canva-edu",
		Name:        "Canva for Education",
		URL:         "https://www.canva.com/education/",
		Icon:        "🎨",
		Description: "Ferramenta de design gráfico para professores.",
	},
	{
		ID:          "local-pc",
		Name:        "Login do Windows (PC)",
		URL:         "",
		Icon:        "🖥️",
		Description: "Senha utilizada para acessar os computadores da escola.",
	},
}

// SiteService serves the read-only site catalog.
type SiteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       SiteCache
	logger      logging.Logger
}

// NewSiteService constructs a SiteService. cache may be nil.
func NewSiteService(db *sql.DB, m repomanager.RepositoryManager, cache SiteCache, logger logging.Logger) *SiteService {
	return &SiteService{
		db:          db,
		repomanager: m,
		cache:       cache,
		logger:      logger.With("module", "sites"),
	}
}

// List returns every site ordered by name. Cache failures are logged and
// the database is used instead.
func (s *SiteService) List(ctx context.Context) ([]*models.Site, error) {
	if s.cache != nil {
		sites, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn(ctx, "site cache read failed", "error", err)
		} else if ok {
			return sites, nil
		}
	}

	sites, err := s.repomanager.Sites(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list sites: %v", common.ErrorInternal, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, sites); err != nil {
			s.logger.Warn(ctx, "site cache write failed", "error", err)
		}
	}

	return sites, nil
}

// Seed installs DefaultSites, skipping any whose id or normalized name is
// already present, and returns how many were added. Running it again is a
// no-op.
func (s *SiteService) Seed(ctx context.Context) (int, error) {
	return s.seed(ctx, DefaultSites)
}

func (s *SiteService) seed(ctx context.Context, catalog []models.Site) (int, error) {
	repo := s.repomanager.Sites(s.db)

	added := 0
	for i := range catalog {
		created, err := repo.CreateIfAbsent(ctx, &catalog[i])
		if err != nil {
			return added, fmt.Errorf("%w: seed site %s: %v", common.ErrorInternal, catalog[i].ID, err)
		}
		if created {
			added++
		}
	}

	if added > 0 && s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn(ctx, "site cache invalidation failed", "error", err)
		}
	}

	s.logger.Info(ctx, "site catalog seeded", "added", added, "total", len(catalog))
	return added, nil
}
