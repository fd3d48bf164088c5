package service

import (
	"time"

	repository "github.com/okian/maison/internal/adapters/repository"
	"github.com/okian/maison/internal/config"
	"github.com/okian/maison/internal/domain/learning"
	"github.com/okian/maison/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig replaces the default configuration. The config is validated by New.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a match store instead of building one from the config.
// The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCatalog injects a module catalog instead of loading one from the config.
func WithCatalog(c *learning.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithClock sets the source of Match.ComputedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
