package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/concerts/internal/server"
)

type SetupService struct {
	server *server.Server
}

func NewSetupService(s *server.Server) *SetupService {
	return &SetupService{server: s}
}

// Bootstrap creates the schema and, when seed is set, inserts the sample rows.
//
// Seeding is not idempotent: every call appends another copy.
func (s *SetupService) Bootstrap(ctx context.Context, seed bool) error {
	start := time.Now()

	if err := s.server.DB.CreateSchema(ctx); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if seed {
		if err := s.server.DB.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	s.server.Logger.Info().
		Bool("seeded", seed).
		Dur("duration", time.Since(start)).
		Msg("database bootstrapped")

	return nil
}
