package repository

import (
	"github.com/deppfellow/concerts/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Bands    *BandRepository
	Venues   *VenueRepository
	Concerts *ConcertRepository
}

// NewRepositories builds every repository on top of the server's database.
func NewRepositories(s *server.Server) *Repositories {
	return New(s.DB)
}

// New builds every repository on top of store.
func New(store Store) *Repositories {
	return &Repositories{
		Bands:    NewBandRepository(store),
		Venues:   NewVenueRepository(store),
		Concerts: NewConcertRepository(store),
	}
}
