// Defines shared service dependencies for handlers.

package handlers

import (
	"github.com/arborcms/arbor/internal/storage"
)

// Services holds all service dependencies for handlers.
type Services struct {
	Page    *storage.PageService
	Section *storage.SectionService
	Media   *storage.MediaService
}

// NewServices builds the service bundle on top of a store.
func NewServices(store *storage.Store) *Services {
	return &Services{
		Page:    storage.NewPageService(store),
		Section: storage.NewSectionService(store),
		Media:   storage.NewMediaService(store),
	}
}

// Config holds configuration values needed by handlers.
type Config struct {
	Version             string
	MaxRequestBodyBytes int64
}
