// Package handlers provides HTTP request handlers for the REST API.
//
// Each handler type wraps storage services, validates inputs, and returns
// standardized responses. Handlers accept request types from the dto
// package and delegate business logic to the storage package.
package handlers

import (
	"context"

	"github.com/arborcms/arbor/internal/server/dto"
)

// PageHandler handles page-related HTTP requests.
type PageHandler struct {
	Svc *Services
}

// ListPages returns all pages without their section trees.
func (h *PageHandler) ListPages(ctx context.Context, req *dto.ListPagesRequest) (*dto.ListPagesResponse, error) {
	pages := h.Svc.Page.List(ctx)
	out := make([]dto.Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageToDTO(p))
	}
	return &dto.ListPagesResponse{Pages: out}, nil
}

// CreatePage creates a new page with a unique slug.
func (h *PageHandler) CreatePage(ctx context.Context, req *dto.CreatePageRequest) (*dto.CreatePageResponse, error) {
	page, err := h.Svc.Page.Create(ctx, req.Title, req.Slug)
	if err != nil {
		return nil, storageError(err, "page")
	}
	return &dto.CreatePageResponse{Page: pageToDTO(page)}, nil
}

// GetPage returns a page by slug with its fully assembled section tree,
// each node carrying its ordered images and documents.
func (h *PageHandler) GetPage(ctx context.Context, req *dto.GetPageRequest) (*dto.GetPageResponse, error) {
	page, err := h.Svc.Page.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, storageError(err, "page")
	}
	return &dto.GetPageResponse{
		Page:     pageToDTO(&page.Page),
		Sections: nodesToDTO(page.Sections),
	}, nil
}

// DeletePage deletes a page and cascades through all of its sections and
// their media.
func (h *PageHandler) DeletePage(ctx context.Context, req *dto.DeletePageRequest) (*dto.DeletePageResponse, error) {
	if err := h.Svc.Page.Delete(ctx, req.Slug); err != nil {
		return nil, storageError(err, "page")
	}
	return &dto.DeletePageResponse{}, nil
}
