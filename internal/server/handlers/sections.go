package handlers

import (
	"context"

	"github.com/maruel/ksid"

	"github.com/arborcms/arbor/internal/server/dto"
)

// SectionHandler handles section-related HTTP requests.
type SectionHandler struct {
	Svc *Services
}

// CreateSection creates a new section under a page, optionally nested
// under an existing parent section of the same page.
func (h *SectionHandler) CreateSection(ctx context.Context, req *dto.CreateSectionRequest) (*dto.CreateSectionResponse, error) {
	pageID, err := ksid.Parse(req.PageID)
	if err != nil {
		return nil, dto.BadRequest("invalid_page_id")
	}
	var parentID ksid.ID
	if req.ParentID != "" {
		parentID, err = ksid.Parse(req.ParentID)
		if err != nil {
			return nil, dto.BadRequest("invalid_parent_id")
		}
	}
	section, err := h.Svc.Section.Create(ctx, pageID, parentID, req.Title, req.Content, req.Order)
	if err != nil {
		return nil, storageError(err, "section")
	}
	return &dto.CreateSectionResponse{Section: sectionToDTO(section)}, nil
}

// UpdateSection applies a partial update to a section's title, content,
// or order. It never moves a section between parents.
func (h *SectionHandler) UpdateSection(ctx context.Context, req *dto.UpdateSectionRequest) (*dto.UpdateSectionResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.BadRequest("invalid_section_id")
	}
	section, err := h.Svc.Section.Update(ctx, id, req.Title, req.Content, req.Order)
	if err != nil {
		return nil, storageError(err, "section")
	}
	return &dto.UpdateSectionResponse{Section: sectionToDTO(section)}, nil
}

// DeleteSection deletes a section, every descendant section, and all of
// their attached media.
func (h *SectionHandler) DeleteSection(ctx context.Context, req *dto.DeleteSectionRequest) (*dto.DeleteSectionResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.BadRequest("invalid_section_id")
	}
	if err := h.Svc.Section.Delete(ctx, id); err != nil {
		return nil, storageError(err, "section")
	}
	return &dto.DeleteSectionResponse{}, nil
}

// ReorderSections rewrites the ordering of one sibling group in a single
// call. The submitted ids must be exactly the group's current members.
func (h *SectionHandler) ReorderSections(ctx context.Context, req *dto.ReorderSectionsRequest) (*dto.ReorderSectionsResponse, error) {
	var pageID, parentID ksid.ID
	var err error
	if req.PageID != "" {
		pageID, err = ksid.Parse(req.PageID)
		if err != nil {
			return nil, dto.BadRequest("invalid_page_id")
		}
	}
	if req.ParentID != "" {
		parentID, err = ksid.Parse(req.ParentID)
		if err != nil {
			return nil, dto.BadRequest("invalid_parent_id")
		}
	}
	orderedIDs := make([]ksid.ID, 0, len(req.OrderedIDs))
	for _, raw := range req.OrderedIDs {
		id, err := ksid.Parse(raw)
		if err != nil {
			return nil, dto.BadRequest("invalid_section_id")
		}
		orderedIDs = append(orderedIDs, id)
	}
	if err := h.Svc.Section.Reorder(ctx, pageID, parentID, orderedIDs); err != nil {
		return nil, storageError(err, "section")
	}
	return &dto.ReorderSectionsResponse{}, nil
}
