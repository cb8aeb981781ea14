package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/maruel/ksid"

	"github.com/arborcms/arbor/internal/entity"
)

// SectionService handles structural mutations of the section tree:
// create, partial update, cascading delete, and sibling reordering.
type SectionService struct {
	store *Store
}

// NewSectionService creates a new section service.
func NewSectionService(store *Store) *SectionService {
	return &SectionService{store: store}
}

// Create inserts a new section under the given page, optionally nested
// under parentID. The caller supplies the intended order; siblings are
// not renumbered. A child is only ever created by nominating an existing
// section of the same page as parent, which is what keeps the tree
// acyclic by construction.
func (s *SectionService) Create(ctx context.Context, pageID, parentID ksid.ID, title, content string, order int) (*entity.Section, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidArgument)
	}
	if s.store.Pages.Get(pageID) == nil {
		return nil, fmt.Errorf("page %s: %w", pageID, ErrNotFound)
	}
	if !parentID.IsZero() {
		parent := s.store.Sections.Get(parentID)
		if parent == nil || parent.PageID != pageID {
			return nil, fmt.Errorf("parent section %s: %w", parentID, ErrNotFound)
		}
	}

	now := time.Now()
	section := &entity.Section{
		ID:       ksid.NewID(),
		PageID:   pageID,
		ParentID: parentID,
		Title:    title,
		Content:  content,
		Order:    order,
		Created:  now,
		Modified: now,
	}
	if err := s.store.Sections.Append(section); err != nil {
		return nil, err
	}
	return section, nil
}

// Update applies a partial update to title, content, or order. At least
// one field must be set. Update never moves a section between parents.
func (s *SectionService) Update(ctx context.Context, id ksid.ID, title, content *string, order *int) (*entity.Section, error) {
	if title == nil && content == nil && order == nil {
		return nil, fmt.Errorf("at least one of title, content, or order must be provided: %w", ErrInvalidArgument)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	section := s.store.Sections.Get(id)
	if section == nil {
		return nil, fmt.Errorf("section %s: %w", id, ErrNotFound)
	}
	if title != nil {
		section.Title = *title
	}
	if content != nil {
		section.Content = *content
	}
	if order != nil {
		section.Order = *order
	}
	section.Modified = time.Now()
	if err := s.store.Sections.Update(section); err != nil {
		return nil, err
	}
	return section, nil
}

// Delete removes the section and its entire subtree: every descendant
// section plus all attached images and documents.
//
// The operation runs in three phases: a pure collection pass that must
// fully succeed first, best-effort blob cleanup, then row deletion for
// the whole collected set. Deleting an already-deleted id fails with
// ErrNotFound.
func (s *SectionService) Delete(ctx context.Context, id ksid.ID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	collected, err := s.store.CollectSubtree(id)
	if err != nil {
		return err
	}
	// Last chance to abort before anything destructive.
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.purgeCollected(ctx, collected)
}

// Reorder rewrites the order values of one sibling group. parentID zero
// means the page's top-level sections. orderedIDs must be exactly the
// current members of the group, in the desired order; anything else
// fails with ErrInvalidArgument and leaves the stored order untouched.
// The new ranking is the 0-based position, persisted as one table
// rewrite.
func (s *SectionService) Reorder(ctx context.Context, pageID, parentID ksid.ID, orderedIDs []ksid.ID) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if !parentID.IsZero() {
		parent := s.store.Sections.Get(parentID)
		if parent == nil {
			return fmt.Errorf("parent section %s: %w", parentID, ErrNotFound)
		}
		pageID = parent.PageID
	} else if s.store.Pages.Get(pageID) == nil {
		return fmt.Errorf("page %s: %w", pageID, ErrNotFound)
	}

	group := make(map[ksid.ID]struct{})
	for _, row := range s.store.SectionsByPage(pageID) {
		if row.ParentID == parentID {
			group[row.ID] = struct{}{}
		}
	}

	if len(orderedIDs) != len(group) {
		return fmt.Errorf("reorder set has %d ids, sibling group has %d: %w", len(orderedIDs), len(group), ErrInvalidArgument)
	}
	position := make(map[ksid.ID]int, len(orderedIDs))
	for i, id := range orderedIDs {
		if _, dup := position[id]; dup {
			return fmt.Errorf("duplicate id %s in reorder set: %w", id, ErrInvalidArgument)
		}
		if _, ok := group[id]; !ok {
			return fmt.Errorf("id %s is not part of the sibling group: %w", id, ErrInvalidArgument)
		}
		position[id] = i
	}

	now := time.Now()
	rows := []*entity.Section{}
	for row := range s.store.Sections.All() {
		if pos, ok := position[row.ID]; ok {
			row.Order = pos
			row.Modified = now
		}
		rows = append(rows, row)
	}
	return s.store.Sections.Replace(rows)
}
