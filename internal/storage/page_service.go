package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maruel/ksid"

	"github.com/arborcms/arbor/internal/entity"
)

// PageService handles page CRUD and the assembled read path.
type PageService struct {
	store *Store
}

// NewPageService creates a new page service.
func NewPageService(store *Store) *PageService {
	return &PageService{store: store}
}

// List returns all pages in creation order.
func (s *PageService) List(ctx context.Context) []*entity.Page {
	pages := []*entity.Page{}
	for p := range s.store.Pages.All() {
		pages = append(pages, p)
	}
	return pages
}

// Create creates a new page. The slug must be globally unique; a
// duplicate fails with ErrConflict.
func (s *PageService) Create(ctx context.Context, title, slug string) (*entity.Page, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidArgument)
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("slug is required: %w", ErrInvalidArgument)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if s.store.SlugTaken(slug) {
		return nil, fmt.Errorf("slug %q already in use: %w", slug, ErrConflict)
	}
	now := time.Now()
	page := &entity.Page{
		ID:       ksid.NewID(),
		Slug:     slug,
		Title:    title,
		Created:  now,
		Modified: now,
	}
	if err := s.store.Pages.Append(page); err != nil {
		return nil, err
	}
	return page, nil
}

// GetBySlug resolves a page by slug and returns it with its fully
// assembled section tree, each node carrying its ordered images and
// documents. Read-only and safe to call concurrently.
func (s *PageService) GetBySlug(ctx context.Context, slug string) (*entity.PageWithSections, error) {
	page := s.store.PageBySlug(slug)
	if page == nil {
		return nil, fmt.Errorf("page %q: %w", slug, ErrNotFound)
	}

	rows := s.store.SectionsByPage(page.ID)
	tree := BuildSectionTree(rows)
	WalkTree(tree, func(node *entity.SectionNode) {
		node.Images = s.store.ImagesBySection(node.ID)
		node.Documents = s.store.DocumentsBySection(node.ID)
	})

	return &entity.PageWithSections{Page: *page, Sections: tree}, nil
}

// Delete removes a page and cascades through every section it owns,
// at any depth, plus all of their media. Same phase discipline as
// section deletion: collect fully, best-effort blobs, then rows.
func (s *PageService) Delete(ctx context.Context, slug string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	page := s.store.PageBySlug(slug)
	if page == nil {
		return fmt.Errorf("page %q: %w", slug, ErrNotFound)
	}
	collected := s.store.collectPage(page.ID)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.store.purgeCollected(ctx, collected); err != nil {
		return err
	}
	return s.store.Pages.Delete(page.ID)
}
