package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/maruel/ksid"

	"github.com/arborcms/arbor/internal/entity"
)

// MediaService handles image and document uploads and individual
// deletions. Cascading media removal lives with the tree mutations in
// [SectionService] and [PageService]; this service only deals with one
// row at a time.
type MediaService struct {
	store *Store
}

// NewMediaService creates a new media service.
func NewMediaService(store *Store) *MediaService {
	return &MediaService{store: store}
}

// UploadImage stores the image bytes and creates the row. The blob
// write happens first and is fatal on failure: a row must never point
// at bytes that were not stored.
func (s *MediaService) UploadImage(ctx context.Context, sectionID ksid.ID, filename string, data []byte) (*entity.Image, error) {
	if s.store.Sections.Get(sectionID) == nil {
		return nil, fmt.Errorf("section %s: %w", sectionID, ErrNotFound)
	}

	id := ksid.NewID()
	locator := "/uploads/" + id.String() + filepath.Ext(filename)
	if err := s.store.Blobs.Write(locator, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	img := &entity.Image{
		ID:        id,
		SectionID: sectionID,
		URL:       locator,
		AltText:   filename,
		Order:     0,
		Created:   time.Now(),
	}
	if err := s.store.Images.Append(img); err != nil {
		// Roll the blob back so it does not linger unreferenced.
		if derr := s.store.Blobs.Delete(locator); derr != nil {
			slog.WarnContext(ctx, "Failed to clean up blob after row insert failure", "locator", locator, "err", derr)
		}
		return nil, err
	}
	return img, nil
}

// DeleteImage removes the image row, then best-effort deletes its blob.
// The row goes first: a dangling row breaks the public site, an orphaned
// file does not.
func (s *MediaService) DeleteImage(ctx context.Context, id ksid.ID) error {
	img := s.store.Images.Get(id)
	if img == nil {
		return fmt.Errorf("image %s: %w", id, ErrNotFound)
	}
	if err := s.store.Images.Delete(id); err != nil {
		return err
	}
	if err := s.store.Blobs.Delete(img.URL); err != nil {
		slog.WarnContext(ctx, "Failed to delete image blob, leaving orphan", "locator", img.URL, "err", err)
	}
	return nil
}

// UploadDocument stores the document bytes and creates the row.
func (s *MediaService) UploadDocument(ctx context.Context, sectionID ksid.ID, filename string, data []byte) (*entity.Document, error) {
	if s.store.Sections.Get(sectionID) == nil {
		return nil, fmt.Errorf("section %s: %w", sectionID, ErrNotFound)
	}

	id := ksid.NewID()
	locator := "/uploads/" + id.String() + filepath.Ext(filename)
	if err := s.store.Blobs.Write(locator, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependency, err)
	}

	doc := &entity.Document{
		ID:        id,
		SectionID: sectionID,
		URL:       locator,
		Title:     filename,
		Filename:  filename,
		Size:      int64(len(data)),
		Created:   time.Now(),
	}
	if err := s.store.Documents.Append(doc); err != nil {
		if derr := s.store.Blobs.Delete(locator); derr != nil {
			slog.WarnContext(ctx, "Failed to clean up blob after row insert failure", "locator", locator, "err", derr)
		}
		return nil, err
	}
	return doc, nil
}

// UpdateDocument renames a document's display title.
func (s *MediaService) UpdateDocument(ctx context.Context, id ksid.ID, title string) (*entity.Document, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", ErrInvalidArgument)
	}
	doc := s.store.Documents.Get(id)
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	doc.Title = title
	if err := s.store.Documents.Update(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes the document row, then best-effort deletes its
// blob.
func (s *MediaService) DeleteDocument(ctx context.Context, id ksid.ID) error {
	doc := s.store.Documents.Get(id)
	if doc == nil {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err := s.store.Documents.Delete(id); err != nil {
		return err
	}
	if err := s.store.Blobs.Delete(doc.URL); err != nil {
		slog.WarnContext(ctx, "Failed to delete document blob, leaving orphan", "locator", doc.URL, "err", err)
	}
	return nil
}

// ReadBlob returns the stored bytes for a locator, for serving.
func (s *MediaService) ReadBlob(locator string) ([]byte, error) {
	return s.store.Blobs.Read(locator)
}
