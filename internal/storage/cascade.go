package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// purgeCollected removes everything a completed collection pass found:
// first the underlying blobs, then the media rows, then the section
// rows.
//
// Blob deletion is best-effort: an unreachable blob store degrades to an
// orphaned file, which is strictly better than a dangling row pointing
// at missing bytes, so failures are logged and row deletion proceeds.
// Once row deletion starts it runs to completion regardless of ctx.
// Caller holds s.mu.
func (s *Store) purgeCollected(ctx context.Context, c *CollectedSubtree) error {
	for _, img := range c.Images {
		if err := s.Blobs.Delete(img.URL); err != nil {
			slog.WarnContext(ctx, "Failed to delete image blob, leaving orphan", "locator", img.URL, "err", err)
		}
	}
	for _, doc := range c.Documents {
		if err := s.Blobs.Delete(doc.URL); err != nil {
			slog.WarnContext(ctx, "Failed to delete document blob, leaving orphan", "locator", doc.URL, "err", err)
		}
	}

	var errs []error
	if ids := c.ImageIDs(); len(ids) > 0 {
		if err := s.Images.DeleteMany(ids); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete image rows: %w", err))
		}
	}
	if ids := c.DocumentIDs(); len(ids) > 0 {
		if err := s.Documents.DeleteMany(ids); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete document rows: %w", err))
		}
	}
	if len(c.SectionIDs) > 0 {
		if err := s.Sections.DeleteMany(c.SectionIDs); err != nil {
			errs = append(errs, fmt.Errorf("failed to delete section rows: %w", err))
		}
	}
	return errors.Join(errs...)
}
