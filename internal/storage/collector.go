package storage

import (
	"fmt"

	"github.com/maruel/ksid"

	"github.com/arborcms/arbor/internal/entity"
)

// CollectedSubtree is the result of a pure collection pass over a
// section subtree: everything a cascade delete must remove.
type CollectedSubtree struct {
	SectionIDs map[ksid.ID]struct{}
	Images     []*entity.Image
	Documents  []*entity.Document
}

// ImageIDs returns the IDs of all collected images as a set.
func (c *CollectedSubtree) ImageIDs() map[ksid.ID]struct{} {
	ids := make(map[ksid.ID]struct{}, len(c.Images))
	for _, img := range c.Images {
		ids[img.ID] = struct{}{}
	}
	return ids
}

// DocumentIDs returns the IDs of all collected documents as a set.
func (c *CollectedSubtree) DocumentIDs() map[ksid.ID]struct{} {
	ids := make(map[ksid.ID]struct{}, len(c.Documents))
	for _, d := range c.Documents {
		ids[d.ID] = struct{}{}
	}
	return ids
}

// CollectSubtree gathers the section rooted at rootID, every descendant
// at every depth, and all media attached to any of them.
//
// The walk is a single bulk fetch of the root's page followed by an
// iterative queue traversal over an in-memory adjacency map; it never
// issues per-level queries and never recurses, so depth and branching
// factor are unbounded and a corrupted cycle cannot hang it. The pass
// is side-effect free: callers run it to completion before anything
// destructive happens.
func (s *Store) CollectSubtree(rootID ksid.ID) (*CollectedSubtree, error) {
	root := s.Sections.Get(rootID)
	if root == nil {
		return nil, fmt.Errorf("section %s: %w", rootID, ErrNotFound)
	}

	// Every descendant shares the root's denormalized page reference,
	// so one page-scoped fetch covers the whole subtree.
	children := make(map[ksid.ID][]ksid.ID)
	for _, row := range s.SectionsByPage(root.PageID) {
		if !row.ParentID.IsZero() {
			children[row.ParentID] = append(children[row.ParentID], row.ID)
		}
	}

	collected := &CollectedSubtree{SectionIDs: make(map[ksid.ID]struct{})}
	queue := []ksid.ID{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if _, seen := collected.SectionIDs[id]; seen {
			continue
		}
		collected.SectionIDs[id] = struct{}{}
		collected.Images = append(collected.Images, s.ImagesBySection(id)...)
		collected.Documents = append(collected.Documents, s.DocumentsBySection(id)...)
		queue = append(queue, children[id]...)
	}
	return collected, nil
}

// collectPage gathers every section of a page and all attached media,
// for whole-page cascade deletion.
func (s *Store) collectPage(pageID ksid.ID) *CollectedSubtree {
	collected := &CollectedSubtree{SectionIDs: make(map[ksid.ID]struct{})}
	for _, row := range s.SectionsByPage(pageID) {
		collected.SectionIDs[row.ID] = struct{}{}
		collected.Images = append(collected.Images, s.ImagesBySection(row.ID)...)
		collected.Documents = append(collected.Documents, s.DocumentsBySection(row.ID)...)
	}
	return collected
}
