// Package storage implements the content-tree engine: pages, sections,
// attached media, and the cascade/reorder logic over JSONL tables.
package storage

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/maruel/ksid"

	"github.com/arborcms/arbor/internal/entity"
	"github.com/arborcms/arbor/internal/jsonldb"
)

// Store owns the four tables, their secondary indexes, and the blob
// store. Composite mutations (cascade delete, reorder, slug-checked
// create) serialize on mu; plain reads go through the table locks.
type Store struct {
	mu sync.Mutex

	Pages     *jsonldb.Table[*entity.Page]
	Sections  *jsonldb.Table[*entity.Section]
	Images    *jsonldb.Table[*entity.Image]
	Documents *jsonldb.Table[*entity.Document]

	pagesBySlug     *jsonldb.UniqueIndex[string, *entity.Page]
	sectionsByPage  *jsonldb.Index[ksid.ID, *entity.Section]
	imagesBySection *jsonldb.Index[ksid.ID, *entity.Image]
	docsBySection   *jsonldb.Index[ksid.ID, *entity.Document]

	Blobs *BlobStore
}

// New opens (or creates) the store in dataDir.
func New(dataDir string) (*Store, error) {
	dbDir := filepath.Join(dataDir, "db")
	pages, err := jsonldb.NewTable[*entity.Page](filepath.Join(dbDir, "pages.jsonl"))
	if err != nil {
		return nil, err
	}
	sections, err := jsonldb.NewTable[*entity.Section](filepath.Join(dbDir, "sections.jsonl"))
	if err != nil {
		return nil, err
	}
	images, err := jsonldb.NewTable[*entity.Image](filepath.Join(dbDir, "images.jsonl"))
	if err != nil {
		return nil, err
	}
	documents, err := jsonldb.NewTable[*entity.Document](filepath.Join(dbDir, "documents.jsonl"))
	if err != nil {
		return nil, err
	}

	s := &Store{
		Pages:     pages,
		Sections:  sections,
		Images:    images,
		Documents: documents,
		Blobs:     NewBlobStore(filepath.Join(dataDir, "uploads")),
	}
	s.pagesBySlug = jsonldb.NewUniqueIndex(pages, func(p *entity.Page) string { return p.Slug })
	s.sectionsByPage = jsonldb.NewIndex(sections, func(sec *entity.Section) ksid.ID { return sec.PageID })
	s.imagesBySection = jsonldb.NewIndex(images, func(img *entity.Image) ksid.ID { return img.SectionID })
	s.docsBySection = jsonldb.NewIndex(documents, func(d *entity.Document) ksid.ID { return d.SectionID })
	return s, nil
}

// PageBySlug returns the page with the given slug, or nil.
func (s *Store) PageBySlug(slug string) *entity.Page {
	return s.pagesBySlug.Get(slug)
}

// SlugTaken reports whether a page already uses the given slug.
func (s *Store) SlugTaken(slug string) bool {
	return s.pagesBySlug.Has(slug)
}

// SectionsByPage returns every section of the page sorted ascending by
// order, ties broken by ID. This sorted read is the single ordering
// authority: tree assembly downstream only partitions, it never re-sorts.
func (s *Store) SectionsByPage(pageID ksid.ID) []*entity.Section {
	var rows []*entity.Section
	for row := range s.sectionsByPage.Iter(pageID) {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Order != rows[j].Order {
			return rows[i].Order < rows[j].Order
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	return rows
}

// ImagesBySection returns the section's images sorted by order, then ID.
func (s *Store) ImagesBySection(sectionID ksid.ID) []*entity.Image {
	rows := []*entity.Image{}
	for row := range s.imagesBySection.Iter(sectionID) {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Order != rows[j].Order {
			return rows[i].Order < rows[j].Order
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
	return rows
}

// DocumentsBySection returns the section's documents sorted by ID
// (IDs are time-ordered, so this is upload order).
func (s *Store) DocumentsBySection(sectionID ksid.ID) []*entity.Document {
	rows := []*entity.Document{}
	for row := range s.docsBySection.Iter(sectionID) {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ID.String() < rows[j].ID.String()
	})
	return rows
}
