// Package entity defines the core domain types: pages, sections, and
// the media rows attached to sections.
package entity

import (
	"time"

	"github.com/maruel/ksid"
)

// Page is a published page, addressed by its globally unique slug.
// A page owns zero or more top-level sections.
type Page struct {
	ID       ksid.ID   `json:"id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// Clone returns a copy of the Page.
func (p *Page) Clone() *Page {
	c := *p
	return &c
}

// GetID returns the Page's ID.
func (p *Page) GetID() ksid.ID {
	return p.ID
}

// Section is one node of a page's content tree.
//
// ParentID is zero for top-level sections. PageID is denormalized: every
// section carries the page it ultimately belongs to, regardless of depth.
// Order ranks a section within its sibling group; ties are broken by ID.
type Section struct {
	ID       ksid.ID   `json:"id"`
	PageID   ksid.ID   `json:"page_id"`
	ParentID ksid.ID   `json:"parent_id,omitempty"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Order    int       `json:"order"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// Clone returns a copy of the Section.
func (s *Section) Clone() *Section {
	c := *s
	return &c
}

// GetID returns the Section's ID.
func (s *Section) GetID() ksid.ID {
	return s.ID
}

// Image is an image attached to exactly one section.
// URL is the blob-store locator, not interpreted beyond that.
type Image struct {
	ID        ksid.ID   `json:"id"`
	SectionID ksid.ID   `json:"section_id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	Order     int       `json:"order"`
	Created   time.Time `json:"created"`
}

// Clone returns a copy of the Image.
func (i *Image) Clone() *Image {
	c := *i
	return &c
}

// GetID returns the Image's ID.
func (i *Image) GetID() ksid.ID {
	return i.ID
}

// Document is a file attachment owned by exactly one section.
type Document struct {
	ID        ksid.ID   `json:"id"`
	SectionID ksid.ID   `json:"section_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Created   time.Time `json:"created"`
}

// Clone returns a copy of the Document.
func (d *Document) Clone() *Document {
	c := *d
	return &c
}

// GetID returns the Document's ID.
func (d *Document) GetID() ksid.ID {
	return d.ID
}

// SectionNode is a section with its resolved children and media, as
// returned by the read path. The flat Section row stays untouched;
// nesting exists only in this view.
type SectionNode struct {
	Section
	Images    []*Image       `json:"images"`
	Documents []*Document    `json:"documents"`
	Children  []*SectionNode `json:"children"`
}

// PageWithSections is a page together with its assembled section tree.
type PageWithSections struct {
	Page
	Sections []*SectionNode `json:"sections"`
}
