package dto

import "time"

// Page is the wire representation of a page.
type Page struct {
	ID       string    `json:"id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// Section is the flat wire representation of a section row.
type Section struct {
	ID       string    `json:"id"`
	PageID   string    `json:"pageId"`
	ParentID string    `json:"parentId,omitempty"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Order    int       `json:"order"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// SectionNode is a section with its media and nested children, as served
// on the assembled page read path.
type SectionNode struct {
	Section
	Images    []Image       `json:"images"`
	Documents []Document    `json:"documents"`
	Children  []SectionNode `json:"children"`
}

// Image is the wire representation of an image attachment.
type Image struct {
	ID        string    `json:"id"`
	SectionID string    `json:"sectionId"`
	URL       string    `json:"url"`
	AltText   string    `json:"altText"`
	Caption   string    `json:"caption,omitempty"`
	Order     int       `json:"order"`
	Created   time.Time `json:"created"`
}

// Document is the wire representation of a document attachment.
type Document struct {
	ID        string    `json:"id"`
	SectionID string    `json:"sectionId"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	Created   time.Time `json:"created"`
}

// ListPagesResponse lists all pages.
type ListPagesResponse struct {
	Pages []Page `json:"pages"`
}

// CreatePageResponse is the response to a page creation.
type CreatePageResponse struct {
	Page Page `json:"page"`
}

// GetPageResponse is a page with its fully assembled section tree.
type GetPageResponse struct {
	Page     Page          `json:"page"`
	Sections []SectionNode `json:"sections"`
}

// DeletePageResponse is the response to a page deletion.
type DeletePageResponse struct{}

// CreateSectionResponse is the response to a section creation.
type CreateSectionResponse struct {
	Section Section `json:"section"`
}

// UpdateSectionResponse is the response to a section update.
type UpdateSectionResponse struct {
	Section Section `json:"section"`
}

// DeleteSectionResponse is the response to a section deletion.
type DeleteSectionResponse struct{}

// ReorderSectionsResponse is the response to a sibling group reorder.
type ReorderSectionsResponse struct{}

// UploadImageResponse is the response to an image upload.
type UploadImageResponse struct {
	Image Image `json:"image"`
}

// DeleteImageResponse is the response to an image deletion.
type DeleteImageResponse struct{}

// UploadDocumentResponse is the response to a document upload.
type UploadDocumentResponse struct {
	Document Document `json:"document"`
}

// UpdateDocumentResponse is the response to a document title update.
type UpdateDocumentResponse struct {
	Document Document `json:"document"`
}

// DeleteDocumentResponse is the response to a document deletion.
type DeleteDocumentResponse struct{}

// HealthResponse reports server liveness and build version.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
