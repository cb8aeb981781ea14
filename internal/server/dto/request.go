package dto

// --- Pages ---

// ListPagesRequest is a request to list all pages.
type ListPagesRequest struct{}

// Validate is a no-op for ListPagesRequest.
func (r *ListPagesRequest) Validate() error {
	return nil
}

// CreatePageRequest is a request to create a page.
type CreatePageRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Validate validates the create page request fields.
func (r *CreatePageRequest) Validate() error {
	if r.Title == "" {
		return MissingField("title")
	}
	if r.Slug == "" {
		return MissingField("slug")
	}
	return nil
}

// GetPageRequest is a request to get a page with its assembled section tree.
type GetPageRequest struct {
	Slug string `path:"slug"`
}

// Validate validates the get page request fields.
func (r *GetPageRequest) Validate() error {
	if r.Slug == "" {
		return MissingField("slug")
	}
	return nil
}

// DeletePageRequest is a request to delete a page and everything it owns.
type DeletePageRequest struct {
	Slug string `path:"slug"`
}

// Validate validates the delete page request fields.
func (r *DeletePageRequest) Validate() error {
	if r.Slug == "" {
		return MissingField("slug")
	}
	return nil
}

// --- Sections ---

// CreateSectionRequest is a request to create a section. An empty parentId
// creates a top-level section.
type CreateSectionRequest struct {
	PageID   string `json:"pageId"`
	ParentID string `json:"parentId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Order    int    `json:"order"`
}

// Validate validates the create section request fields.
func (r *CreateSectionRequest) Validate() error {
	if r.PageID == "" {
		return MissingField("pageId")
	}
	if r.Title == "" {
		return MissingField("title")
	}
	return nil
}

// UpdateSectionRequest is a partial update of a section. Nil fields are
// left untouched; at least one must be set.
type UpdateSectionRequest struct {
	ID      string  `path:"id"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Order   *int    `json:"order"`
}

// Validate validates the update section request fields.
func (r *UpdateSectionRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if r.Title == nil && r.Content == nil && r.Order == nil {
		return BadRequest("At least one of title, content, or order must be provided")
	}
	return nil
}

// DeleteSectionRequest is a request to delete a section and its subtree.
type DeleteSectionRequest struct {
	ID string `path:"id"`
}

// Validate validates the delete section request fields.
func (r *DeleteSectionRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// ReorderSectionsRequest rewrites the ordering of one sibling group in a
// single call. An empty parentId targets the page's top-level sections;
// a non-empty parentId targets that section's children and pageId may be
// omitted.
type ReorderSectionsRequest struct {
	PageID     string   `json:"pageId"`
	ParentID   string   `json:"parentId"`
	OrderedIDs []string `json:"orderedIds"`
}

// Validate validates the reorder request fields.
func (r *ReorderSectionsRequest) Validate() error {
	if r.PageID == "" && r.ParentID == "" {
		return MissingField("pageId")
	}
	return nil
}

// --- Media ---

// DeleteImageRequest is a request to delete a single image.
type DeleteImageRequest struct {
	ID string `path:"id"`
}

// Validate validates the delete image request fields.
func (r *DeleteImageRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// UpdateDocumentRequest is a request to rename a document's display title.
type UpdateDocumentRequest struct {
	ID    string `path:"id"`
	Title string `json:"title"`
}

// Validate validates the update document request fields.
func (r *UpdateDocumentRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if r.Title == "" {
		return MissingField("title")
	}
	return nil
}

// DeleteDocumentRequest is a request to delete a single document.
type DeleteDocumentRequest struct {
	ID string `path:"id"`
}

// Validate validates the delete document request fields.
func (r *DeleteDocumentRequest) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	return nil
}

// --- Health ---

// HealthRequest is a request for the health check endpoint.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}
