// Converts entity types to their dto wire representations.

package handlers

import (
	"github.com/arborcms/arbor/internal/entity"
	"github.com/arborcms/arbor/internal/server/dto"
)

func pageToDTO(p *entity.Page) dto.Page {
	return dto.Page{
		ID:       p.ID.String(),
		Slug:     p.Slug,
		Title:    p.Title,
		Created:  p.Created,
		Modified: p.Modified,
	}
}

func sectionToDTO(s *entity.Section) dto.Section {
	out := dto.Section{
		ID:       s.ID.String(),
		PageID:   s.PageID.String(),
		Title:    s.Title,
		Content:  s.Content,
		Order:    s.Order,
		Created:  s.Created,
		Modified: s.Modified,
	}
	if !s.ParentID.IsZero() {
		out.ParentID = s.ParentID.String()
	}
	return out
}

func imageToDTO(img *entity.Image) dto.Image {
	return dto.Image{
		ID:        img.ID.String(),
		SectionID: img.SectionID.String(),
		URL:       img.URL,
		AltText:   img.AltText,
		Caption:   img.Caption,
		Order:     img.Order,
		Created:   img.Created,
	}
}

func documentToDTO(doc *entity.Document) dto.Document {
	return dto.Document{
		ID:        doc.ID.String(),
		SectionID: doc.SectionID.String(),
		URL:       doc.URL,
		Title:     doc.Title,
		Filename:  doc.Filename,
		Size:      doc.Size,
		Created:   doc.Created,
	}
}

// nodesToDTO converts an assembled section tree. Slices stay non-nil so
// the JSON always carries arrays, never null.
func nodesToDTO(nodes []*entity.SectionNode) []dto.SectionNode {
	out := make([]dto.SectionNode, 0, len(nodes))
	for _, n := range nodes {
		node := dto.SectionNode{
			Section:   sectionToDTO(&n.Section),
			Images:    make([]dto.Image, 0, len(n.Images)),
			Documents: make([]dto.Document, 0, len(n.Documents)),
			Children:  nodesToDTO(n.Children),
		}
		for _, img := range n.Images {
			node.Images = append(node.Images, imageToDTO(img))
		}
		for _, doc := range n.Documents {
			node.Documents = append(node.Documents, documentToDTO(doc))
		}
		out = append(out, node)
	}
	return out
}
