// Handles media upload, deletion, and raw file serving.

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/maruel/ksid"

	"github.com/arborcms/arbor/internal/server/dto"
)

func init() {
	// Register MIME types not in the standard library.
	for _, pair := range [][2]string{
		{".md", "text/markdown"},
		{".webp", "image/webp"},
	} {
		if err := mime.AddExtensionType(pair[0], pair[1]); err != nil {
			panic(err)
		}
	}
}

// MediaHandler handles image and document HTTP requests.
type MediaHandler struct {
	Svc *Services
	Cfg *Config
}

// readUploadForm parses a multipart upload form carrying a "file" part
// and a "sectionId" field. Returns false if an error was already written.
func (h *MediaHandler) readUploadForm(w http.ResponseWriter, r *http.Request) (ksid.ID, string, []byte, bool) {
	if err := r.ParseMultipartForm(h.Cfg.MaxRequestBodyBytes); err != nil {
		writeErrorResponse(w, dto.BadRequest("form_parse"))
		return 0, "", nil, false
	}
	sectionID, err := ksid.Parse(r.FormValue("sectionId"))
	if err != nil {
		writeErrorResponse(w, dto.BadRequest("invalid_section_id"))
		return 0, "", nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, dto.MissingField("file"))
		return 0, "", nil, false
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("Failed to close uploaded file", "error", err)
		}
	}()
	data, err := io.ReadAll(file)
	if err != nil {
		writeErrorResponse(w, dto.Internal("file_read"))
		return 0, "", nil, false
	}
	return sectionID, header.Filename, data, true
}

// UploadImageHandler handles image uploads (multipart/form-data).
// This is a raw http.HandlerFunc because it handles multipart forms.
func (h *MediaHandler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	sectionID, filename, data, ok := h.readUploadForm(w, r)
	if !ok {
		return
	}
	img, err := h.Svc.Media.UploadImage(r.Context(), sectionID, filename, data)
	if err != nil {
		writeErrorResponse(w, storageError(err, "section"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	resp := dto.UploadImageResponse{Image: imageToDTO(img)}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to write upload response", "error", err)
	}
}

// UploadDocumentHandler handles document uploads (multipart/form-data).
func (h *MediaHandler) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	sectionID, filename, data, ok := h.readUploadForm(w, r)
	if !ok {
		return
	}
	doc, err := h.Svc.Media.UploadDocument(r.Context(), sectionID, filename, data)
	if err != nil {
		writeErrorResponse(w, storageError(err, "section"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	resp := dto.UploadDocumentResponse{Document: documentToDTO(doc)}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to write upload response", "error", err)
	}
}

// DeleteImage deletes a single image row and its stored file.
func (h *MediaHandler) DeleteImage(ctx context.Context, req *dto.DeleteImageRequest) (*dto.DeleteImageResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.BadRequest("invalid_image_id")
	}
	if err := h.Svc.Media.DeleteImage(ctx, id); err != nil {
		return nil, storageError(err, "image")
	}
	return &dto.DeleteImageResponse{}, nil
}

// UpdateDocument renames a document's display title.
func (h *MediaHandler) UpdateDocument(ctx context.Context, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.BadRequest("invalid_document_id")
	}
	doc, err := h.Svc.Media.UpdateDocument(ctx, id, req.Title)
	if err != nil {
		return nil, storageError(err, "document")
	}
	return &dto.UpdateDocumentResponse{Document: documentToDTO(doc)}, nil
}

// DeleteDocument deletes a single document row and its stored file.
func (h *MediaHandler) DeleteDocument(ctx context.Context, req *dto.DeleteDocumentRequest) (*dto.DeleteDocumentResponse, error) {
	id, err := ksid.Parse(req.ID)
	if err != nil {
		return nil, dto.BadRequest("invalid_document_id")
	}
	if err := h.Svc.Media.DeleteDocument(ctx, id); err != nil {
		return nil, storageError(err, "document")
	}
	return &dto.DeleteDocumentResponse{}, nil
}

// ServeUpload serves the binary data of an uploaded file.
// This is a raw http.HandlerFunc for direct file serving.
func (h *MediaHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := h.Svc.Media.ReadBlob("/uploads/" + name)
	if err != nil {
		writeErrorResponse(w, dto.NotFound("file"))
		return
	}

	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write file data", "error", err, "name", name)
	}
}
