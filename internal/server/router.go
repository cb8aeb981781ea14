// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/arborcms/arbor/internal/server/handlers"
	"github.com/arborcms/arbor/internal/server/ratelimit"
)

// NewRouter creates and configures the HTTP router. API endpoints live
// under /api/*, uploaded files are served from /uploads/*.
func NewRouter(svc *handlers.Services, cfg *handlers.Config, limits *ratelimit.Config) http.Handler {
	mux := &http.ServeMux{}
	ph := &handlers.PageHandler{Svc: svc}
	sh := &handlers.SectionHandler{Svc: svc}
	mh := &handlers.MediaHandler{Svc: svc, Cfg: cfg}
	hh := &handlers.HealthHandler{Version: cfg.Version}

	// Health check
	mux.Handle("GET /api/health", Wrap(hh.Health, cfg, limits))

	// Pages endpoints
	mux.Handle("GET /api/pages", Wrap(ph.ListPages, cfg, limits))
	mux.Handle("POST /api/pages", Wrap(ph.CreatePage, cfg, limits))
	mux.Handle("GET /api/pages/{slug}", Wrap(ph.GetPage, cfg, limits))
	mux.Handle("DELETE /api/pages/{slug}", Wrap(ph.DeletePage, cfg, limits))

	// Sections endpoints. The reorder route is a literal and takes
	// precedence over the {id} wildcard.
	mux.Handle("POST /api/sections", Wrap(sh.CreateSection, cfg, limits))
	mux.Handle("PUT /api/sections/reorder", Wrap(sh.ReorderSections, cfg, limits))
	mux.Handle("PUT /api/sections/{id}", Wrap(sh.UpdateSection, cfg, limits))
	mux.Handle("DELETE /api/sections/{id}", Wrap(sh.DeleteSection, cfg, limits))

	// Media endpoints (uploads are multipart/form-data, so raw handlers)
	mux.Handle("POST /api/images", WrapRaw(mh.UploadImageHandler, cfg, limits))
	mux.Handle("DELETE /api/images/{id}", Wrap(mh.DeleteImage, cfg, limits))
	mux.Handle("POST /api/documents", WrapRaw(mh.UploadDocumentHandler, cfg, limits))
	mux.Handle("PUT /api/documents/{id}", Wrap(mh.UpdateDocument, cfg, limits))
	mux.Handle("DELETE /api/documents/{id}", Wrap(mh.DeleteDocument, cfg, limits))

	// File serving (raw uploaded files)
	mux.Handle("GET /uploads/{name}", WrapRaw(mh.ServeUpload, cfg, limits))

	return mux
}
