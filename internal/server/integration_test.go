package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arborcms/arbor/internal/server/handlers"
	"github.com/arborcms/arbor/internal/server/ratelimit"
	"github.com/arborcms/arbor/internal/storage"
)

// newTestRouter builds a full router over a fresh store in a temp dir.
// Rate limits are set high enough to never interfere.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New failed: %v", err)
	}
	svc := handlers.NewServices(store)
	cfg := &handlers.Config{Version: "test", MaxRequestBodyBytes: 1 << 20}
	limits := ratelimit.NewConfig(100000, 1000000)
	t.Cleanup(limits.Close)
	return NewRouter(svc, cfg, limits)
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response into a generic map.
func doJSON(t *testing.T, h http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	out := map[string]any{}
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal response %q: %v", rr.Body.String(), err)
		}
	}
	return rr.Code, out
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)
	code, body := doJSON(t, h, "GET", "/api/health", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestPageLifecycle(t *testing.T) {
	h := newTestRouter(t)

	// Create.
	code, body := doJSON(t, h, "POST", "/api/pages", map[string]any{"title": "About Us", "slug": "about"})
	if code != http.StatusOK {
		t.Fatalf("create status = %d, body = %v", code, body)
	}
	page := body["page"].(map[string]any)
	if page["slug"] != "about" {
		t.Errorf("slug = %v, want about", page["slug"])
	}

	// Duplicate slug conflicts.
	code, body = doJSON(t, h, "POST", "/api/pages", map[string]any{"title": "Other", "slug": "about"})
	if code != http.StatusConflict {
		t.Errorf("duplicate slug status = %d, want 409; body = %v", code, body)
	}

	// Missing title rejected.
	code, _ = doJSON(t, h, "POST", "/api/pages", map[string]any{"slug": "x"})
	if code != http.StatusBadRequest {
		t.Errorf("missing title status = %d, want 400", code)
	}

	// List.
	code, body = doJSON(t, h, "GET", "/api/pages", nil)
	if code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	if pages := body["pages"].([]any); len(pages) != 1 {
		t.Errorf("list has %d pages, want 1", len(pages))
	}

	// Get by slug.
	code, body = doJSON(t, h, "GET", "/api/pages/about", nil)
	if code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if sections := body["sections"].([]any); len(sections) != 0 {
		t.Errorf("new page has %d sections, want 0", len(sections))
	}

	// Unknown page 404s.
	code, _ = doJSON(t, h, "GET", "/api/pages/ghost", nil)
	if code != http.StatusNotFound {
		t.Errorf("get missing status = %d, want 404", code)
	}

	// Delete, then the slug is gone.
	code, _ = doJSON(t, h, "DELETE", "/api/pages/about", nil)
	if code != http.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	code, _ = doJSON(t, h, "GET", "/api/pages/about", nil)
	if code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", code)
	}
}

// createPage is a helper that creates a page and returns its id.
func createPage(t *testing.T, h http.Handler, title, slug string) string {
	t.Helper()
	code, body := doJSON(t, h, "POST", "/api/pages", map[string]any{"title": title, "slug": slug})
	if code != http.StatusOK {
		t.Fatalf("create page status = %d, body = %v", code, body)
	}
	return body["page"].(map[string]any)["id"].(string)
}

// createSection is a helper that creates a section and returns its id.
func createSection(t *testing.T, h http.Handler, pageID, parentID, title string, order int) string {
	t.Helper()
	req := map[string]any{"pageId": pageID, "title": title, "content": title + " body", "order": order}
	if parentID != "" {
		req["parentId"] = parentID
	}
	code, body := doJSON(t, h, "POST", "/api/sections", req)
	if code != http.StatusOK {
		t.Fatalf("create section status = %d, body = %v", code, body)
	}
	return body["section"].(map[string]any)["id"].(string)
}

func TestSectionTreeAssembly(t *testing.T) {
	h := newTestRouter(t)
	pageID := createPage(t, h, "Docs", "docs")

	a := createSection(t, h, pageID, "", "A", 0)
	a1 := createSection(t, h, pageID, a, "A1", 0)
	createSection(t, h, pageID, a, "A2", 1)
	b := createSection(t, h, pageID, "", "B", 1)

	code, body := doJSON(t, h, "GET", "/api/pages/docs", nil)
	if code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	sections := body["sections"].([]any)
	if len(sections) != 2 {
		t.Fatalf("top level has %d sections, want 2", len(sections))
	}
	top := sections[0].(map[string]any)
	if top["id"] != a {
		t.Errorf("first top section = %v, want %s", top["id"], a)
	}
	children := top["children"].([]any)
	if len(children) != 2 || children[0].(map[string]any)["id"] != a1 {
		t.Errorf("A children wrong: %v", children)
	}
	second := sections[1].(map[string]any)
	if second["id"] != b {
		t.Errorf("second top section = %v, want %s", second["id"], b)
	}
	// Arrays, not nulls.
	if second["images"] == nil || second["documents"] == nil || second["children"] == nil {
		t.Error("media/children must serialize as arrays")
	}
}

func TestSectionUpdateAndDelete(t *testing.T) {
	h := newTestRouter(t)
	pageID := createPage(t, h, "Docs", "docs")
	a := createSection(t, h, pageID, "", "A", 0)
	createSection(t, h, pageID, a, "A1", 0)
	b := createSection(t, h, pageID, "", "B", 1)

	// Partial update.
	code, body := doJSON(t, h, "PUT", "/api/sections/"+a, map[string]any{"title": "A renamed"})
	if code != http.StatusOK {
		t.Fatalf("update status = %d, body = %v", code, body)
	}
	section := body["section"].(map[string]any)
	if section["title"] != "A renamed" {
		t.Errorf("title = %v", section["title"])
	}
	if section["content"] != "A body" {
		t.Errorf("content = %v, want untouched", section["content"])
	}

	// Empty update rejected.
	code, _ = doJSON(t, h, "PUT", "/api/sections/"+a, map[string]any{})
	if code != http.StatusBadRequest {
		t.Errorf("empty update status = %d, want 400", code)
	}

	// Cascade delete of A removes A1 too.
	code, _ = doJSON(t, h, "DELETE", "/api/sections/"+a, nil)
	if code != http.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	_, body = doJSON(t, h, "GET", "/api/pages/docs", nil)
	sections := body["sections"].([]any)
	if len(sections) != 1 || sections[0].(map[string]any)["id"] != b {
		t.Errorf("after cascade, sections = %v, want only %s", sections, b)
	}

	// Deleting again 404s.
	code, _ = doJSON(t, h, "DELETE", "/api/sections/"+a, nil)
	if code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", code)
	}
}

func TestSectionReorderEndpoint(t *testing.T) {
	h := newTestRouter(t)
	pageID := createPage(t, h, "Docs", "docs")
	a := createSection(t, h, pageID, "", "A", 0)
	b := createSection(t, h, pageID, "", "B", 1)
	c := createSection(t, h, pageID, "", "C", 2)

	code, body := doJSON(t, h, "PUT", "/api/sections/reorder", map[string]any{
		"pageId":     pageID,
		"orderedIds": []string{c, a, b},
	})
	if code != http.StatusOK {
		t.Fatalf("reorder status = %d, body = %v", code, body)
	}

	_, body = doJSON(t, h, "GET", "/api/pages/docs", nil)
	sections := body["sections"].([]any)
	want := []string{c, a, b}
	for i, s := range sections {
		if s.(map[string]any)["id"] != want[i] {
			t.Errorf("sections[%d] = %v, want %s", i, s.(map[string]any)["id"], want[i])
		}
	}

	// Incomplete set is rejected and order stays.
	code, _ = doJSON(t, h, "PUT", "/api/sections/reorder", map[string]any{
		"pageId":     pageID,
		"orderedIds": []string{a},
	})
	if code != http.StatusBadRequest {
		t.Errorf("incomplete reorder status = %d, want 400", code)
	}
	_, body = doJSON(t, h, "GET", "/api/pages/docs", nil)
	if got := body["sections"].([]any)[0].(map[string]any)["id"]; got != c {
		t.Errorf("order changed after rejected reorder: first = %v", got)
	}
}

// uploadFile posts a multipart form with a file and sectionId field.
func uploadFile(t *testing.T, h http.Handler, path, sectionID, filename string, data []byte) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("sectionId", sectionID); err != nil {
		t.Fatal(err)
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	out := map[string]any{}
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal response %q: %v", rr.Body.String(), err)
		}
	}
	return rr.Code, out
}

func TestImageUploadServeDelete(t *testing.T) {
	h := newTestRouter(t)
	pageID := createPage(t, h, "Gallery", "gallery")
	sectionID := createSection(t, h, pageID, "", "Photos", 0)

	data := []byte("not really a png")
	code, body := uploadFile(t, h, "/api/images", sectionID, "cat.png", data)
	if code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %v", code, body)
	}
	img := body["image"].(map[string]any)
	url := img["url"].(string)
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q", url)
	}
	if img["altText"] != "cat.png" {
		t.Errorf("altText = %v, want original filename", img["altText"])
	}

	// Serve the raw bytes back.
	req := httptest.NewRequest("GET", url, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("serve status = %d", rr.Code)
	}
	if !bytes.Equal(rr.Body.Bytes(), data) {
		t.Error("served bytes differ from upload")
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "image/png") {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	// Delete removes row and file.
	code, _ = doJSON(t, h, "DELETE", "/api/images/"+img["id"].(string), nil)
	if code != http.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", url, nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("serve after delete status = %d, want 404", rr.Code)
	}
}

func TestDocumentUploadUpdateDelete(t *testing.T) {
	h := newTestRouter(t)
	pageID := createPage(t, h, "Files", "files")
	sectionID := createSection(t, h, pageID, "", "Downloads", 0)

	code, body := uploadFile(t, h, "/api/documents", sectionID, "manual.pdf", []byte("%PDF"))
	if code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %v", code, body)
	}
	doc := body["document"].(map[string]any)
	if doc["title"] != "manual.pdf" || doc["filename"] != "manual.pdf" {
		t.Errorf("title/filename = %v/%v", doc["title"], doc["filename"])
	}
	if doc["size"] != float64(4) {
		t.Errorf("size = %v, want 4", doc["size"])
	}
	id := doc["id"].(string)

	code, body = doJSON(t, h, "PUT", "/api/documents/"+id, map[string]any{"title": "User Manual"})
	if code != http.StatusOK {
		t.Fatalf("update status = %d, body = %v", code, body)
	}
	if got := body["document"].(map[string]any)["title"]; got != "User Manual" {
		t.Errorf("title = %v", got)
	}

	code, _ = doJSON(t, h, "DELETE", "/api/documents/"+id, nil)
	if code != http.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	code, _ = doJSON(t, h, "DELETE", "/api/documents/"+id, nil)
	if code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", code)
	}
}

func TestUploadToMissingSection(t *testing.T) {
	h := newTestRouter(t)
	// Valid-looking but nonexistent section id: use a real page id.
	pageID := createPage(t, h, "P", "p")
	code, _ := uploadFile(t, h, "/api/images", pageID, "x.png", []byte("x"))
	if code != http.StatusNotFound {
		t.Errorf("upload to missing section status = %d, want 404", code)
	}
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	h := newTestRouter(t)
	code, _ := doJSON(t, h, "POST", "/api/pages", map[string]any{"title": "T", "slug": "s", "bogus": true})
	if code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", code)
	}
}

func TestRateLimitEnforced(t *testing.T) {
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := handlers.NewServices(store)
	cfg := &handlers.Config{Version: "test", MaxRequestBodyBytes: 1 << 20}
	// One write per minute, burst one.
	limits := ratelimit.NewConfig(1, 100000)
	defer limits.Close()
	h := NewRouter(svc, cfg, limits)

	post := func(slug string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]any{"title": "T", "slug": slug})
		req := httptest.NewRequest("POST", "/api/pages", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "10.0.0.1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	first := post("one")
	if first.Code != http.StatusOK {
		t.Fatalf("first write status = %d", first.Code)
	}
	if first.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("rate limit headers missing on allowed response")
	}

	second := post("two")
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second write status = %d, want 429", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing on 429")
	}

	// Another client is not affected.
	body, _ := json.Marshal(map[string]any{"title": "T", "slug": "three"})
	req := httptest.NewRequest("POST", "/api/pages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "10.0.0.2")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rr.Code)
	}
}

func TestBodySizeLimit(t *testing.T) {
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := handlers.NewServices(store)
	cfg := &handlers.Config{Version: "test", MaxRequestBodyBytes: 64}
	limits := ratelimit.NewConfig(100000, 1000000)
	defer limits.Close()
	h := NewRouter(svc, cfg, limits)

	big := fmt.Sprintf(`{"title": %q, "slug": "big"}`, strings.Repeat("x", 200))
	req := httptest.NewRequest("POST", "/api/pages", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body status = %d, want 413", rr.Code)
	}
}
