package storage

import (
	"context"
	"testing"

	"github.com/maruel/ksid"

	"github.com/arborcms/arbor/internal/entity"
)

// newTestStore creates a store in the test's temp directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return store
}

// mustCreatePage creates a page or fails the test.
func mustCreatePage(t *testing.T, store *Store, title, slug string) *entity.Page {
	t.Helper()
	page, err := NewPageService(store).Create(context.Background(), title, slug)
	if err != nil {
		t.Fatalf("Create page %q failed: %v", slug, err)
	}
	return page
}

// mustCreateSection creates a section or fails the test.
func mustCreateSection(t *testing.T, store *Store, pageID, parentID ksid.ID, title string, order int) *entity.Section {
	t.Helper()
	section, err := NewSectionService(store).Create(context.Background(), pageID, parentID, title, "", order)
	if err != nil {
		t.Fatalf("Create section %q failed: %v", title, err)
	}
	return section
}

func TestSectionsByPageOrdering(t *testing.T) {
	store := newTestStore(t)
	page := mustCreatePage(t, store, "Home", "home")

	// Created out of order on purpose.
	c := mustCreateSection(t, store, page.ID, 0, "c", 2)
	a := mustCreateSection(t, store, page.ID, 0, "a", 0)
	b := mustCreateSection(t, store, page.ID, 0, "b", 1)

	rows := store.SectionsByPage(page.ID)
	if len(rows) != 3 {
		t.Fatalf("SectionsByPage returned %d rows, want 3", len(rows))
	}
	want := []ksid.ID{a.ID, b.ID, c.ID}
	for i, row := range rows {
		if row.ID != want[i] {
			t.Errorf("rows[%d].ID = %s, want %s", i, row.ID, want[i])
		}
	}
}

func TestSectionsByPageOrderTieBrokenByID(t *testing.T) {
	store := newTestStore(t)
	page := mustCreatePage(t, store, "Home", "home")

	// Same order value: creation order wins because IDs are time-sorted.
	first := mustCreateSection(t, store, page.ID, 0, "first", 5)
	second := mustCreateSection(t, store, page.ID, 0, "second", 5)

	rows := store.SectionsByPage(page.ID)
	if len(rows) != 2 {
		t.Fatalf("SectionsByPage returned %d rows, want 2", len(rows))
	}
	if rows[0].ID != first.ID || rows[1].ID != second.ID {
		t.Errorf("tie order = [%s %s], want [%s %s]", rows[0].ID, rows[1].ID, first.ID, second.ID)
	}
}

func TestPageBySlug(t *testing.T) {
	store := newTestStore(t)
	page := mustCreatePage(t, store, "About", "about")

	if got := store.PageBySlug("about"); got == nil || got.ID != page.ID {
		t.Errorf("PageBySlug(about) = %+v, want ID=%s", got, page.ID)
	}
	if got := store.PageBySlug("missing"); got != nil {
		t.Errorf("PageBySlug(missing) = %+v, want nil", got)
	}
	if !store.SlugTaken("about") {
		t.Error("SlugTaken(about) = false, want true")
	}
}
