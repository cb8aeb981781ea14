package jsonldb

import (
	"path/filepath"
	"testing"

	"github.com/maruel/ksid"
)

// keyedRow carries a secondary key for index tests.
type keyedRow struct {
	ID  ksid.ID `json:"id"`
	Key string  `json:"key"`
}

func (r *keyedRow) Clone() *keyedRow {
	c := *r
	return &c
}

func (r *keyedRow) GetID() ksid.ID {
	return r.ID
}

func setupKeyedTable(t *testing.T) *Table[*keyedRow] {
	t.Helper()
	table, err := NewTable[*keyedRow](filepath.Join(t.TempDir(), "keyed.jsonl"))
	if err != nil {
		t.Fatalf("NewTable failed: %v", err)
	}
	return table
}

func TestUniqueIndex(t *testing.T) {
	table := setupKeyedTable(t)

	// Pre-existing rows are indexed at construction.
	pre := ksid.NewID()
	table.Append(&keyedRow{ID: pre, Key: "pre"})
	idx := NewUniqueIndex(table, func(r *keyedRow) string { return r.Key })
	if got := idx.Get("pre"); got == nil || got.ID != pre {
		t.Errorf("Get(pre) = %+v, want ID=%s", got, pre)
	}

	id := ksid.NewID()
	table.Append(&keyedRow{ID: id, Key: "alpha"})
	if !idx.Has("alpha") {
		t.Error("Has(alpha) = false after append")
	}
	if got := idx.Get("alpha"); got == nil || got.ID != id {
		t.Errorf("Get(alpha) = %+v, want ID=%s", got, id)
	}

	// Key change on update moves the entry.
	table.Update(&keyedRow{ID: id, Key: "beta"})
	if idx.Has("alpha") {
		t.Error("Has(alpha) = true after key change")
	}
	if got := idx.Get("beta"); got == nil || got.ID != id {
		t.Errorf("Get(beta) = %+v, want ID=%s", got, id)
	}

	table.Delete(id)
	if idx.Has("beta") {
		t.Error("Has(beta) = true after delete")
	}
	if got := idx.Get("beta"); got != nil {
		t.Errorf("Get(beta) = %+v, want nil", got)
	}
}

func TestIndex(t *testing.T) {
	table := setupKeyedTable(t)
	idx := NewIndex(table, func(r *keyedRow) string { return r.Key })

	a1, a2, b1 := ksid.NewID(), ksid.NewID(), ksid.NewID()
	table.Append(&keyedRow{ID: a1, Key: "a"})
	table.Append(&keyedRow{ID: a2, Key: "a"})
	table.Append(&keyedRow{ID: b1, Key: "b"})

	count := func(key string) int {
		n := 0
		for range idx.Iter(key) {
			n++
		}
		return n
	}

	if got := count("a"); got != 2 {
		t.Errorf("Iter(a) yielded %d rows, want 2", got)
	}
	if got := count("b"); got != 1 {
		t.Errorf("Iter(b) yielded %d rows, want 1", got)
	}
	if got := count("missing"); got != 0 {
		t.Errorf("Iter(missing) yielded %d rows, want 0", got)
	}

	// Moving a row between keys updates both sets.
	table.Update(&keyedRow{ID: a2, Key: "b"})
	if got := count("a"); got != 1 {
		t.Errorf("Iter(a) after move yielded %d rows, want 1", got)
	}
	if got := count("b"); got != 2 {
		t.Errorf("Iter(b) after move yielded %d rows, want 2", got)
	}

	table.Delete(a1)
	if got := count("a"); got != 0 {
		t.Errorf("Iter(a) after delete yielded %d rows, want 0", got)
	}
}

func TestIndexBuiltFromExistingRows(t *testing.T) {
	table := setupKeyedTable(t)
	id := ksid.NewID()
	table.Append(&keyedRow{ID: id, Key: "x"})

	idx := NewIndex(table, func(r *keyedRow) string { return r.Key })
	n := 0
	for row := range idx.Iter("x") {
		if row.ID != id {
			t.Errorf("Iter(x) = %+v, want ID=%s", row, id)
		}
		n++
	}
	if n != 1 {
		t.Errorf("Iter(x) yielded %d rows, want 1", n)
	}
}
