package jsonldb

import (
	"bufio"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/maruel/ksid"
)

// Cloner is implemented by types that can clone themselves.
type Cloner[T any] interface {
	Clone() T
}

// Row is the constraint for table row types: cloneable and ID-keyed.
type Row[T any] interface {
	Cloner[T]
	GetID() ksid.ID
}

// TableObserver receives notifications about table mutations.
//
// Observers are called synchronously while the table lock is held;
// implementations must not call back into the table.
type TableObserver[T Row[T]] interface {
	OnAppend(row T)
	OnUpdate(prev, curr T)
	OnDelete(row T)
}

// Table handles storage and in-memory caching for a single table in JSONL format.
type Table[T Row[T]] struct {
	path string
	mu   sync.RWMutex

	rows      []T
	byID      map[ksid.ID]int
	observers []TableObserver[T]
}

// NewTable creates a new Table and loads all data from the file.
func NewTable[T Row[T]](path string) (*Table[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	table := &Table[T]{path: path}
	if err := table.load(); err != nil {
		return nil, err
	}
	return table, nil
}

func (t *Table[T]) load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			t.rows = []T{}
			t.byID = map[ksid.ID]int{}
			return nil
		}
		return fmt.Errorf("failed to open table file %s: %w", t.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var rows []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var row T
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("failed to unmarshal row in %s: %w", t.path, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read table file %s: %w", t.path, err)
	}

	t.rows = rows
	t.byID = make(map[ksid.ID]int, len(rows))
	for i, row := range rows {
		t.byID[row.GetID()] = i
	}
	return nil
}

// AddObserver registers an observer for table mutations.
func (t *Table[T]) AddObserver(o TableObserver[T]) {
	t.mu.Lock()
	t.observers = append(t.observers, o)
	t.mu.Unlock()
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Get returns a clone of the row with the given ID, or the zero value if
// not found.
func (t *Table[T]) Get(id ksid.ID) T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i, ok := t.byID[id]; ok {
		return t.rows[i].Clone()
	}
	var zero T
	return zero
}

// All returns an iterator over clones of all rows in insertion order.
func (t *Table[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		t.mu.RLock()
		defer t.mu.RUnlock()
		for _, row := range t.rows {
			if !yield(row.Clone()) {
				return
			}
		}
	}
}

// Append adds a new row to the table and persists it.
func (t *Table[T]) Append(row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := row.GetID()
	if _, ok := t.byID[id]; ok {
		return fmt.Errorf("duplicate row ID %s in %s", id, t.path)
	}

	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal row: %w", err)
	}

	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open table file for append: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	if _, err := f.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	t.byID[id] = len(t.rows)
	t.rows = append(t.rows, row)
	for _, o := range t.observers {
		o.OnAppend(row)
	}
	return nil
}

// Update replaces the row with the same ID and persists the table.
// Returns os.ErrNotExist if no row has that ID.
func (t *Table[T]) Update(row T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.byID[row.GetID()]
	if !ok {
		return os.ErrNotExist
	}
	prev := t.rows[i]
	t.rows[i] = row
	if err := t.persistLocked(); err != nil {
		t.rows[i] = prev
		return err
	}
	for _, o := range t.observers {
		o.OnUpdate(prev, row)
	}
	return nil
}

// Delete removes the row with the given ID and persists the table.
// Returns os.ErrNotExist if no row has that ID.
func (t *Table[T]) Delete(id ksid.ID) error {
	return t.DeleteMany(map[ksid.ID]struct{}{id: {}})
}

// DeleteMany removes all rows whose IDs are in the given set and persists
// the table as one rewrite. Returns os.ErrNotExist if none matched.
func (t *Table[T]) DeleteMany(ids map[ksid.ID]struct{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var kept []T
	var removed []T
	for _, row := range t.rows {
		if _, ok := ids[row.GetID()]; ok {
			removed = append(removed, row)
		} else {
			kept = append(kept, row)
		}
	}
	if len(removed) == 0 {
		return os.ErrNotExist
	}

	prevRows, prevByID := t.rows, t.byID
	t.rows = kept
	t.byID = make(map[ksid.ID]int, len(kept))
	for i, row := range kept {
		t.byID[row.GetID()] = i
	}
	if err := t.persistLocked(); err != nil {
		t.rows, t.byID = prevRows, prevByID
		return err
	}
	for _, row := range removed {
		for _, o := range t.observers {
			o.OnDelete(row)
		}
	}
	return nil
}

// Replace replaces all rows with the provided slice and persists it.
// Observers see the change as deletes of the old rows followed by appends.
func (t *Table[T]) Replace(rows []T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prevRows, prevByID := t.rows, t.byID
	t.rows = rows
	t.byID = make(map[ksid.ID]int, len(rows))
	for i, row := range rows {
		t.byID[row.GetID()] = i
	}
	if err := t.persistLocked(); err != nil {
		t.rows, t.byID = prevRows, prevByID
		return err
	}
	for _, row := range prevRows {
		for _, o := range t.observers {
			o.OnDelete(row)
		}
	}
	for _, row := range rows {
		for _, o := range t.observers {
			o.OnAppend(row)
		}
	}
	return nil
}

// persistLocked rewrites the whole table file. Caller holds the write lock.
func (t *Table[T]) persistLocked() error {
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	writer := bufio.NewWriter(f)
	for _, row := range t.rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal row: %w", err)
		}
		if _, err := writer.Write(data); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}
	return writer.Flush()
}
