package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

var errBadLocator = errors.New("malformed blob locator")

// BlobStore holds media bytes addressed by locator strings such as
// "/uploads/0AbCdEf1234.png". Only the basename is used as the storage
// key; the rest of the locator is presentation-layer routing.
type BlobStore struct {
	d *diskv.Diskv
}

// NewBlobStore creates a blob store rooted at dir.
func NewBlobStore(dir string) *BlobStore {
	return &BlobStore{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			Transform:    func(string) []string { return nil },
			CacheSizeMax: 8 << 20,
		}),
	}
}

// Write stores data under the given locator, replacing any previous
// content.
func (b *BlobStore) Write(locator string, data []byte) error {
	key, err := locatorKey(locator)
	if err != nil {
		return err
	}
	if err := b.d.Write(key, data); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", locator, err)
	}
	return nil
}

// Read returns the bytes stored under the given locator.
// Returns os.ErrNotExist if the blob is missing.
func (b *BlobStore) Read(locator string) ([]byte, error) {
	key, err := locatorKey(locator)
	if err != nil {
		return nil, err
	}
	data, err := b.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", locator, err)
	}
	return data, nil
}

// Delete removes the blob stored under the given locator.
//
// Deleting a missing blob returns nil so that cascade cleanup stays
// idempotent.
func (b *BlobStore) Delete(locator string) error {
	key, err := locatorKey(locator)
	if err != nil {
		return err
	}
	if !b.d.Has(key) {
		return nil
	}
	if err := b.d.Erase(key); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", locator, err)
	}
	return nil
}

// Has reports whether a blob exists for the given locator.
func (b *BlobStore) Has(locator string) bool {
	key, err := locatorKey(locator)
	if err != nil {
		return false
	}
	return b.d.Has(key)
}

// locatorKey reduces a locator to its basename and rejects anything that
// could escape the store directory.
func locatorKey(locator string) (string, error) {
	key := path.Base(locator)
	if key == "" || key == "." || key == "/" || strings.ContainsAny(key, `\`) {
		return "", fmt.Errorf("%w: %q", errBadLocator, locator)
	}
	return key, nil
}
