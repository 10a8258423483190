// Package storage writes user uploads to a file store and resolves their
// public URLs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/angelmondragon/catalog-api/pkg/enums"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// defaultExtension is used when content sniffing cannot name a type.
const defaultExtension = ".png"

// Store is the minimal surface every backend implements.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Upload sniffs data, names it under area and writes it to store. It returns
// the storage key to persist.
func Upload(ctx context.Context, store Store, area enums.MediaArea, data []byte, now time.Time) (string, error) {
	if store == nil {
		return "", errors.New("storage backend is required")
	}
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}

	detected := mimetype.Detect(data)
	key := ObjectKey(area, now, detected.Extension())
	if err := store.Put(ctx, key, bytes.NewReader(data), detected.String()); err != nil {
		return "", fmt.Errorf("storing %s: %w", key, err)
	}
	return key, nil
}

// ObjectKey builds "<area>/<date>-<uuid><ext>".
func ObjectKey(area enums.MediaArea, now time.Time, ext string) string {
	if ext == "" {
		ext = defaultExtension
	}
	return fmt.Sprintf("%s/%s-%s%s", area, now.UTC().Format("2006-01-02"), uuid.NewString(), ext)
}

// PublicURL joins a base URL and a storage key with exactly one slash.
func PublicURL(base, key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
