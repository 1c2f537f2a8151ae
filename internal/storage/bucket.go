package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// deleteBatchSize matches the backend per-call removal limit; prefix
// deletions are chunked so one oversized process cannot exceed it.
const deleteBatchSize = 100

// Bucket stores process documents, photos, avatars and templates. Keys
// are namespaced "<ownerID>/<processID>/...".
type Bucket struct {
	Name         string
	SignedURLTTL time.Duration

	client *storage.Client
}

func NewBucket(ctx context.Context, name string, signedURLTTL time.Duration) (*Bucket, error) {
	if name == "" {
		return nil, fmt.Errorf("storage bucket name is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	if signedURLTTL <= 0 {
		signedURLTTL = 15 * time.Minute
	}
	return &Bucket{Name: name, SignedURLTTL: signedURLTTL, client: client}, nil
}

func (b *Bucket) Close() error {
	return b.client.Close()
}

// ObjectKey builds the canonical key for a process file.
func ObjectKey(ownerID, processID, filename string) string {
	return ownerID + "/" + processID + "/" + filename
}

// ProcessPrefix is the storage namespace owned by one process.
func ProcessPrefix(ownerID, processID string) string {
	return ownerID + "/" + processID + "/"
}

// Upload writes one object. Size and MIME validation happen at the HTTP
// layer before the stream reaches here.
func (b *Bucket) Upload(ctx context.Context, key, contentType string, r io.Reader) error {
	w := b.client.Bucket(b.Name).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a time-limited download URL for previews.
func (b *Bucket) SignedURL(key string) (string, error) {
	url, err := b.client.Bucket(b.Name).SignedURL(key, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(b.SignedURLTTL),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", key, err)
	}
	return url, nil
}

// Delete removes a single object.
func (b *Bucket) Delete(ctx context.Context, key string) error {
	if err := b.client.Bucket(b.Name).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ListPrefix returns every object key under a prefix.
func (b *Bucket) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	it := b.client.Bucket(b.Name).Objects(ctx, &storage.Query{Prefix: prefix})
	var keys []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

// DeletePrefix removes every object under a prefix in batches. Per-object
// failures are collected as warnings instead of aborting: a leftover file
// is preferable to blocking the rest of a cascading delete.
func (b *Bucket) DeletePrefix(ctx context.Context, prefix string) (int, []string, error) {
	keys, err := b.ListPrefix(ctx, prefix)
	if err != nil {
		return 0, nil, err
	}

	deleted := 0
	var warnings []string
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(keys) {
			end = len(keys)
		}
		for _, key := range keys[start:end] {
			if err := b.Delete(ctx, key); err != nil {
				warnings = append(warnings, err.Error())
				continue
			}
			deleted++
		}
	}
	return deleted, warnings, nil
}

// IsImagePath reports whether a stored key looks like a photo upload.
func IsImagePath(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".webp", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
