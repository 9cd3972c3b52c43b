// Package storage hides where uploaded files live: the local disk or an Aliyun OSS bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"academykit_backend/internals/configs"
)

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Provider interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Object, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// New picks the provider named in cfg.Provider. Unknown names fall back to local.
func New(cfg configs.StorageConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "oss":
		return NewOSS(cfg)
	default:
		return NewLocal(cfg.LocalDir, cfg.PublicPath)
	}
}

// BuildKey returns prefix/folder/yyyy/mm/<uuid><ext>.
func BuildKey(prefix, folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	now := time.Now().UTC()
	parts := []string{}
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	if f := strings.Trim(folder, "/"); f != "" {
		parts = append(parts, f)
	}
	parts = append(parts, fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), uuid.NewString()+ext)
	return path.Join(parts...)
}

// KeyFromURL recovers the object key from a public URL produced by p.
func KeyFromURL(p Provider, publicURL string) (string, bool) {
	base := strings.TrimSuffix(p.URL(""), "/")
	if base == "" || !strings.HasPrefix(publicURL, base+"/") {
		return "", false
	}
	return strings.TrimPrefix(publicURL, base+"/"), true
}
