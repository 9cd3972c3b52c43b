package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Local writes files under Dir; they are served by the static handler mounted at PublicPath.
type Local struct {
	Dir        string
	PublicPath string
}

func NewLocal(dir, publicPath string) (*Local, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "./uploads"
	}
	if publicPath == "" {
		publicPath = "/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create upload dir")
	}
	return &Local{Dir: dir, PublicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

func (l *Local) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("empty key")
	}
	return filepath.Join(l.Dir, clean), nil
}

func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) (Object, error) {
	p, err := l.path(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Object{}, errors.Wrap(err, "create object dir")
	}
	f, err := os.Create(p)
	if err != nil {
		return Object{}, errors.Wrap(err, "create object")
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return Object{}, errors.Wrap(err, "write object")
	}
	return Object{Key: key, URL: l.URL(key), ContentType: contentType, Size: n}, nil
}

func (l *Local) Get(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete object")
	}
	return nil
}

func (l *Local) URL(key string) string {
	if key == "" {
		return l.PublicPath
	}
	return l.PublicPath + "/" + strings.TrimLeft(key, "/")
}
