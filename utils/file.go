package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxCrestSize caps crest uploads at 2 MiB.
const MaxCrestSize = 2 << 20

var crestTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// CrestContentType returns the content type for an allowed crest file name.
func CrestContentType(filename string) (string, bool) {
	ct, ok := crestTypes[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}

// CrestKey builds the object key for a team crest, e.g. "crests/12/<uuid>.png".
// A fresh uuid per upload keeps CDN caches from serving the previous image.
func CrestKey(teamID int, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("crests/%d/%s%s", teamID, uuid.NewString(), ext)
}

func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// LocalStorage writes uploads under a directory served at URLPrefix.
// Used when R2 is not configured.
type LocalStorage struct {
	Root      string
	URLPrefix string
}

func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{Root: root, URLPrefix: urlPrefix}, nil
}

func (l *LocalStorage) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	clean := path.Clean("/" + key)
	destPath := filepath.Join(l.Root, filepath.FromSlash(clean))

	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}
	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		return "", err
	}
	return PublicURL(l.URLPrefix, clean), nil
}
