package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// OriginResponse is what the origin returned for one asset request.
type OriginResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// AssetOrigin serves assets when the cache cannot.
type AssetOrigin interface {
	Fetch(ctx context.Context, method, urlPath string) (*OriginResponse, error)
}

var fontTypes = map[string]string{
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// StaticOrigin reads assets from a directory. Directory paths resolve to
// their index.html.
type StaticOrigin struct {
	dir string
}

func NewStaticOrigin(dir string) *StaticOrigin {
	return &StaticOrigin{dir: dir}
}

func (o *StaticOrigin) Fetch(ctx context.Context, method, urlPath string) (*OriginResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if method != http.MethodGet && method != http.MethodHead {
		return &OriginResponse{Status: http.StatusMethodNotAllowed}, nil
	}

	clean := path.Clean("/" + urlPath)
	if strings.HasSuffix(clean, "/") {
		clean += "index.html"
	}
	full := filepath.Join(o.dir, filepath.FromSlash(clean))
	if info, err := os.Stat(full); err == nil && info.IsDir() {
		full = filepath.Join(full, "index.html")
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &OriginResponse{Status: http.StatusNotFound, ContentType: "text/plain; charset=utf-8", Body: []byte("404 page not found\n")}, nil
		}
		return nil, fmt.Errorf("failed to open asset %s: %w", clean, err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset %s: %w", clean, err)
	}
	return &OriginResponse{
		Status:      http.StatusOK,
		ContentType: contentTypeFor(full, body),
		Body:        body,
	}, nil
}

func contentTypeFor(name string, body []byte) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := fontTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return http.DetectContentType(body)
}
