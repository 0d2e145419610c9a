package imagestore

import (
	"bytes"
	"context"
	"embed"
	"io"
	"io/fs"
	"mime"
	"path"
	"sync"

	"github.com/yanqian/celestial-scale/internal/domain/bodies"
)

//go:embed assets/*.svg
var bundled embed.FS

type storedImage struct {
	data        []byte
	contentType string
}

// MemoryStore keeps images in memory. It is seeded with the bundled artwork.
type MemoryStore struct {
	mu     sync.RWMutex
	images map[string]storedImage
}

// NewMemoryStore constructs a store preloaded with the bundled body images.
func NewMemoryStore() (*MemoryStore, error) {
	s := &MemoryStore{images: make(map[string]storedImage)}
	entries, err := fs.ReadDir(bundled, "assets")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		data, err := bundled.ReadFile(path.Join("assets", e.Name()))
		if err != nil {
			return nil, err
		}
		s.Put(e.Name(), data, "")
	}
	return s, nil
}

// Put stores an image under key; an empty content type is guessed from the extension.
func (s *MemoryStore) Put(key string, data []byte, contentType string) {
	if contentType == "" {
		contentType = contentTypeFor(key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[key] = storedImage{data: append([]byte(nil), data...), contentType: contentType}
}

// Get implements bodies.ImageStore.
func (s *MemoryStore) Get(_ context.Context, key string) (bodies.Image, error) {
	s.mu.RLock()
	img, ok := s.images[key]
	s.mu.RUnlock()
	if !ok {
		return bodies.Image{}, bodies.ErrImageNotFound
	}
	return bodies.Image{
		Body:        io.NopCloser(bytes.NewReader(img.data)),
		ContentType: img.contentType,
		Size:        int64(len(img.data)),
	}, nil
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var _ bodies.ImageStore = (*MemoryStore)(nil)
