package attachment

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"hostcalendar/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// AllowedMimeTypes lists the sniffed content types a guest may attach.
var AllowedMimeTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// Storage writes attachment bytes under baseDir/bookings/YYYY/MM/DD and
// serves them from staticBase.
type Storage struct {
	baseDir    string
	staticBase string
	clock      clock.Clock
}

func NewStorage(baseDir, staticBase string, clk clock.Clock) *Storage {
	if clk == nil {
		clk = clock.UTC
	}
	return &Storage{baseDir: baseDir, staticBase: strings.TrimRight(staticBase, "/"), clock: clk}
}

// StoredFile is where Save put the bytes.
type StoredFile struct {
	ID      string
	RelPath string
	URL     string
}

// Save copies r to a fresh file named <uuid>_<slug>.<ext>.
func (s *Storage) Save(r io.Reader, originalName, mimeType string) (*StoredFile, error) {
	now := s.clock.Now()
	relDir := filepath.Join("bookings", fmt.Sprintf("%d", now.Year()), fmt.Sprintf("%02d", now.Month()), fmt.Sprintf("%02d", now.Day()))
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	id := uuid.NewString()
	filename := fmt.Sprintf("%s_%s%s", id, safeName(originalName), extension(originalName, mimeType))
	relPath := filepath.Join(relDir, filename)
	absPath := filepath.Join(s.baseDir, relPath)

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("close file: %w", err)
	}

	return &StoredFile{
		ID:      id,
		RelPath: filepath.ToSlash(relPath),
		URL:     s.staticBase + "/" + filepath.ToSlash(relPath),
	}, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *Storage) Remove(relPath string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Orphans walks the bookings tree and returns stored paths missing from known.
func (s *Storage) Orphans(known map[string]bool) ([]string, error) {
	root := filepath.Join(s.baseDir, "bookings")
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, path)
		if err != nil {
			return err
		}
		if rel = filepath.ToSlash(rel); !known[rel] {
			out = append(out, rel)
		}
		return nil
	})
	return out, err
}

func safeName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	s := slug.Make(base)
	if len(s) > 40 {
		s = strings.Trim(s[:40], "-")
	}
	if s == "" {
		return "file"
	}
	return s
}

// extension prefers the client's extension when it agrees with the sniffed type.
func extension(name, mimeType string) string {
	ext := strings.ToLower(filepath.Ext(name))
	want := AllowedMimeTypes[mimeType]
	switch {
	case ext == "":
		return want
	case ext == want, mimeType == "image/jpeg" && ext == ".jpeg":
		return ext
	case mimeType == "text/plain":
		return ext
	default:
		return want
	}
}
