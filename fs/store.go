// Package fs exports photo feeds as markdown files.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/fwojciec/fpx"
)

// Ensure FileStore implements fpx.PhotoStore at compile time.
var _ fpx.PhotoStore = (*FileStore)(nil)

// PhotoURL returns the public page of a photo.
func PhotoURL(id int64) string {
	return "https://500px.com/photo/" + strconv.FormatInt(id, 10)
}

// PhotoPath returns the file name for a photo: its ID followed by a slug
// of its name.
// Example: 296328931, "Golden Hour!" → 296328931-golden-hour.md
func PhotoPath(p *fpx.Photo) string {
	id := strconv.FormatInt(p.ID, 10)
	if s := slug(p.Name); s != "" {
		return id + "-" + s + ".md"
	}
	return id + ".md"
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

// FormatPhoto formats a photo with YAML frontmatter followed by its
// details sheet.
func FormatPhoto(p *fpx.Photo, description string) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "id: %d\n", p.ID)
	fmt.Fprintf(&b, "name: %s\n", strconv.Quote(p.Name))
	fmt.Fprintf(&b, "user: %s\n", strconv.Quote(p.User.Username))
	fmt.Fprintf(&b, "url: %s\n", PhotoURL(p.ID))
	if img := p.LargeImage(); img != "" {
		fmt.Fprintf(&b, "image: %s\n", img)
	}
	if p.TakenAt != "" {
		fmt.Fprintf(&b, "taken: %s\n", p.TakenAt)
	}
	b.WriteString("---\n\n")
	b.WriteString(fpx.FormatDetails(p, description))
	return b.String()
}

// FileStore implements fpx.PhotoStore with atomic update semantics.
// Photos are saved to a temporary directory, then moved atomically on Commit.
// Commit also writes an index.md listing the photos in the order saved.
type FileStore struct {
	baseDir   string
	name      string
	converter fpx.Converter

	mu      sync.Mutex
	entries []string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
// Descriptions are converted with conv when it is not nil.
func NewFileStore(baseDir, name string, conv fpx.Converter) *FileStore {
	return &FileStore{
		baseDir:   baseDir,
		name:      name,
		converter: conv,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes a photo to the temporary directory.
func (s *FileStore) Save(ctx context.Context, photo *fpx.Photo) error {
	if photo == nil || photo.ID < 1 {
		return fpx.Errorf(fpx.EINVALID, "photo id required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	description := photo.Description
	if s.converter != nil {
		md, err := s.converter.Convert(description)
		if err != nil {
			return err
		}
		description = md
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	relPath := PhotoPath(photo)
	content := FormatPhoto(photo, description)
	if err := os.WriteFile(filepath.Join(s.tempDir(), relPath), []byte(content), 0644); err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = append(s.entries, fmt.Sprintf("- [%s](%s) by @%s", displayName(photo), relPath, photo.User.Username))
	s.mu.Unlock()
	return nil
}

func displayName(p *fpx.Photo) string {
	if p.Name == "" {
		return strconv.FormatInt(p.ID, 10)
	}
	return p.Name
}

// Commit writes the index and replaces the output directory with the
// temporary one.
func (s *FileStore) Commit() error {
	s.mu.Lock()
	index := "# " + s.name + "\n\n" + strings.Join(s.entries, "\n") + "\n"
	s.entries = nil
	s.mu.Unlock()

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.tempDir(), "index.md"), []byte(index), 0644); err != nil {
		return err
	}

	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards everything saved since the last Commit.
func (s *FileStore) Abort() error {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
	return os.RemoveAll(s.tempDir())
}
