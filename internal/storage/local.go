// Package storage manages the shared upload directory on local disk: saving
// uploaded files, listing the image pool, and building public URLs. The pool
// is global — files are not namespaced by owner.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// thumbsDir is the subdirectory holding generated thumbnails. Kept out of
// the top-level listing by the directory check in List.
const thumbsDir = "thumbs"

// allowedExtensions is the image allow-list applied when listing the pool.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// File is one entry of the public image pool.
type File struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Local is a file store rooted at a single upload directory, serving files
// under a configured public base URL.
type Local struct {
	dir       string
	publicURL string
}

// NewLocal returns a Local store for the given directory and public base URL.
func NewLocal(dir, publicURL string) *Local {
	return &Local{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}
}

// Dir returns the upload directory path, for static file serving.
func (l *Local) Dir() string {
	return l.dir
}

// FileURL builds the public URL for a stored filename.
func (l *Local) FileURL(name string) string {
	return l.publicURL + "/" + name
}

// List scans the upload directory and returns every image whose extension is
// on the allow-list. The name is the filename with only the final extension
// stripped, so multi-dot filenames survive intact. Subdirectories are skipped.
func (l *Local) List() ([]File, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !allowedExtensions[ext] {
			continue
		}
		files = append(files, File{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			URL:  l.FileURL(name),
		})
	}
	return files, nil
}

// Save streams an upload into the directory under the given filename,
// creating the directory if absent. The name is reduced to its base to keep
// writes inside the pool; an existing file with the same name is overwritten.
// Returns the stored filename and its public URL.
func (l *Local) Save(filename string, src io.Reader) (string, string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", "", fmt.Errorf("invalid filename %q", filename)
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("write file: %w", err)
	}

	return name, l.FileURL(name), nil
}

// SaveThumb writes thumbnail bytes for a stored file into the thumbs
// subdirectory as <base>.jpg.
func (l *Local) SaveThumb(name string, data []byte) error {
	dir := filepath.Join(l.dir, thumbsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create thumbs dir: %w", err)
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	if err := os.WriteFile(filepath.Join(dir, base+".jpg"), data, 0o644); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}
	return nil
}

// IsImage reports whether the filename carries an allow-listed image extension.
func IsImage(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}
