// Package zippkg implements the ZIP-packaged container that every OOXML
// format (PPTX/DOCX/XLSX) wraps: an ordered path -> bytes store that can be
// read from and deterministically re-serialized to a .zip archive.
package zippkg

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Package is a mutable, ordered-insertion path->bytes store. Paths are
// always forward-slash POSIX, with no leading slash.
type Package struct {
	order []string
	parts map[string][]byte
}

// New creates an empty package.
func New() *Package {
	return &Package{parts: make(map[string][]byte)}
}

// Open reads a ZIP archive into a Package, preserving the on-disk order of
// entries so a no-op round trip reproduces the same central directory order.
func Open(data []byte) (*Package, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zippkg: open archive: %w", err)
	}

	p := New()
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("zippkg: open entry %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zippkg: read entry %s: %w", f.Name, err)
		}
		p.Write(normalizePath(f.Name), b)
	}
	return p, nil
}

// Read returns the bytes stored at path, and whether it was present.
func (p *Package) Read(path string) ([]byte, bool) {
	b, ok := p.parts[normalizePath(path)]
	return b, ok
}

// ReadText is a convenience wrapper around Read for text parts.
func (p *Package) ReadText(path string) (string, bool) {
	b, ok := p.Read(path)
	if !ok {
		return "", false
	}
	return string(b), true
}

// Write stores bytes at path, appending to the insertion order the first
// time the path is seen and overwriting in place on subsequent writes.
func (p *Package) Write(path string, data []byte) {
	path = normalizePath(path)
	if _, exists := p.parts[path]; !exists {
		p.order = append(p.order, path)
	}
	p.parts[path] = data
}

// Remove deletes path from the package, if present.
func (p *Package) Remove(path string) {
	path = normalizePath(path)
	if _, exists := p.parts[path]; !exists {
		return
	}
	delete(p.parts, path)
	for i, existing := range p.order {
		if existing == path {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// List returns every path currently in the package, in insertion order.
func (p *Package) List() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// SortedList returns every path lexically sorted, for callers that want a
// stable iteration order independent of insertion history.
func (p *Package) SortedList() []string {
	out := p.List()
	sort.Strings(out)
	return out
}

// ToBytes serializes the package as a ZIP archive. Given the same sequence
// of Write/Remove operations, ToBytes is deterministic: entries are written
// in insertion order, which is the package's central-directory order.
func (p *Package) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, path := range p.order {
		w, err := zw.Create(path)
		if err != nil {
			return nil, fmt.Errorf("zippkg: create entry %s: %w", path, err)
		}
		if _, err := w.Write(p.parts[path]); err != nil {
			return nil, fmt.Errorf("zippkg: write entry %s: %w", path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zippkg: finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func normalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimPrefix(path, "/")
}
