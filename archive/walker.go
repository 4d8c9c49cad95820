// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/maruel/natural"
	"golang.org/x/text/encoding"

	"hmlt/common"
	"hmlt/resource"
)

// Entry is a resource found in archive. Meta is nil when archive has no
// sidecar for the resource. File and Meta can be read only while WalkFunc
// runs, archive is closed when Walk returns.
type Entry struct {
	// Name is path inside archive, decoded from forced code page if requested.
	Name string
	Type common.ResourceType
	File *zip.File
	Meta *zip.File
}

// WalkFunc is the type of the function called for each resource in archive
// visited by Walk. The archive argument contains path to archive passed to Walk.
// If an error is returned, processing stops.
type WalkFunc func(archive string, e *Entry) error

// Walk walks all resources in the archive whose names start with pattern, in
// natural name order, calling walkFn for each item. Files which are not
// resources are ignored, sidecars are attached to their resources. When cp is
// not nil, names not marked as UTF-8 are decoded from it. Entries with path
// traversal components ("..") or absolute paths fail the walk to prevent Zip
// Slip attacks.
func Walk(archive, pattern string, cp encoding.Encoding, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	var (
		entries []*Entry
		sidecar = make(map[string]*zip.File)
	)
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if cp != nil && f.FileHeader.NonUTF8 {
			// forcing zip file name encoding
			n, err := cp.NewDecoder().String(name)
			if err != nil {
				return fmt.Errorf("zip entry %q: unable to decode name: %w", name, err)
			}
			name = n
		}
		if !strings.HasPrefix(name, pattern) {
			continue
		}
		if strings.HasSuffix(strings.ToLower(name), resource.MetaSuffix) {
			sidecar[strings.ToLower(name[:len(name)-len(resource.MetaSuffix)])] = f
			continue
		}
		rt, err := common.ResourceTypeFromExt(path.Ext(name))
		if err != nil {
			continue
		}
		entries = append(entries, &Entry{Name: name, Type: rt, File: f})
	}

	slices.SortFunc(entries, func(a, b *Entry) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})

	for _, e := range entries {
		e.Meta = sidecar[strings.ToLower(e.Name)]
		if err := walkFn(archive, e); err != nil {
			return err
		}
	}
	return nil
}

// ReadFile returns full content of archive file.
func ReadFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
