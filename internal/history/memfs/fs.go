// Package memfs serves rendered migration files from memory through the
// io/fs interfaces, so templated SQL never touches disk.
package memfs

import (
	"io/fs"
	"sort"
	"strings"
)

// FS is a flat, read-only in-memory filesystem.
type FS struct {
	files map[string]string
}

// New creates a filesystem holding files, keyed by base name.
func New(files map[string]string) *FS {
	copied := make(map[string]string, len(files))
	for name, content := range files {
		copied[name] = content
	}

	return &FS{files: copied}
}

// Names returns the file names in lexical order.
func (f *FS) Names() []string {
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Open implements fs.FS.
func (f *FS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if name == "." {
		return &dir{entries: f.entries()}, nil
	}

	content, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return &file{info: fileInfo{name: name, size: int64(len(content))}, reader: strings.NewReader(content)}, nil
}

// ReadDir implements fs.ReadDirFS.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	return f.entries(), nil
}

// ReadFile implements fs.ReadFileFS.
func (f *FS) ReadFile(name string) ([]byte, error) {
	content, ok := f.files[name]
	if !ok || !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}

	return []byte(content), nil
}

func (f *FS) entries() []fs.DirEntry {
	names := f.Names()
	entries := make([]fs.DirEntry, 0, len(names))

	for _, name := range names {
		entries = append(entries, fs.FileInfoToDirEntry(fileInfo{name: name, size: int64(len(f.files[name]))}))
	}

	return entries
}

var (
	_ fs.ReadDirFS  = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
)
