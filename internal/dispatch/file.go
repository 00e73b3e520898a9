package dispatch

import (
	"path/filepath"
	"strings"
)

// File is a path under a pack together with the name parts the rules match on.
type File struct {
	Path       string
	Name       string
	Ext        string
	Stem       string
	ParentName string
}

// NewFile derives the match attributes for path. Ext is the suffix from the
// last dot of the base name, kept case sensitive; a leading dot alone (as in
// ".hidden") or a trailing dot yields no extension.
func NewFile(path string) File {
	name := filepath.Base(path)
	ext := suffix(name)
	return File{
		Path:       path,
		Name:       name,
		Ext:        ext,
		Stem:       strings.TrimSuffix(name, ext),
		ParentName: filepath.Base(filepath.Dir(path)),
	}
}

// WithExt returns the path with its extension replaced by ext, or ext
// appended when the file has none.
func (f File) WithExt(ext string) string {
	return filepath.Join(filepath.Dir(f.Path), f.Stem+ext)
}

func suffix(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
