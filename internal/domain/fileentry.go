package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// FileEntry is a media file and the moment it was captured.
type FileEntry struct {
	Path      string
	Timestamp time.Time
}

// NewFileEntry truncates the timestamp to whole seconds, the resolution
// shoots are segmented at.
func NewFileEntry(path string, timestamp time.Time) FileEntry {
	return FileEntry{
		Path:      path,
		Timestamp: timestamp.Truncate(time.Second),
	}
}

func (f FileEntry) Name() string {
	return filepath.Base(f.Path)
}

// Ext returns the lower-cased extension without the leading dot.
func (f FileEntry) Ext() string {
	return NormalizeExt(filepath.Ext(f.Path))
}

// NormalizeExt lower-cases an extension and strips a leading dot, so ".JPG",
// "JPG" and "jpg" all map to "jpg".
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// ExtensionSet is a lookup of normalized extensions.
type ExtensionSet map[string]bool

func NewExtensionSet(exts []string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		normalized := NormalizeExt(ext)
		if normalized == "" {
			continue
		}
		set[normalized] = true
	}
	return set
}

func (s ExtensionSet) Contains(ext string) bool {
	return s[NormalizeExt(ext)]
}
