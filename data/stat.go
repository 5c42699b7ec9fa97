package data

import (
	"io/fs"
	"path"
	"time"
)

// FileStat describes a stored object. Backends fill Key relative to their
// root; the facade sets Path to the namespace-qualified form.
type FileStat struct {
	// Relative key within the backend
	Key string `json:"key"`

	// Namespace-qualified path, e.g. "save:/progress.json"
	Path string `json:"path,omitempty"`

	// Unix-style mode and permissions
	Mode FileMode `json:"mode"`

	// Size in bytes (0 for directories)
	Size int64 `json:"size"`

	ModifyTime time.Time `json:"modify_time"`

	// Content MIME type derived from the file extension
	ContentType ContentType `json:"content_type"`
}

// NewFileStat builds a FileStat for key from an io/fs FileInfo.
func NewFileStat(key string, info fs.FileInfo) *FileStat {
	stat := &FileStat{
		Key:        key,
		Mode:       ToFileMode(info.Mode()),
		ModifyTime: info.ModTime(),
	}

	if !info.IsDir() {
		stat.Size = info.Size()
		stat.ContentType = GetMIMEType(key)
	}

	return stat
}

// NewDirectoryStat builds the FileStat for a synthesized directory entry.
func NewDirectoryStat(key string, modTime time.Time) *FileStat {
	return &FileStat{
		Key:        key,
		Mode:       ModeDir | 0755,
		ModifyTime: modTime,
	}
}

// Name returns the base name of the object.
func (s *FileStat) Name() string {
	if s.Key == "" {
		return ""
	}
	return path.Base(s.Key)
}
