// Package image supplies volumes for the tree builder: manifest files that
// describe a disk image snapshot, and gzip'd tar archives whose members form
// the flat file list and whose nested archives become sub-volumes.
package image

import (
	"errors"
	"strings"
)

// ErrUnsupportedFormat is returned for files that are neither a manifest nor
// an archive.
var ErrUnsupportedFormat = errors.New("unsupported image format")

var archiveSuffixes = []string{".tar.gz", ".tgz"}

func isArchiveName(name string) bool {
	_, ok := trimArchiveSuffix(name)
	return ok
}

func trimArchiveSuffix(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s) {
			return name[:len(name)-len(s)], true
		}
	}
	return name, false
}

func formatFromPath(path string) (Format, bool) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML, true
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON, true
	default:
		return "", false
	}
}

// Open loads the image at path, picking the reader by extension.
func Open(path string) (*Snapshot, error) {
	if isArchiveName(path) {
		return OpenArchive(path)
	}
	m, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return FromManifest(m)
}
