package types

import "time"

// ImageManifest describes a disk image snapshot: one root volume and
// everything nested in it.
type ImageManifest struct {
	// Version is the schema version of the manifest layout.
	Version string `json:"version" yaml:"version"`

	// GeneratedAt is set when the manifest is written out by a tool.
	GeneratedAt time.Time `json:"generatedAt,omitempty" yaml:"generatedAt,omitempty"`

	Volume VolumeManifest `json:"volume" yaml:"volume"`

	// ContentHash is the SHA256 over the ordered entry list of every volume.
	// Empty on input; filled in by the image package.
	ContentHash string `json:"contentHash,omitempty" yaml:"contentHash,omitempty"`
}

// VolumeManifest is one volume of an ImageManifest.
type VolumeManifest struct {
	ID       string `json:"id" yaml:"id"`
	ReadOnly bool   `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`

	// Separator is the path separator used by Entries. Defaults to "/".
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`

	// Entries is the flat file list, in the order the library would report it.
	Entries []EntryManifest `json:"entries,omitempty" yaml:"entries,omitempty"`

	Volumes []VolumeManifest `json:"volumes,omitempty" yaml:"volumes,omitempty"`
}

// EntryManifest represents a single file or directory record.
type EntryManifest struct {
	// Path is relative to the volume root.
	Path string `json:"path" yaml:"path"`

	Dir       bool  `json:"dir,omitempty" yaml:"dir,omitempty"`
	VolumeDir bool  `json:"volumeDir,omitempty" yaml:"volumeDir,omitempty"`
	Size      int64 `json:"size,omitempty" yaml:"size,omitempty"`
}
