package types

// Volume is a mounted filesystem image as exposed by the disk image library.
// It is owned by that library; anything derived from it must not outlive it.
type Volume interface {
	// VolumeID is the display name of the volume.
	VolumeID() string

	// FileEntries returns every file and directory of the volume as a flat list.
	// Entries belonging to one directory are contiguous.
	FileEntries() []FileEntry

	// SubVolumes returns the volumes embedded in this one, in enumeration order.
	SubVolumes() []Volume
}

// FileEntry is one record of a volume's flat file list.
type FileEntry interface {
	// FullPathName is relative to the volume root, segments joined by the
	// volume's path separator.
	FullPathName() string
	IsDirectory() bool
	// IsVolumeDirectory is true only for the synthetic root-of-volume entry.
	IsVolumeDirectory() bool
}

// ReadOnlyVolume is implemented by volumes that can report write protection.
type ReadOnlyVolume interface {
	ReadOnly() bool
}

// SeparatorVolume is implemented by volumes whose path names use something
// other than the default separator (ProDOS uses ':', for example).
type SeparatorVolume interface {
	Separator() rune
}

// SizedEntry is implemented by entries that know their data length.
type SizedEntry interface {
	Size() int64
}
