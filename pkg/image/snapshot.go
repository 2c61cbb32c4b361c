package image

import (
	"unicode/utf8"

	"github.com/mrhapile/disktree/pkg/types"
)

// Snapshot is an immutable in-memory volume. It satisfies types.Volume and
// its optional read-only and separator capabilities.
type Snapshot struct {
	id       string
	readOnly bool
	sep      rune
	entries  []types.FileEntry
	subs     []types.Volume
	manifest types.VolumeManifest
}

var (
	_ types.Volume          = (*Snapshot)(nil)
	_ types.ReadOnlyVolume  = (*Snapshot)(nil)
	_ types.SeparatorVolume = (*Snapshot)(nil)
)

func (s *Snapshot) VolumeID() string               { return s.id }
func (s *Snapshot) FileEntries() []types.FileEntry { return s.entries }
func (s *Snapshot) SubVolumes() []types.Volume     { return s.subs }
func (s *Snapshot) ReadOnly() bool                 { return s.readOnly }

// Separator returns 0 when the manifest did not name one.
func (s *Snapshot) Separator() rune { return s.sep }

// Manifest returns the description the snapshot was built from.
func (s *Snapshot) Manifest() types.VolumeManifest { return s.manifest }

// Fingerprint identifies the snapshot's content and shape.
func (s *Snapshot) Fingerprint() string { return Fingerprint(s.manifest) }

type entry struct {
	m types.EntryManifest
}

var _ types.SizedEntry = (*entry)(nil)

func (e *entry) FullPathName() string    { return e.m.Path }
func (e *entry) IsDirectory() bool       { return e.m.Dir }
func (e *entry) IsVolumeDirectory() bool { return e.m.VolumeDir }
func (e *entry) Size() int64             { return e.m.Size }

// FromManifest builds a snapshot of the manifest's root volume.
func FromManifest(m *types.ImageManifest) (*Snapshot, error) {
	if err := ValidateManifest(m); err != nil {
		return nil, err
	}
	return newSnapshot(m.Volume), nil
}

func newSnapshot(v types.VolumeManifest) *Snapshot {
	s := &Snapshot{
		id:       v.ID,
		readOnly: v.ReadOnly,
		manifest: v,
	}
	if v.Separator != "" {
		s.sep, _ = utf8.DecodeRuneInString(v.Separator)
	}
	for _, e := range v.Entries {
		s.entries = append(s.entries, &entry{m: e})
	}
	for _, sub := range v.Volumes {
		s.subs = append(s.subs, newSnapshot(sub))
	}
	return s
}

// ToManifest captures any volume as a manifest, following its sub-volumes.
func ToManifest(vol types.Volume) types.VolumeManifest {
	if s, ok := vol.(*Snapshot); ok {
		return s.manifest
	}

	v := types.VolumeManifest{ID: vol.VolumeID()}
	if ro, ok := vol.(types.ReadOnlyVolume); ok {
		v.ReadOnly = ro.ReadOnly()
	}
	if sv, ok := vol.(types.SeparatorVolume); ok && sv.Separator() != 0 {
		v.Separator = string(sv.Separator())
	}
	for _, e := range vol.FileEntries() {
		em := types.EntryManifest{
			Path:      e.FullPathName(),
			Dir:       e.IsDirectory(),
			VolumeDir: e.IsVolumeDirectory(),
		}
		if se, ok := e.(types.SizedEntry); ok && !em.Dir {
			em.Size = se.Size()
		}
		v.Entries = append(v.Entries, em)
	}
	for _, sub := range vol.SubVolumes() {
		v.Volumes = append(v.Volumes, ToManifest(sub))
	}
	return v
}
