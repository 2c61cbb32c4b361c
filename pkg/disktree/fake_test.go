package disktree_test

import "github.com/mrhapile/disktree/pkg/types"

type fakeEntry struct {
	path   string
	dir    bool
	volDir bool
	size   int64
}

func (e *fakeEntry) FullPathName() string    { return e.path }
func (e *fakeEntry) IsDirectory() bool       { return e.dir }
func (e *fakeEntry) IsVolumeDirectory() bool { return e.volDir }
func (e *fakeEntry) Size() int64             { return e.size }

type fakeVolume struct {
	id       string
	entries  []types.FileEntry
	subs     []types.Volume
	sep      rune
	readOnly bool
}

func (v *fakeVolume) VolumeID() string               { return v.id }
func (v *fakeVolume) FileEntries() []types.FileEntry { return v.entries }
func (v *fakeVolume) SubVolumes() []types.Volume     { return v.subs }
func (v *fakeVolume) Separator() rune                { return v.sep }
func (v *fakeVolume) ReadOnly() bool                 { return v.readOnly }

func dir(path string) *fakeEntry  { return &fakeEntry{path: path, dir: true} }
func file(path string) *fakeEntry { return &fakeEntry{path: path} }

func newVolume(id string, entries ...*fakeEntry) *fakeVolume {
	v := &fakeVolume{id: id}
	for _, e := range entries {
		v.entries = append(v.entries, e)
	}
	return v
}

func (v *fakeVolume) with(subs ...*fakeVolume) *fakeVolume {
	for _, s := range subs {
		v.subs = append(v.subs, s)
	}
	return v
}

func labels(nodes []*types.TreeNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Label)
	}
	return out
}
