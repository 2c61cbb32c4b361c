package disktree

import (
	"strings"

	"github.com/mrhapile/disktree/pkg/types"
)

// cursor walks a volume's flat entry list. The list itself is never modified;
// every level of the descent shares the same position.
type cursor struct {
	vol     types.Volume
	entries []types.FileEntry
	sep     string
	pos     int

	// innermost directory that turned down the entry at rejectPos
	rejectPos   int
	rejectScope string
}

// placed is an entry split into its parent directory and leaf name.
type placed struct {
	entry  types.FileEntry
	path   string
	parent string
	leaf   string
}

func newCursor(vol types.Volume, sep rune) *cursor {
	return &cursor{
		vol:       vol,
		entries:   vol.FileEntries(),
		sep:       string(sep),
		rejectPos: -1,
	}
}

func (c *cursor) done() bool {
	return c.pos >= len(c.entries)
}

func (c *cursor) advance() {
	c.pos++
}

// skipVolumeDir steps over a leading root-of-volume entry; the volume node
// already stands for it.
func (c *cursor) skipVolumeDir() {
	if !c.done() && c.entries[c.pos].IsVolumeDirectory() {
		c.pos++
	}
}

// peek splits the current entry without consuming it.
func (c *cursor) peek() (placed, error) {
	e := c.entries[c.pos]
	if e.IsVolumeDirectory() {
		return placed{}, c.violation("volume directory entry inside the file list")
	}

	path := strings.TrimSuffix(e.FullPathName(), c.sep)
	if path == "" {
		return placed{}, c.violation("empty path name")
	}
	for _, seg := range strings.Split(path, c.sep) {
		if seg == "" {
			return placed{}, c.violation("empty path segment")
		}
	}

	p := placed{entry: e, path: path, leaf: path}
	if i := strings.LastIndex(path, c.sep); i >= 0 {
		p.parent = path[:i]
		p.leaf = path[i+len(c.sep):]
	}
	return p, nil
}

// rejectedBy remembers the first (innermost) scope that refused the current
// entry, for error reporting.
func (c *cursor) rejectedBy(scope string) {
	if c.rejectPos != c.pos {
		c.rejectPos = c.pos
		c.rejectScope = scope
	}
}

func (c *cursor) violation(reason string) *ContiguityError {
	e := &ContiguityError{
		VolumeID: c.vol.VolumeID(),
		Index:    c.pos,
		Reason:   reason,
	}
	if c.pos < len(c.entries) {
		e.Path = c.entries[c.pos].FullPathName()
	}
	if c.rejectPos == c.pos {
		e.Scope = c.rejectScope
	}
	return e
}
