package disktree

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mrhapile/disktree/pkg/types"
)

// DefaultSeparator is used for volumes that don't report their own.
const DefaultSeparator = '/'

// ErrNilVolume is returned when Build is handed no volume at all.
var ErrNilVolume = errors.New("disktree: nil volume")

// Option configures the build.
type Option func(*config)

type config struct {
	includeSubdirs bool
	expandDepth    int
	separator      rune
	logger         *zerolog.Logger
}

// WithSubdirectories includes the directory hierarchy of every volume.
// Without it the tree only holds volume nodes.
func WithSubdirectories(include bool) Option {
	return func(c *config) {
		c.includeSubdirs = include
	}
}

// WithExpandDepth records how many levels start out expanded
// (0 = none, -1 = all). It does not change the shape of the tree.
func WithExpandDepth(depth int) Option {
	return func(c *config) {
		c.expandDepth = depth
	}
}

// WithSeparator sets the path separator for volumes that don't report one.
func WithSeparator(sep rune) Option {
	return func(c *config) {
		c.separator = sep
	}
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &l
	}
}

// Tree is the result of a successful build. Root and Targets are produced
// together and are dropped together; both borrow from the volume they were
// built from.
type Tree struct {
	Root        *types.TreeNode
	Targets     *TargetTable
	ExpandDepth int
	// BuildID is unique per Build call.
	BuildID string
}

// TargetOf returns the target linked to node, if it has one.
func (t *Tree) TargetOf(node *types.TreeNode) (types.Target, bool) {
	if node == nil {
		return types.Target{}, false
	}
	return t.Targets.Lookup(node.TargetID)
}

// Build walks vol and its sub-volumes and returns the display tree together
// with its target table. On error nothing is returned.
func Build(vol types.Volume, opts ...Option) (*Tree, error) {
	if vol == nil {
		return nil, ErrNilVolume
	}

	cfg := &config{
		separator: DefaultSeparator,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	l := log.Logger
	if cfg.logger != nil {
		l = *cfg.logger
	}

	buildID := uuid.NewString()
	b := &builder{
		cfg:     cfg,
		targets: newTargetTable(),
		log:     l.With().Str("build", buildID).Logger(),
	}

	// Root volume starts at depth 1 so that an expand depth of 1 opens it.
	root, err := b.addVolume(vol, 1)
	if err != nil {
		b.log.Warn().Err(err).Msg("build failed")
		return nil, err
	}

	b.log.Debug().
		Int("nodes", CountNodes(root)).
		Int("targets", b.targets.Len()).
		Msg("build complete")

	return &Tree{
		Root:        root,
		Targets:     b.targets,
		ExpandDepth: cfg.expandDepth,
		BuildID:     buildID,
	}, nil
}

type builder struct {
	cfg     *config
	targets *TargetTable
	log     zerolog.Logger
}

func (b *builder) newNode(label string, kind types.NodeKind, depth int) *types.TreeNode {
	n := &types.TreeNode{
		Label:    label,
		Kind:     kind,
		TargetID: types.NoTarget,
		Depth:    depth,
	}
	if kind != types.NodeFile {
		n.Expanded = b.cfg.expandDepth < 0 || depth <= b.cfg.expandDepth
	}
	return n
}

func (b *builder) separatorFor(vol types.Volume) rune {
	if sv, ok := vol.(types.SeparatorVolume); ok {
		if sep := sv.Separator(); sep != 0 {
			return sep
		}
	}
	return b.cfg.separator
}

// addVolume loads vol into the tree, followed by all of its sub-volumes.
func (b *builder) addVolume(vol types.Volume, depth int) (*types.TreeNode, error) {
	node := b.newNode(volumeLabel(vol.VolumeID()), types.NodeVolume, depth)
	if ro, ok := vol.(types.ReadOnlyVolume); ok {
		node.ReadOnly = ro.ReadOnly()
	}
	node.TargetID = b.targets.add(types.Target{
		Kind:       types.TargetVolumeRoot,
		Selectable: true,
		Volume:     vol,
	})

	b.log.Debug().Str("volume", vol.VolumeID()).Int("depth", depth).Msg("adding volume")

	if b.cfg.includeSubdirs {
		cur := newCursor(vol, b.separatorFor(vol))
		cur.skipVolumeDir()
		if err := b.addSubdir(cur, node, "", depth+1); err != nil {
			return nil, err
		}
		// Anything left over could not be placed under the root scope.
		if !cur.done() {
			return nil, cur.violation("entry does not belong to any open directory")
		}
	}

	for _, sub := range vol.SubVolumes() {
		child, err := b.addVolume(sub, depth+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// addSubdir consumes the run of entries that live directly in parentPath,
// descending into each directory as it is reached. It stops at the first
// entry whose parent is not parentPath and leaves it for the caller.
func (b *builder) addSubdir(cur *cursor, parent *types.TreeNode, parentPath string, depth int) error {
	for !cur.done() {
		e, err := cur.peek()
		if err != nil {
			return err
		}
		if e.parent != parentPath {
			cur.rejectedBy(parentPath)
			return nil
		}
		cur.advance()

		if !e.entry.IsDirectory() {
			node := b.newNode(entryLabel(e.leaf), types.NodeFile, depth)
			if se, ok := e.entry.(types.SizedEntry); ok {
				node.Size = se.Size()
			}
			parent.Children = append(parent.Children, node)
			continue
		}

		node := b.newNode(entryLabel(e.leaf), types.NodeSubdirectory, depth)
		node.TargetID = b.targets.add(types.Target{
			Kind:       types.TargetSubdirectory,
			Selectable: true,
			Volume:     cur.vol,
			Entry:      e.entry,
		})
		parent.Children = append(parent.Children, node)

		if err := b.addSubdir(cur, node, e.path, depth+1); err != nil {
			return err
		}
	}
	return nil
}
