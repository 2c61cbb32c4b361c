package types

import "fmt"

// NodeKind tells how a TreeNode is displayed.
type NodeKind int

const (
	NodeVolume NodeKind = iota
	NodeSubdirectory
	NodeFile
)

func (k NodeKind) String() string {
	switch k {
	case NodeVolume:
		return "volume"
	case NodeSubdirectory:
		return "subdirectory"
	case NodeFile:
		return "file"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// MarshalText lets NodeKind show up by name in JSON and YAML output.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// TargetID identifies a Target inside the table it was allocated from.
type TargetID int

// NoTarget is carried by nodes that have no target (files).
const NoTarget TargetID = -1

// TreeNode is one element of the display hierarchy. A parent exclusively owns
// its children; children keep the order of the flat list they came from.
type TreeNode struct {
	Label    string      `json:"label" yaml:"label"`
	Kind     NodeKind    `json:"kind" yaml:"kind"`
	TargetID TargetID    `json:"targetId" yaml:"targetId"`
	Depth    int         `json:"depth" yaml:"depth"`
	Expanded bool        `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	ReadOnly bool        `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Size     int64       `json:"size,omitempty" yaml:"size,omitempty"`
	Children []*TreeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// TargetKind distinguishes what a selectable node stands for.
type TargetKind int

const (
	TargetUnknown TargetKind = iota
	TargetVolumeRoot
	TargetSubdirectory
)

func (k TargetKind) String() string {
	switch k {
	case TargetUnknown:
		return "unknown"
	case TargetVolumeRoot:
		return "volume-root"
	case TargetSubdirectory:
		return "subdirectory"
	default:
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
}

func (k TargetKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Target is the selection metadata of a volume or subdirectory node.
// Volume and Entry are borrowed from the disk image library.
type Target struct {
	ID         TargetID
	Kind       TargetKind
	Selectable bool
	Volume     Volume
	// Entry is set for TargetSubdirectory only.
	Entry FileEntry
}
