// Package render prints built trees and their target tables for a terminal.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/jedib0t/go-pretty/v6/list"
	yaml "gopkg.in/yaml.v2"

	"github.com/mrhapile/disktree/pkg/disktree"
	"github.com/mrhapile/disktree/pkg/types"
)

type OutputFormat string

const (
	TreeFormat  OutputFormat = "tree"
	TableFormat OutputFormat = "table"
	CSVFormat   OutputFormat = "csv"
	JSONFormat  OutputFormat = "json"
	YAMLFormat  OutputFormat = "yaml"
)

var AllFormats = []OutputFormat{TreeFormat, TableFormat, CSVFormat, JSONFormat, YAMLFormat}

// collapsedMarker is appended to nodes that have children but start closed.
const collapsedMarker = "[+]"

type Options struct {
	Format      OutputFormat
	Pretty      bool // indent json output
	NoStyle     bool // plain bullets, no table borders
	ShowTargets bool // print target ids next to labels
}

// ParseFormat checks s against the known formats.
func ParseFormat(s string) (OutputFormat, error) {
	for _, f := range AllFormats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q", s)
}

// Tree prints the hierarchy, honouring each node's expanded state.
func Tree(w io.Writer, t *disktree.Tree, opts Options) error {
	switch opts.Format {
	case TreeFormat, "":
	case JSONFormat, YAMLFormat:
		return Structured(w, opts, NewDocument(t))
	default:
		return fmt.Errorf("format %q is not supported for trees", opts.Format)
	}

	l := list.NewWriter()
	if opts.NoStyle {
		l.SetStyle(list.StyleDefault)
	} else {
		l.SetStyle(list.StyleConnectedRounded)
	}
	appendNode(l, t.Root, opts)

	_, err := fmt.Fprintln(w, l.Render())
	return err
}

func appendNode(l list.Writer, n *types.TreeNode, opts Options) {
	l.AppendItem(nodeText(n, opts))
	if len(n.Children) == 0 || !n.Expanded {
		return
	}
	l.Indent()
	for _, c := range n.Children {
		appendNode(l, c, opts)
	}
	l.UnIndent()
}

func nodeText(n *types.TreeNode, opts Options) string {
	var b strings.Builder
	b.WriteString(n.Label)
	switch n.Kind {
	case types.NodeVolume:
		if n.ReadOnly {
			b.WriteString(" (read-only)")
		}
	case types.NodeSubdirectory:
		b.WriteString("/")
	case types.NodeFile:
		if n.Size > 0 {
			fmt.Fprintf(&b, "  %s", datasize.ByteSize(n.Size).HR())
		}
	}
	if opts.ShowTargets && n.TargetID != types.NoTarget {
		fmt.Fprintf(&b, "  #%d", n.TargetID)
	}
	if len(n.Children) > 0 && !n.Expanded {
		b.WriteString(" " + collapsedMarker)
	}
	return b.String()
}

// Structured writes v as json or yaml.
func Structured(w io.Writer, opts Options, v interface{}) error {
	switch opts.Format {
	case JSONFormat:
		encoder := json.NewEncoder(w)
		if opts.Pretty {
			encoder.SetIndent("", "  ")
		}
		return encoder.Encode(v)
	case YAMLFormat:
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("invalid format %q", opts.Format)
	}
}
