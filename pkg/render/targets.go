package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mrhapile/disktree/pkg/disktree"
	"github.com/mrhapile/disktree/pkg/types"
)

// TargetRow is the printable form of a target. The live volume and entry
// references are reduced to their names.
type TargetRow struct {
	ID         types.TargetID   `json:"id" yaml:"id"`
	Kind       types.TargetKind `json:"kind" yaml:"kind"`
	Selectable bool             `json:"selectable" yaml:"selectable"`
	Volume     string           `json:"volume" yaml:"volume"`
	Path       string           `json:"path,omitempty" yaml:"path,omitempty"`
	Label      string           `json:"label" yaml:"label"`
}

// Document is what json and yaml output of a tree looks like.
type Document struct {
	BuildID     string          `json:"buildId" yaml:"buildId"`
	ExpandDepth int             `json:"expandDepth" yaml:"expandDepth"`
	Root        *types.TreeNode `json:"root" yaml:"root"`
	Targets     []TargetRow     `json:"targets" yaml:"targets"`
}

func NewDocument(t *disktree.Tree) Document {
	return Document{
		BuildID:     t.BuildID,
		ExpandDepth: t.ExpandDepth,
		Root:        t.Root,
		Targets:     TargetRows(t),
	}
}

// TargetRows lists the targets of t in allocation order.
func TargetRows(t *disktree.Tree) []TargetRow {
	targets := t.Targets.All()
	nodes := disktree.IndexByTarget(t.Root)
	rows := make([]TargetRow, 0, len(targets))
	for _, tg := range targets {
		row := TargetRow{
			ID:         tg.ID,
			Kind:       tg.Kind,
			Selectable: tg.Selectable,
		}
		if tg.Volume != nil {
			row.Volume = tg.Volume.VolumeID()
		}
		if tg.Entry != nil {
			row.Path = tg.Entry.FullPathName()
		}
		if n, ok := nodes[tg.ID]; ok {
			row.Label = n.Label
		}
		rows = append(rows, row)
	}
	return rows
}

var noStyle = table.Style{
	Name:   "StyleDefault",
	Box:    table.StyleBoxDefault,
	Color:  table.ColorOptionsDefault,
	Format: table.FormatOptionsDefault,
	HTML:   table.DefaultHTMLOptions,
	Options: table.Options{
		DrawBorder:      false,
		SeparateColumns: false,
		SeparateFooter:  false,
		SeparateHeader:  false,
		SeparateRows:    false,
	},
	Title: table.TitleOptionsDefault,
}

// Targets prints the target table of t.
func Targets(w io.Writer, t *disktree.Tree, opts Options) error {
	rows := TargetRows(t)
	switch opts.Format {
	case TableFormat, CSVFormat, "":
	case JSONFormat, YAMLFormat:
		return Structured(w, opts, rows)
	default:
		return fmt.Errorf("format %q is not supported for targets", opts.Format)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if opts.NoStyle {
		tw.SetStyle(noStyle)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	tw.AppendHeader(table.Row{"ID", "KIND", "SELECTABLE", "VOLUME", "PATH", "LABEL"})
	for _, r := range rows {
		tw.AppendRow(table.Row{
			strconv.Itoa(int(r.ID)), r.Kind.String(), strconv.FormatBool(r.Selectable),
			r.Volume, r.Path, r.Label,
		})
	}

	if opts.Format == CSVFormat {
		tw.RenderCSV()
	} else {
		tw.Render()
	}
	return nil
}
