package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrhapile/disktree/pkg/disktree"
	"github.com/mrhapile/disktree/pkg/image"
	"github.com/mrhapile/disktree/pkg/render"
	"github.com/mrhapile/disktree/pkg/types"
)

func newTreeCmd() *cobra.Command {
	var showTargets bool
	cmd := &cobra.Command{
		Use:   "tree <image>",
		Short: "Print the volume and directory tree of an image",
		Long: `Print the volume and directory tree of an image.

Images are manifests (.yaml, .yml, .json) or archives (.tar.gz, .tgz).
Collapsed branches are marked with [+]; use --expand=-1 to open all of them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settingsFrom(cmd)
			snap, err := image.Open(args[0])
			if err != nil {
				return err
			}
			tree, err := disktree.Build(snap, buildOptions(cfg)...)
			if err != nil {
				return err
			}
			opts, err := renderOptions(cfg, render.TreeFormat, render.TreeFormat, render.JSONFormat, render.YAMLFormat)
			if err != nil {
				return err
			}
			opts.ShowTargets = showTargets
			return render.Tree(cmd.OutOrStdout(), tree, opts)
		},
	}
	cmd.Flags().BoolVar(&showTargets, "show-targets", false, "Print the target id next to every volume and directory")
	return cmd
}

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets <image>",
		Short: "List the selectable targets of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settingsFrom(cmd)
			snap, err := image.Open(args[0])
			if err != nil {
				return err
			}
			tree, err := disktree.Build(snap, buildOptions(cfg)...)
			if err != nil {
				return err
			}
			opts, err := renderOptions(cfg, render.TableFormat, render.TableFormat, render.CSVFormat, render.JSONFormat, render.YAMLFormat)
			if err != nil {
				return err
			}
			return render.Targets(cmd.OutOrStdout(), tree, opts)
		},
	}
}

func newManifestCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "manifest <image>",
		Short: "Print the manifest describing an image",
		Long: `Print the manifest describing an image. Pointed at an archive this
captures its layout as a manifest that pack can turn back into an archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := image.Open(args[0])
			if err != nil {
				return err
			}
			m := &types.ImageManifest{
				Version:     image.ManifestVersion,
				Volume:      image.ToManifest(snap),
				ContentHash: snap.Fingerprint(),
			}
			return image.EncodeManifest(cmd.OutOrStdout(), m, image.Format(format))
		},
	}
	cmd.Flags().StringVar(&format, "format", string(image.FormatYAML),
		fmt.Sprintf("Manifest encoding (%s or %s)", image.FormatYAML, image.FormatJSON))
	return cmd
}
