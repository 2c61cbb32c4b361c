package main

import (
	"fmt"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mrhapile/disktree/pkg/image"
)

type packOptions struct {
	outputDir string
	sort      bool
	timestamp string
}

func newPackCmd() *cobra.Command {
	opts := &packOptions{outputDir: "."}
	cmd := &cobra.Command{
		Use:   "pack <manifest>",
		Short: "Pack a manifest into a .tar.gz image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", opts.outputDir, "Directory to write the archive to")
	cmd.Flags().BoolVar(&opts.sort, "sort", false, "Reorder entries so every directory is followed by its own contents")
	cmd.Flags().StringVar(&opts.timestamp, "timestamp", "", "RFC 3339 time stamped on every member (default: the epoch)")
	return cmd
}

func runPack(cmd *cobra.Command, manifestPath string, opts *packOptions) error {
	m, err := image.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	var writeOpts []image.WriteOption
	if opts.sort {
		writeOpts = append(writeOpts, image.WithSortedEntries())
	}
	if opts.timestamp != "" {
		ts, err := time.Parse(time.RFC3339, opts.timestamp)
		if err != nil {
			return fmt.Errorf("invalid --timestamp: %w", err)
		}
		writeOpts = append(writeOpts, image.WithTimestamp(ts))
	}

	path, size, err := image.WriteArchive(m, opts.outputDir, writeOpts...)
	if err != nil {
		return err
	}
	log.Ctx(cmd.Context()).Debug().Str("hash", m.ContentHash).Msg("packed manifest")

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", path, datasize.ByteSize(size).HR())
	return err
}
