package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mrhapile/disktree/pkg/image"
	"github.com/mrhapile/disktree/pkg/render"
)

// Set with -ldflags at release time.
var (
	version = "dev"
	commit  = "unknown"
)

type versionInfo struct {
	Version         string `json:"version" yaml:"version"`
	Commit          string `json:"commit" yaml:"commit"`
	GoVersion       string `json:"goVersion" yaml:"goVersion"`
	ManifestVersion string `json:"manifestVersion" yaml:"manifestVersion"`
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of disktree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:         version,
				Commit:          commit,
				GoVersion:       runtime.Version(),
				ManifestVersion: image.ManifestVersion,
			}
			opts, err := renderOptions(settingsFrom(cmd), render.YAMLFormat, render.JSONFormat, render.YAMLFormat)
			if err != nil {
				return err
			}
			return render.Structured(cmd.OutOrStdout(), opts, info)
		},
	}
}
