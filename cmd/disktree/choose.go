package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mrhapile/disktree/pkg/chooser"
	"github.com/mrhapile/disktree/pkg/disktree"
	"github.com/mrhapile/disktree/pkg/image"
	"github.com/mrhapile/disktree/pkg/render"
)

// promptOutput returns where the picker's list and prompts go. Input piped
// from a file or another process gets no prompts.
func promptOutput(in io.Reader, out io.Writer) io.Writer {
	f, ok := in.(*os.File)
	if !ok || isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return out
	}
	return io.Discard
}

func newPicker(cmd *cobra.Command) *chooser.LinePicker {
	in := cmd.InOrStdin()
	out := promptOutput(in, cmd.ErrOrStderr())
	if out == io.Discard {
		log.Ctx(cmd.Context()).Debug().Msg("reading choices from non-interactive input, prompts suppressed")
	}
	return chooser.NewLinePicker(in, out)
}

func newChooseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "choose <image>",
		Short: "Pick one of the sub-volumes of an image",
		Long: `Pick one of the sub-volumes of an image and print its id.

Type a number to select an entry, <number>! to pick it straight away, an
empty line to accept the selection or q to cancel.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := image.Open(args[0])
			if err != nil {
				return err
			}
			picker := newPicker(cmd)
			defer picker.Close()

			vol, ok, err := chooser.New(picker).ChooseVolume(cmd.Context(), snap)
			if err != nil {
				return err
			}
			if !ok {
				log.Ctx(cmd.Context()).Info().Msg("cancelled")
				return nil
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), vol.VolumeID())
			return err
		},
	}
}

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <image>",
		Short: "Open the volume of an image, asking which one if there are several",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settingsFrom(cmd)
			snap, err := image.Open(args[0])
			if err != nil {
				return err
			}
			picker := newPicker(cmd)
			defer picker.Close()

			vol, ok, err := chooser.New(picker).Resolve(cmd.Context(), snap)
			if err != nil {
				return err
			}
			if !ok {
				log.Ctx(cmd.Context()).Info().Msg("cancelled")
				return nil
			}
			tree, err := disktree.Build(vol, buildOptions(cfg)...)
			if err != nil {
				return err
			}
			opts, err := renderOptions(cfg, render.TreeFormat, render.TreeFormat, render.JSONFormat, render.YAMLFormat)
			if err != nil {
				return err
			}
			return render.Tree(cmd.OutOrStdout(), tree, opts)
		},
	}
}
