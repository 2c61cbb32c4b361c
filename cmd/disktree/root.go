package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mrhapile/disktree/pkg/config"
	"github.com/mrhapile/disktree/pkg/disktree"
	"github.com/mrhapile/disktree/pkg/logger"
	"github.com/mrhapile/disktree/pkg/render"
)

type settingsKey struct{}

// rootOptions holds the values of the persistent flags.
type rootOptions struct {
	configFile string
	logMode    string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{logMode: string(logger.LogModeDefault)}
	if logtype, set := os.LookupEnv("LOG_TYPE"); set {
		opts.logMode = strings.ToLower(logtype)
	}

	rootCmd := &cobra.Command{
		Use:           "disktree",
		Short:         "Browse the volumes and directories of disk images",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger.ConfigureLogging(logger.LogMode(opts.logMode))

			v, err := config.New(opts.configFile)
			if err != nil {
				return err
			}
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log.Ctx(cmd.Context()).Debug().Interface("config", cfg).Msg("resolved settings")

			cmd.SetContext(context.WithValue(cmd.Context(), settingsKey{}, cfg))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Config file (default: ./disktree.yaml, then $HOME/.config/disktree/disktree.yaml)")
	pf.StringVar(&opts.logMode, "log-mode", opts.logMode, `Log format: 'default','json','quiet'`)
	pf.AddFlagSet(treeFlags())
	pf.AddFlagSet(outputFlags())

	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newTargetsCmd())
	rootCmd.AddCommand(newChooseCmd())
	rootCmd.AddCommand(newOpenCmd())
	rootCmd.AddCommand(newManifestCmd())
	rootCmd.AddCommand(newPackCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// The defaults shown here are informational; unchanged flags never
// override the config file or the environment.
func treeFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("tree", pflag.ContinueOnError)
	fs.Bool("subdirs", true, "Include the directory hierarchy of every volume")
	fs.Int("expand", 1, "Levels that start out expanded (0 = none, -1 = all)")
	fs.String("separator", "/", "Path separator for volumes that don't report one")
	return fs
}

func outputFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("output", pflag.ContinueOnError)
	fs.String("output", string(render.TreeFormat),
		fmt.Sprintf("The output format for the command (one of %v)", render.AllFormats))
	fs.Bool("pretty", false, "Pretty print the output. Only applies to json format.")
	fs.Bool("no-style", false, "Remove all styling from tree and table output.")
	return fs
}

func settingsFrom(cmd *cobra.Command) config.Config {
	if cfg, ok := cmd.Context().Value(settingsKey{}).(config.Config); ok {
		return cfg
	}
	return config.Config{}
}

func buildOptions(cfg config.Config) []disktree.Option {
	opts := []disktree.Option{
		disktree.WithSubdirectories(cfg.Tree.IncludeSubdirs),
		disktree.WithExpandDepth(cfg.Tree.ExpandDepth),
	}
	if sep := cfg.Tree.SeparatorRune(); sep != 0 {
		opts = append(opts, disktree.WithSeparator(sep))
	}
	return opts
}

// renderOptions turns the output settings into render options. fallback is
// used when the configured format is one this command can't print.
func renderOptions(cfg config.Config, fallback render.OutputFormat, allowed ...render.OutputFormat) (render.Options, error) {
	format, err := render.ParseFormat(cfg.Output.Format)
	if err != nil {
		return render.Options{}, err
	}
	ok := false
	for _, a := range allowed {
		ok = ok || a == format
	}
	if !ok {
		format = fallback
	}
	return render.Options{
		Format:  format,
		Pretty:  cfg.Output.Pretty,
		NoStyle: cfg.Output.NoStyle,
	}, nil
}

func Execute() {
	rootCmd := NewRootCmd()

	// Ensure commands are able to stop cleanly if someone presses ctrl+c
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	rootCmd.SetContext(ctx)

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		cancel()
		os.Exit(1)
	}
}
