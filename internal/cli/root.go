// Package cli defines the library command line: the web server and the
// catalog maintenance commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/logging"
)

// BuildInfo is stamped at build time.
type BuildInfo struct {
	Version string
	Commit  string
}

// runtime is filled in by the root command before any subcommand runs.
type runtime struct {
	build   BuildInfo
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand(build BuildInfo) *cobra.Command {
	rt := &runtime{build: build}

	root := &cobra.Command{
		Use:           "library",
		Short:         "Local library catalog",
		Version:       fmt.Sprintf("%s (%s)", build.Version, build.Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "enable debug logging")

	serve := newServeCommand(rt)
	root.RunE = serve.RunE
	root.AddCommand(serve, newMigrateCommand(rt), newSeedCommand(rt))
	return root
}

func (rt *runtime) init() error {
	if rt.cfg == nil {
		rt.cfg = config.NewConfig()
	}
	if rt.logger != nil {
		return nil
	}
	logger, err := logging.New(rt.cfg.App.Env, rt.verbose)
	if err != nil {
		return err
	}
	rt.logger = logger
	return nil
}
