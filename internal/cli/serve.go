package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/entrypoint"
)

func newServeCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default if no command given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return entrypoint.Run(rt.cfg, rt.logger, rt.build.Version)
		},
	}
}
