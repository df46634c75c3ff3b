package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/library/internal/entrypoint"
)

func newSeedCommand(rt *runtime) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load authors, genres, books and copies from a YAML file",
		Example: "  library seed --file ./catalog.yaml\n" +
			"  DATABASE_URL_DEV=./demo.db library seed -f ./catalog.yaml",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := entrypoint.Open(rt.cfg, rt.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			summary, err := app.Seeder().LoadFile(cmd.Context(), file)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %d authors, %d genres, %d books, %d copies\n",
				summary.Authors, summary.Genres, summary.Books, summary.Instances)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file to load (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
